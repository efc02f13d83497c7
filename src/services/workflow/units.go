package workflow

import (
	"portfolio/src/models"

	"github.com/shopspring/decimal"
)

var (
	fractionalStep = decimal.New(1, -2)
	wholeStep      = decimal.NewFromInt(1)
)

// Units decides how finely each asset type can be traded.
type Units struct {
	whole map[models.AssetType]bool
}

// NewUnits treats the listed asset types as whole-unit only.
func NewUnits(wholeTypes []string) Units {
	u := Units{whole: make(map[models.AssetType]bool, len(wholeTypes))}
	for _, t := range wholeTypes {
		u.whole[models.ParseAssetType(t)] = true
	}
	return u
}

func (u Units) Fractional(t models.AssetType) bool {
	return !u.whole[t]
}

func step(fractional bool) decimal.Decimal {
	if fractional {
		return fractionalStep
	}
	return wholeStep
}

func places(fractional bool) int32 {
	if fractional {
		return 2
	}
	return 0
}

// normalize rounds q to the unit precision and raises it to the minimum unit.
func normalize(q decimal.Decimal, fractional bool) decimal.Decimal {
	q = q.Round(places(fractional))
	if least := step(fractional); q.LessThan(least) {
		return least
	}
	return q
}
