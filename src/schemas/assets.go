package schemas

import (
	"fmt"

	"portfolio/src/models"

	"github.com/shopspring/decimal"
)

// AssetResponse is one row of GET /api/assets/get-all and the body of GET /api/assets/get/:id.
type AssetResponse struct {
	ID        int                 `json:"id"`
	Name      string              `json:"name"`
	Type      string              `json:"type"`
	Price     decimal.NullDecimal `json:"price"`
	CreatedAt Date                `json:"created_at"`
}

// ToModel validates the row and converts it to a models.Asset.
func (a AssetResponse) ToModel() (models.Asset, error) {
	if a.ID <= 0 {
		return models.Asset{}, fmt.Errorf("asset without id")
	}
	if !a.Price.Valid || a.Price.Decimal.IsNegative() {
		return models.Asset{}, fmt.Errorf("asset %d has no valid price", a.ID)
	}
	return models.Asset{
		ID:        a.ID,
		Name:      a.Name,
		Type:      models.ParseAssetType(a.Type),
		Price:     a.Price.Decimal,
		CreatedAt: a.CreatedAt.ToTime(),
	}, nil
}
