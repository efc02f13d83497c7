package utils_test

import (
	"testing"

	"portfolio/src/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,755.00", utils.FormatMoney(decimal.RequireFromString("1755")))
	assert.Equal(t, "$0.10", utils.FormatMoney(decimal.RequireFromString("0.1")))
	assert.Equal(t, "$48,245.00", utils.FormatMoney(decimal.RequireFromString("48245.004")))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "175.56", utils.RoundMoney(decimal.RequireFromString("175.555")).String())
}
