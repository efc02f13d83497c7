package schemas

import (
	"fmt"

	"portfolio/src/models"

	"github.com/shopspring/decimal"
)

// HoldingResponse is one row of GET /api/holdings.
type HoldingResponse struct {
	ID            int                 `json:"id"`
	AssetID       int                 `json:"asset_id"`
	Name          string              `json:"name"`
	Type          string              `json:"type"`
	Quantity      decimal.NullDecimal `json:"quantity"`
	PurchasePrice decimal.NullDecimal `json:"purchase_price"`
	PurchaseDate  Date                `json:"purchase_date"`
}

// ToModel validates the row and converts it to a models.Holding. Rows without asset_id
// reference the asset through their own id, as older backend revisions did.
func (h HoldingResponse) ToModel() (models.Holding, error) {
	if h.ID <= 0 {
		return models.Holding{}, fmt.Errorf("holding without id")
	}
	if !h.Quantity.Valid || h.Quantity.Decimal.IsNegative() {
		return models.Holding{}, fmt.Errorf("holding %d has no valid quantity", h.ID)
	}
	if !h.PurchasePrice.Valid || h.PurchasePrice.Decimal.IsNegative() {
		return models.Holding{}, fmt.Errorf("holding %d has no valid purchase price", h.ID)
	}
	assetID := h.AssetID
	if assetID == 0 {
		assetID = h.ID
	}
	return models.Holding{
		ID:            h.ID,
		AssetID:       assetID,
		Name:          h.Name,
		AssetType:     models.ParseAssetType(h.Type),
		Quantity:      h.Quantity.Decimal,
		PurchasePrice: h.PurchasePrice.Decimal,
		PurchaseDate:  h.PurchaseDate.ToTime(),
	}, nil
}
