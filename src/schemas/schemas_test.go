package schemas_test

import (
	"encoding/json"
	"testing"
	"time"

	"portfolio/src/models"
	"portfolio/src/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("should accept plain dates and timestamps", func(t *testing.T) {
		var body struct {
			A schemas.Date `json:"a"`
			B schemas.Date `json:"b"`
			C schemas.Date `json:"c"`
		}
		err := json.Unmarshal([]byte(`{"a":"2024-03-01","b":"2024-03-01T10:30:00Z","c":null}`), &body)
		require.NoError(t, err)

		assert.True(t, body.A.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, body.B.Equal(time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)))
		assert.True(t, body.C.IsZero())
	})

	t.Run("should reject other formats", func(t *testing.T) {
		var d schemas.Date
		assert.Error(t, json.Unmarshal([]byte(`"01/03/2024"`), &d))
		assert.Error(t, json.Unmarshal([]byte(`20240301`), &d))
	})
}

func TestHoldingResponse(t *testing.T) {
	t.Run("should use the holding id when asset_id is missing", func(t *testing.T) {
		var row schemas.HoldingResponse
		require.NoError(t, json.Unmarshal([]byte(`{"id":7,"name":"Acme","type":"Stock","quantity":"3","purchase_price":12.5,"purchase_date":"2024-01-02"}`), &row))

		h, err := row.ToModel()
		require.NoError(t, err)
		assert.Equal(t, 7, h.AssetID)
		assert.Equal(t, models.AssetTypeStock, h.AssetType)
		assert.Equal(t, "12.5", h.PurchasePrice.String())
	})

	t.Run("should reject rows without quantity", func(t *testing.T) {
		var row schemas.HoldingResponse
		require.NoError(t, json.Unmarshal([]byte(`{"id":7,"purchase_price":1}`), &row))

		_, err := row.ToModel()
		assert.Error(t, err)
	})
}

func TestAssetResponse(t *testing.T) {
	var row schemas.AssetResponse
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Gold","type":"Commodity","price":"1800.25"}`), &row))

	a, err := row.ToModel()
	require.NoError(t, err)
	assert.Equal(t, models.AssetTypeOther, a.Type)

	row.Price.Valid = false
	_, err = row.ToModel()
	assert.Error(t, err)
}

func TestTransactionResponse(t *testing.T) {
	var row schemas.TransactionResponse
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"type":"Income","amount":"15","date":"2024-05-01"}`), &row))

	tx, err := row.ToModel()
	require.NoError(t, err)
	assert.Equal(t, models.TransactionIncome, tx.Type)

	row.Type = "Gift"
	_, err = row.ToModel()
	assert.Error(t, err)
}

func TestParseOrderResponse(t *testing.T) {
	assert.Equal(t, "Bought", schemas.ParseOrderResponse([]byte(`{"message":"Bought"}`)).Message)
	assert.Equal(t, "Bought", schemas.ParseOrderResponse([]byte(` "Bought" `)).Message)
	assert.Empty(t, schemas.ParseOrderResponse([]byte(`OK`)).Message)
	assert.Empty(t, schemas.ParseOrderResponse([]byte(`[1,2]`)).Message)
	assert.Empty(t, schemas.ParseOrderResponse(nil).Message)
}
