package services_test

import (
	"context"
	"testing"
	"time"

	"portfolio/src/models"
	"portfolio/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateXLSXReport(t *testing.T) {
	rs := services.NewReportService()
	date := time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		{ID: 1, Type: models.TransactionInvestment, Amount: decimal.RequireFromString("1965.00"), Date: date, Description: "Purchased 10 units of Apple Inc."},
		{ID: 2, Type: models.TransactionIncome, Amount: decimal.RequireFromString("12.40"), Date: date.AddDate(0, 0, -3), Description: "Dividend"},
	}
	holdings := []models.HoldingPerformance{{
		Holding:      models.Holding{ID: 1, Name: "Apple Inc.", AssetType: models.AssetTypeStock, Quantity: decimal.NewFromInt(10)},
		CurrentValue: decimal.RequireFromString("1755.00"),
	}}

	f, err := rs.GenerateXLSXReport(context.Background(), transactions, holdings)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{services.TransactionsSheet, services.HoldingsSheet}, f.GetSheetList())

	rows, err := f.GetRows(services.TransactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Type", "Description", "Amount"}, rows[0])
	assert.Equal(t, "2024-12-15", rows[1][0])
	assert.Equal(t, "Investment", rows[1][1])

	raw, err := f.GetCellValue(services.TransactionsSheet, "D3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "12.4", raw)

	rows, err = f.GetRows(services.HoldingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Apple Inc.", rows[1][0])
}

func TestGenerateXLSXReportEmpty(t *testing.T) {
	f, err := services.NewReportService().GenerateXLSXReport(context.Background(), nil, nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(services.HoldingsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
