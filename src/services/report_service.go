package services

import (
	"context"
	"fmt"

	"portfolio/src/models"
	"portfolio/src/utils"

	"github.com/xuri/excelize/v2"
)

const (
	TransactionsSheet = "Transactions"
	HoldingsSheet     = "Holdings"

	// Built-in excelize number formats.
	currencyNumFmt = 8
	decimalNumFmt  = 4
	percentNumFmt  = 10
)

type ReportServiceI interface {
	GenerateXLSXReport(ctx context.Context, transactions []models.Transaction, holdings []models.HoldingPerformance) (*excelize.File, error)
}

type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

type column struct {
	title  string
	numFmt int
}

// GenerateXLSXReport writes transactions and holdings to a workbook with one sheet each.
// Rows are written in the order given.
func (rs *ReportService) GenerateXLSXReport(ctx context.Context, transactions []models.Transaction, holdings []models.HoldingPerformance) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", TransactionsSheet); err != nil {
		return nil, err
	}

	transactionRows := make([][]interface{}, 0, len(transactions))
	for _, t := range transactions {
		transactionRows = append(transactionRows, []interface{}{
			t.Date.Format(utils.ShortDashDateLayout),
			string(t.Type),
			t.Description,
			t.Amount.InexactFloat64(),
		})
	}
	err := rs.writeSheet(f, TransactionsSheet, []column{
		{title: "Date"},
		{title: "Type"},
		{title: "Description"},
		{title: "Amount", numFmt: currencyNumFmt},
	}, transactionRows)
	if err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(HoldingsSheet); err != nil {
		return nil, err
	}
	holdingRows := make([][]interface{}, 0, len(holdings))
	for _, h := range holdings {
		holdingRows = append(holdingRows, []interface{}{
			h.Name,
			string(h.AssetType),
			h.Quantity.InexactFloat64(),
			h.PurchasePrice.InexactFloat64(),
			h.CurrentPrice.InexactFloat64(),
			h.CostBasis.InexactFloat64(),
			h.CurrentValue.InexactFloat64(),
			h.ProfitLoss.InexactFloat64(),
			h.ProfitLossPercent.Shift(-2).InexactFloat64(),
		})
	}
	err = rs.writeSheet(f, HoldingsSheet, []column{
		{title: "Name"},
		{title: "Type"},
		{title: "Quantity", numFmt: decimalNumFmt},
		{title: "Purchase price", numFmt: currencyNumFmt},
		{title: "Current price", numFmt: currencyNumFmt},
		{title: "Total cost", numFmt: currencyNumFmt},
		{title: "Total value", numFmt: currencyNumFmt},
		{title: "Profit/Loss", numFmt: currencyNumFmt},
		{title: "Profit/Loss %", numFmt: percentNumFmt},
	}, holdingRows)
	if err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (rs *ReportService) writeSheet(f *excelize.File, sheetName string, columns []column, rows [][]interface{}) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, col.title); err != nil {
			return err
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	return rs.applyStyles(f, sheetName, columns, len(rows))
}

func (rs *ReportService) applyStyles(f *excelize.File, sheetName string, columns []column, rowCount int) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6E6"},
			Pattern: 1,
		},
		Border: border,
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, 18); err != nil {
			return err
		}
		if rowCount == 0 {
			continue
		}

		style, err := f.NewStyle(&excelize.Style{NumFmt: col.numFmt, Border: border})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, name+"2", fmt.Sprintf("%s%d", name, rowCount+1), style); err != nil {
			return err
		}
	}
	return nil
}
