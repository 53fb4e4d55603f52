// Package report renders admin exports of the transaction ledger.
package report

import (
	"github.com/tealeg/xlsx"

	"github.com/pasarkita/pasar-backend/internal/trade"
)

// LedgerContentType is the MIME type of the generated workbook.
const LedgerContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BuildLedger renders the transactions into an xlsx workbook with one row
// per transaction.
func BuildLedger(transactions []trade.Transaction) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		return nil, err
	}

	headers := []string{
		"ID", "BuyerID", "SellerID", "DriverID", "Type", "Status",
		"TotalAmount", "ShippingCost", "Reviewed", "CreatedAt", "UpdatedAt",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, t := range transactions {
		row := sheet.AddRow()
		row.AddCell().SetValue(t.ID)
		row.AddCell().SetValue(t.BuyerID)
		row.AddCell().SetValue(t.SellerID)
		if t.DriverID != nil {
			row.AddCell().SetValue(*t.DriverID)
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(string(t.Type))
		row.AddCell().SetValue(string(t.Status))
		row.AddCell().SetValue(t.TotalAmount.StringFixed(2))
		if t.ShippingCost != nil {
			row.AddCell().SetValue(t.ShippingCost.StringFixed(2))
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(t.Reviewed)
		row.AddCell().SetValue(t.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(t.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return file, nil
}
