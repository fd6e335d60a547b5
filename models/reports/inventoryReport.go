package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"bitbucket.org/ahadnetwork/inventory_backend/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const timeLayout = "2006-01-02 15:04:05"

// BuildInventoryWorkbook renders the current catalog and the activity log as
// a two-sheet workbook for the dashboard's export action.
func BuildInventoryWorkbook(catalog map[string]*models.Product, ledger []models.ActivityLog) (*excelize.File, error) {
	f := excelize.NewFile()

	const invSheet = "Inventory"
	if err := f.SetSheetName("Sheet1", invSheet); err != nil {
		return nil, err
	}

	invHeaders := []string{"Product Name", "SKU", "Current Stock", "Cost Price (RM)", "Retail Price (RM)", "Total Value (RM)", "Last Updated"}
	for col, h := range invHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(invSheet, cell, h)
	}
	for i, row := range inventoryRows(catalog) {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(invSheet, cell, v)
		}
	}

	const actSheet = "Activity Log"
	if _, err := f.NewSheet(actSheet); err != nil {
		return nil, err
	}
	actHeaders := []string{"Date/Time", "Transaction ID", "Type", "Order Number", "Products", "Quantity Changes", "User", "Notes"}
	for col, h := range actHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(actSheet, cell, h)
	}
	for i, row := range activityRows(catalog, ledger) {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(actSheet, cell, v)
		}
	}

	return f, nil
}

// BuildInventoryCSV renders the catalog sheet alone as CSV.
func BuildInventoryCSV(catalog map[string]*models.Product) ([]byte, error) {
	rows := [][]string{{"Product Name", "SKU", "Current Stock", "Cost Price (RM)", "Retail Price (RM)", "Total Value (RM)", "Last Updated"}}
	rows = append(rows, inventoryRows(catalog)...)
	return writeCSV(rows)
}

// BuildActivityCSV renders the activity sheet alone as CSV.
func BuildActivityCSV(catalog map[string]*models.Product, ledger []models.ActivityLog) ([]byte, error) {
	rows := [][]string{{"Date/Time", "Transaction ID", "Type", "Order Number", "Products", "Quantity Changes", "User", "Notes"}}
	rows = append(rows, activityRows(catalog, ledger)...)
	return writeCSV(rows)
}

func inventoryRows(catalog map[string]*models.Product) [][]string {
	var rows [][]string
	for _, id := range models.ProductIDs() {
		p, ok := catalog[id]
		if !ok {
			continue
		}
		totalValue := p.RetailPrice.Mul(decimal.NewFromInt(int64(p.Stock)))
		rows = append(rows, []string{
			p.Name,
			p.SKU,
			fmt.Sprintf("%d", p.Stock),
			p.CostPrice.StringFixed(2),
			p.RetailPrice.StringFixed(2),
			totalValue.StringFixed(2),
			p.LastUpdated.Format(timeLayout),
		})
	}
	return rows
}

func activityRows(catalog map[string]*models.Product, ledger []models.ActivityLog) [][]string {
	rows := make([][]string, 0, len(ledger))
	for i := range ledger {
		entry := &ledger[i]

		var names, changes string
		for j, u := range entry.ProductUpdates {
			name := u.ProductID
			if p, ok := catalog[u.ProductID]; ok {
				name = p.Name
			}
			if j > 0 {
				names += "; "
				changes += "; "
			}
			names += name
			changes += fmt.Sprintf("%+d", u.Change)
		}

		orderNumber := entry.OrderNumber
		if orderNumber == "" {
			orderNumber = "N/A"
		}

		rows = append(rows, []string{
			entry.Timestamp.Format(timeLayout),
			entry.ID,
			string(entry.Type),
			orderNumber,
			names,
			changes,
			entry.UserName,
			entry.Notes,
		})
	}
	return rows
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename builds the dated download name, e.g. ahad-inventory-2025-01-31.xlsx.
func ExportFilename(prefix string, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, now.Format("2006-01-02"), ext)
}
