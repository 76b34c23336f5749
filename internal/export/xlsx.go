package export

import (
	"bytes"
	"fmt"

	"armory/pkg/models"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

// MovementWorkbook renders the compiled movement log as an XLSX workbook,
// one row per line item.
func MovementWorkbook(entries []models.MovementLogEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"date",
		"action_type",
		"base",
		"asset",
		"quantity",
		"performed_by",
		"remarks",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("unable to write workbook header: %w", err)
	}

	row := 2
	for _, entry := range entries {
		for _, item := range entry.Items {
			excelRow := []interface{}{
				entry.Date.Format(dateLayout),
				entry.ActionType.String(),
				entry.BaseName,
				item.AssetName,
				item.Quantity,
				entry.PerformedBy,
				entry.Remarks,
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, fmt.Errorf("unable to address workbook row %d: %w", row, err)
			}
			if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
				return nil, fmt.Errorf("unable to write workbook row %d: %w", row, err)
			}
			row++
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("unable to serialize workbook: %w", err)
	}

	return buf, nil
}
