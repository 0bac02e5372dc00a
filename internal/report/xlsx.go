package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Statistiques"

// XLSX выгружает отчет в Excel через StreamWriter
func XLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	rows := [][]interface{}{
		{title},
		{SanitizeForExcel(r.Username), r.GeneratedAt.Format("02/01/2006 15:04")},
		{""},
		{"Catégorie", "Libellé", "Réalisés", "Réussis", "Taux (%)"},
	}
	for _, row := range r.Rows {
		rows = append(rows, []interface{}{row.Category, SanitizeForExcel(row.Label), row.Total, row.Correct, row.Rate})
	}
	t := r.Totals()
	rows = append(rows, []interface{}{"", t.Label, t.Total, t.Correct, t.Rate})

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func SanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
