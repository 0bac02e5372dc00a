package report

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	pdfFont     = "Helvetica"
	barMaxWidth = 34.0
)

// PDF рисует отчет одной страницей A4
func PDF(r Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	// Встроенные шрифты в cp1252, accents переводятся через translator
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 20)
	pdf.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 11)
	who := cases.Title(language.French).String(r.Username)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s - %s", who, r.GeneratedAt.Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	widths := []float64{70, 25, 25, 20, 40}
	headers := []string{"Catégorie", "Réalisés", "Réussis", "Taux", ""}
	pdf.SetFont(pdfFont, "B", 11)
	pdf.SetFillColor(230, 236, 245)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 11)
	if len(r.Rows) == 0 {
		pdf.CellFormat(sum(widths), 8, tr("Aucun exercice réalisé pour le moment."), "1", 1, "C", false, 0, "")
	}
	rows := make([]Row, 0, len(r.Rows)+1)
	rows = append(append(rows, r.Rows...), r.Totals())
	for _, row := range rows {
		if row.Label == "Total" {
			pdf.SetFont(pdfFont, "B", 11)
		}
		x, y := pdf.GetXY()
		pdf.CellFormat(widths[0], 8, tr(row.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, fmt.Sprintf("%d", row.Total), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 8, fmt.Sprintf("%d", row.Correct), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 8, fmt.Sprintf("%d %%", row.Rate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 8, "", "1", 1, "C", false, 0, "")

		// Полоска успешности в последней колонке
		barX := x + sum(widths[:4]) + 3
		red, green, blue := rateColor(row.Rate)
		pdf.SetFillColor(red, green, blue)
		if w := barMaxWidth * float64(row.Rate) / 100; w > 0 {
			pdf.Rect(barX, y+2, w, 4, "F")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf report: %w", err)
	}
	return buf.Bytes(), nil
}

func rateColor(rate int) (int, int, int) {
	switch {
	case rate >= 75:
		return 46, 160, 67
	case rate >= 50:
		return 240, 173, 78
	default:
		return 217, 83, 79
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
