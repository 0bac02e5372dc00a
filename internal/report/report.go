// Package report строит "Rapport de révision" - выгрузку статистики пользователя в PDF и XLSX.
package report

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Форматы выгрузки
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat - неизвестный формат выгрузки
var ErrUnsupportedFormat = errors.New("unsupported report format")

const title = "Rapport de révision"

// Row - строка статистики по категории
type Row struct {
	Category int
	Label    string
	Total    int
	Correct  int
	Rate     int
}

// Report - данные отчета
type Report struct {
	Username    string
	GeneratedAt time.Time
	Rows        []Row
}

// File - готовый файл для скачивания
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Rate - процент верных ответов, округленный до целого
func Rate(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Totals суммирует все категории
func (r Report) Totals() Row {
	var t Row
	for _, row := range r.Rows {
		t.Total += row.Total
		t.Correct += row.Correct
	}
	t.Label = "Total"
	t.Rate = Rate(t.Correct, t.Total)
	return t
}

// Render строит отчет в нужном формате
func Render(format string, r Report) (*File, error) {
	name := fmt.Sprintf("rapport-revision-%s", r.GeneratedAt.Format("2006-01-02"))
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPDF, "":
		data, err := PDF(r)
		if err != nil {
			return nil, err
		}
		return &File{Name: name + ".pdf", ContentType: "application/pdf", Data: data}, nil
	case FormatXLSX:
		data, err := XLSX(r)
		if err != nil {
			return nil, err
		}
		return &File{
			Name:        name + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
