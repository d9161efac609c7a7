package service

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"triplog/internal/domain"
)

// Export content types.
const (
	CSVContentType = "text/csv; charset=utf-8"
	PDFContentType = "application/pdf"
)

const csvHeader = "Date,Start Location,End Location,Distance (km),Comment"

// Export is a rendered download.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportCSV renders trips in display order followed by a total row.
// Text fields are always quoted.
func ExportCSV(trips []domain.Trip, total float64) []byte {
	lines := make([]string, 0, len(trips)+2)
	lines = append(lines, csvHeader)
	for _, t := range trips {
		lines = append(lines, strings.Join([]string{
			quoteCSV(t.Date),
			quoteCSV(t.StartLocation),
			quoteCSV(t.EndLocation),
			formatKm(t.Distance),
			quoteCSV(t.Comment),
		}, ","))
	}
	lines = append(lines, ",,Total,"+formatKm(total)+",")
	return []byte(strings.Join(lines, "\n"))
}

// CSVFilename returns the download name for a CSV export made at now.
func CSVFilename(now time.Time) string {
	return "trips_" + now.UTC().Format(domain.DateLayout) + ".csv"
}

// PDFFilename returns the download name for a PDF export made at now.
func PDFFilename(now time.Time) string {
	return "trips_" + now.UTC().Format(domain.DateLayout) + ".pdf"
}

// ExportCSV renders the current store as a CSV download.
func (s *TripService) ExportCSV() Export {
	trips := s.store.List()
	return Export{
		Filename:    CSVFilename(domain.Now()),
		ContentType: CSVContentType,
		Body:        ExportCSV(trips, domain.TotalDistance(trips)),
	}
}

// ExportPDF renders the current store as a printable PDF report.
func (s *TripService) ExportPDF() (Export, error) {
	trips := s.store.List()
	now := domain.Now()

	body, err := ExportPDF(trips, domain.TotalDistance(trips), now)
	if err != nil {
		return Export{}, fmt.Errorf("render pdf: %w", err)
	}
	return Export{
		Filename:    PDFFilename(now),
		ContentType: PDFContentType,
		Body:        body,
	}, nil
}

// pdfColumns are the report table columns and their widths in mm.
var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 24, "L"},
	{"Start Location", 52, "L"},
	{"End Location", 52, "L"},
	{"Km", 20, "R"},
	{"Comment", 42, "L"},
}

// ExportPDF renders trips as an A4 report with a total line.
func ExportPDF(trips []domain.Trip, total float64, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Log", false)
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Trip Log")
	pdf.Ln(11)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated: "+generatedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	for _, t := range trips {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		comment := t.Comment
		if comment == "" {
			comment = "-"
		}
		cells := []string{t.Date, t.StartLocation, t.EndLocation, formatKm(t.Distance), comment}
		for i, col := range pdfColumns {
			text := fitText(pdf, tr(cells[i]), col.width-2)
			pdf.CellFormat(col.width, 6, text, "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total Kilometers: %s km", formatKm(total)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitText truncates s with an ellipsis so it fits in width mm.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatKm renders km in its shortest exact decimal form.
func formatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64)
}
