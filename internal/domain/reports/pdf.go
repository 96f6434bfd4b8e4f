package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF writes the record set as a PDF, grouped by month with the newest
// month first. The records are assumed ordered by date descending, as
// ListRecords returns them.
func RenderPDF(w io.Writer, title string, from, to time.Time, records []Record) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if !from.IsZero() || !to.IsZero() {
		pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", formatDate(from), formatDate(to)))
		pdf.Ln(8)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	if len(records) == 0 {
		pdf.Cell(0, 8, "No reports in this period.")
		return pdf.Output(w)
	}

	var month string
	for _, r := range records {
		m := r.Date.Format("January 2006")
		if m != month {
			month = m
			pdf.Ln(4)
			pdf.SetFont("Helvetica", "B", 13)
			pdf.Cell(0, 9, month)
			pdf.Ln(10)
			pdf.SetFont("Helvetica", "", 11)
		}

		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, fmt.Sprintf("%s  %s (%s, %s)", r.Date.Format("2006-01-02"), r.EmployeeName, r.RoleName, r.BranchName))
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		if r.TaskTitle != "" {
			pdf.Cell(0, 6, fmt.Sprintf("Task: %s", r.TaskTitle))
			pdf.Ln(6)
		}
		pdf.MultiCell(0, 6, r.Content, "", "L", false)
		pdf.Ln(3)
	}

	return pdf.Output(w)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
