package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// SummaryPDF renders a yard occupancy summary as a printable A4 PDF
func (s *Service) SummaryPDF(yardID int64) ([]byte, error) {
	summary, err := s.Summary(yardID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, fmt.Sprintf("Yard Occupancy Report - %s", summary.YardName), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated at %s", summary.GeneratedAt.Format("2006-01-02 15:04 UTC")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	rows := []struct {
		label string
		value string
	}{
		{"Total boxes", fmt.Sprintf("%d", summary.TotalBoxes)},
		{"Free", fmt.Sprintf("%d", summary.Free)},
		{"Occupied", fmt.Sprintf("%d", summary.Occupied)},
		{"Maintenance", fmt.Sprintf("%d", summary.Maintenance)},
		{"Occupancy rate", fmt.Sprintf("%.1f%%", summary.OccupancyRate*100)},
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(60, 8, "Metric", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Value", "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, r := range rows {
		pdf.CellFormat(60, 8, r.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, r.value, "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
