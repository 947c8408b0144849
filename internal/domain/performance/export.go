package performance

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"
)

// ExportRecordPDF renders a published or archived evaluation as a printable
// document. Unpublished content never leaves the manager/HR flow.
func (s *Service) ExportRecordPDF(ctx context.Context, recordID string) ([]byte, error) {
	record, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != RecordStatusHRPublished && record.Status != RecordStatusArchived {
		return nil, Invalidf("only published appraisal records can be exported")
	}

	cycle, err := s.store.GetCycle(ctx, record.CycleID)
	if err != nil {
		return nil, err
	}
	template, err := s.store.GetTemplate(ctx, record.TemplateID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Appraisal Record")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Cycle: %s (%s to %s)", cycle.Name, cycle.StartDate.Format("2006-01-02"), cycle.EndDate.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Template: %s (%s)", template.Name, template.Type))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", record.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Ratings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	criteria := make([]string, 0, len(record.Ratings))
	for criterion := range record.Ratings {
		criteria = append(criteria, criterion)
	}
	sort.Strings(criteria)
	for _, criterion := range criteria {
		pdf.Cell(0, 7, fmt.Sprintf("%s: %.1f", criterion, record.Ratings[criterion]))
		pdf.Ln(6)
	}
	pdf.Ln(4)
	pdf.Cell(0, 8, fmt.Sprintf("Total score: %.1f (%s)", record.TotalScore, record.OverallRatingLabel))
	pdf.Ln(10)

	writeSection(pdf, "Manager summary", record.ManagerSummary)
	writeSection(pdf, "Strengths", record.Strengths)
	writeSection(pdf, "Improvement areas", record.ImprovementAreas)
	if record.EmployeeAcknowledgementComment != "" {
		writeSection(pdf, "Employee comment", record.EmployeeAcknowledgementComment)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, title, body string) {
	if body == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, body, "", "", false)
	pdf.Ln(4)
}
