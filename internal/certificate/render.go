package certificate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/Alvarofrk/teckperu/internal/models"
)

// Overlay ink colors matching the template artwork.
var (
	gold = [3]int{217, 163, 33}
	blue = [3]int{13, 59, 102}
)

// renderCertificate draws the overlay fields for one approved sitting.
// The template artwork for the course (when present under assetsDir)
// is used as full-page background; positions come from the course
// layout table.
func renderCertificate(s *models.Sitting, assetsDir string) ([]byte, error) {
	pdf := gofpdf.New("L", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if s.Course != nil {
		drawBackground(pdf, assetsDir, "certificado_"+s.Course.Code+".png", pageWidth, pageHeight)
	}

	code := ""
	if s.Course != nil {
		code = s.Course.Code
	}
	l := layoutFor(code)

	name := ""
	username := ""
	if s.User != nil {
		name = tr(s.User.FullName())
		username = s.User.Username
	}
	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetTextColor(gold[0], gold[1], gold[2])
	pdf.Text(pageWidth/2-pdf.GetStringWidth(name)/2, pageHeight-l.NameY, name)

	// Grade on the 1-20 scale.
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(blue[0], blue[1], blue[2])
	pdf.Text(l.Score.X, pageHeight-l.Score.Y, fmt.Sprintf("%d", s.PercentCorrect()/5))

	pdf.SetFont("Helvetica", "", 16)
	approvedAt := s.Start
	if s.ApprovedAt != nil {
		approvedAt = *s.ApprovedAt
	}
	pdf.Text(l.Date.X, pageHeight-l.Date.Y, tr(SpanishLongDate(approvedAt)))
	pdf.Text(l.Username.X, pageHeight-l.Username.Y, username)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(l.Code.X, pageHeight-l.Code.Y, s.CertificateCode)

	return output(pdf)
}

// renderTranscript draws the consolidated table of a student's
// approved courses.
func renderTranscript(rows []transcriptRow, student string) ([]byte, error) {
	pdf := gofpdf.New("L", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 30, "Consolidado de cursos aprobados", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 18, tr(student), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	headers := []string{"Nombre del curso", "Puntuación", "Puntuación Máxima", "Porcentaje", "Estado", "Fecha de Aprobación"}
	widths := []float64{230, 90, 110, 90, 120, 140}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(186, 96, 34)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 22, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		cells := []string{
			row.CourseTitle,
			fmt.Sprintf("%d", row.Score),
			fmt.Sprintf("%d", row.MaxScore),
			fmt.Sprintf("%d%%", row.Percent),
			row.Status,
			row.ApprovedAt,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 20, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

// RenderReportTable draws a dashboard export table as a landscape PDF.
func RenderReportTable(title string, table models.ReportTable) ([]byte, error) {
	pdf := gofpdf.New("L", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 28, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	cols := len(table.Headers)
	if cols == 0 {
		return output(pdf)
	}
	width := (pageWidth - 60) / float64(cols)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(186, 96, 34)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range table.Headers {
		pdf.CellFormat(width, 20, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range table.Rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(width, 18, tr(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

func drawBackground(pdf *gofpdf.Fpdf, assetsDir, filename string, w, h float64) {
	if assetsDir == "" {
		return
	}
	path := filepath.Join(assetsDir, filename)
	if _, err := os.Stat(path); err != nil {
		return
	}
	pdf.ImageOptions(path, 0, 0, w, h, false,
		gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
