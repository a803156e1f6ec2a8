package certificate

import (
	"github.com/jung-kurt/gofpdf"

	"github.com/Alvarofrk/teckperu/internal/models"
)

// Portrait A4 in points, used by the annex template.
const (
	annexPageWidth  = 595.28
	annexPageHeight = 841.89
)

// AnnexForm carries the declaration fields the student fills in when
// requesting the signed annex. Company, district and province fall
// back to the student's profile when left blank.
type AnnexForm struct {
	EntryDate  string
	Occupation string
	WorkArea   string
	Company    string
	District   string
	Province   string
}

func (f AnnexForm) withProfile(st *models.Student) AnnexForm {
	if st == nil {
		return f
	}
	if f.Company == "" {
		f.Company = st.Company
	}
	if f.District == "" {
		f.District = st.District
	}
	if f.Province == "" {
		f.Province = st.Province
	}
	return f
}

// Annex renders the signed declaration annex of one approved sitting.
// Only the student themselves can request it.
func (s *Service) Annex(sittingID, requesterID uint, form AnnexForm) ([]byte, error) {
	st, err := s.store.GetSitting(sittingID)
	if err != nil {
		return nil, err
	}
	if st.UserID != requesterID {
		return nil, ErrForbidden
	}
	if !st.Approved() {
		return nil, ErrNotAvailable
	}
	if st.User != nil {
		form = form.withProfile(st.User.Student)
	}
	return renderAnnex(st, form, s.assetsDir)
}

// renderAnnex overlays the form fields on the annex template. The
// coordinates match the pre-printed boxes of the template artwork,
// measured from the top-left corner.
func renderAnnex(s *models.Sitting, form AnnexForm, assetsDir string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	drawBackground(pdf, assetsDir, "anexo4.png", annexPageWidth, annexPageHeight)

	name := ""
	username := ""
	if s.User != nil {
		name = tr(s.User.FullName())
		username = s.User.Username
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)

	pdf.Text(370, 150, name)
	pdf.Text(475, 193, username)

	pdf.Text(403, 171.5, tr(form.EntryDate))
	pdf.Text(379, 213, tr(form.Occupation))
	pdf.Text(400, 233.5, tr(form.WorkArea))

	pdf.Text(126.5, 171.5, tr(form.Company))
	pdf.Text(68.2, 214, tr(form.District))
	pdf.Text(79, 235, tr(form.Province))

	approvedAt := s.Start
	if s.ApprovedAt != nil {
		approvedAt = *s.ApprovedAt
	}
	pdf.Text(391, 641, tr(SpanishLongDate(approvedAt)))

	// Handwritten-style signature line above the pre-printed box.
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Text(55, annexPageHeight-115, name)

	return output(pdf)
}
