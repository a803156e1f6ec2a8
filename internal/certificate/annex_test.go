package certificate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvarofrk/teckperu/internal/models"
)

func annexForm() AnnexForm {
	return AnnexForm{
		EntryDate:  "15/01/2024",
		Occupation: "Operario",
		WorkArea:   "Mantenimiento",
		Company:    "Minera Andina",
		District:   "San Juan de Lurigancho",
		Province:   "Lima",
	}
}

func TestAnnexForOwner(t *testing.T) {
	store := &fakeCertStore{sittings: map[uint]*models.Sitting{1: approvedSitting()}}
	svc := newCertService(store)

	pdf, err := svc.Annex(1, 3, annexForm())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output is not a PDF")
}

func TestAnnexDeniedToAnyoneButOwner(t *testing.T) {
	store := &fakeCertStore{
		sittings:    map[uint]*models.Sitting{1: approvedSitting()},
		allocations: map[[2]uint]bool{{10, 7}: true},
	}
	svc := newCertService(store)

	_, err := svc.Annex(1, 99, annexForm())
	assert.ErrorIs(t, err, ErrForbidden)

	// Allocated lecturers download certificates, not annexes.
	_, err = svc.Annex(1, 10, annexForm())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAnnexUnavailableForFailedSitting(t *testing.T) {
	failed := approvedSitting()
	failed.CurrentScore = 1
	failed.ApprovedAt = nil
	failed.CertificateCode = ""
	store := &fakeCertStore{sittings: map[uint]*models.Sitting{1: failed}}
	svc := newCertService(store)

	_, err := svc.Annex(1, 3, annexForm())
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestAnnexFormFallsBackToStudentProfile(t *testing.T) {
	profile := &models.Student{
		UserID:   3,
		Company:  "Constructora Sur",
		District: "Cerro Colorado",
		Province: "Arequipa",
	}

	form := AnnexForm{EntryDate: "15/01/2024", Occupation: "Operario", WorkArea: "Obra"}
	merged := form.withProfile(profile)
	assert.Equal(t, "Constructora Sur", merged.Company)
	assert.Equal(t, "Cerro Colorado", merged.District)
	assert.Equal(t, "Arequipa", merged.Province)

	// An explicit form value wins over the profile.
	form.Company = "Minera Andina"
	merged = form.withProfile(profile)
	assert.Equal(t, "Minera Andina", merged.Company)
	assert.Equal(t, "Cerro Colorado", merged.District)

	// No profile on record keeps whatever was posted.
	merged = form.withProfile(nil)
	assert.Equal(t, "Minera Andina", merged.Company)
	assert.Equal(t, "", merged.District)
}
