package certificate

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvarofrk/teckperu/internal/models"
)

type fakeCertStore struct {
	sittings    map[uint]*models.Sitting
	allocations map[[2]uint]bool
}

func (f *fakeCertStore) GetSitting(sittingID uint) (*models.Sitting, error) {
	s, ok := f.sittings[sittingID]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (f *fakeCertStore) IsLecturerAllocated(lecturerID, courseID uint) (bool, error) {
	return f.allocations[[2]uint{lecturerID, courseID}], nil
}

func (f *fakeCertStore) ApprovedSittings(userID uint) ([]models.Sitting, error) {
	var out []models.Sitting
	for _, s := range f.sittings {
		if s.UserID == userID && s.ApprovedAt != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func approvedSitting() *models.Sitting {
	approvedAt := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	return &models.Sitting{
		ID:              1,
		UserID:          3,
		QuizID:          5,
		CourseID:        7,
		QuestionOrder:   "1,2,3,4",
		CurrentScore:    4,
		Complete:        true,
		End:             &approvedAt,
		ApprovedAt:      &approvedAt,
		CertificateCode: "abc-123",
		Start:           approvedAt,
		User:            &models.User{Username: "44556677", FirstName: "Ana", LastName: "Quispe"},
		Quiz:            &models.Quiz{ID: 5, Title: "Trabajos en altura", PassMark: 60},
		Course:          &models.Course{ID: 7, Code: "0003", Title: "Trabajos en altura"},
	}
}

func newCertService(store *fakeCertStore) *Service {
	return NewService(store, "")
}

func TestCertificateForOwner(t *testing.T) {
	store := &fakeCertStore{sittings: map[uint]*models.Sitting{1: approvedSitting()}}
	svc := newCertService(store)

	pdf, err := svc.Certificate(1, 3, false)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output is not a PDF")
}

func TestCertificateDeniedToStrangers(t *testing.T) {
	store := &fakeCertStore{
		sittings:    map[uint]*models.Sitting{1: approvedSitting()},
		allocations: map[[2]uint]bool{},
	}
	svc := newCertService(store)

	_, err := svc.Certificate(1, 99, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCertificateAllowedForAllocatedLecturer(t *testing.T) {
	store := &fakeCertStore{
		sittings:    map[uint]*models.Sitting{1: approvedSitting()},
		allocations: map[[2]uint]bool{{10, 7}: true},
	}
	svc := newCertService(store)

	_, err := svc.Certificate(1, 10, false)
	assert.NoError(t, err)
}

func TestCertificateAllowedForSuperuser(t *testing.T) {
	store := &fakeCertStore{sittings: map[uint]*models.Sitting{1: approvedSitting()}}
	svc := newCertService(store)

	_, err := svc.Certificate(1, 99, true)
	assert.NoError(t, err)
}

func TestCertificateUnavailableForFailedSitting(t *testing.T) {
	failed := approvedSitting()
	failed.CurrentScore = 1
	failed.ApprovedAt = nil
	failed.CertificateCode = ""
	store := &fakeCertStore{sittings: map[uint]*models.Sitting{1: failed}}
	svc := newCertService(store)

	_, err := svc.Certificate(1, 3, false)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestTranscriptDeduplicatesPerQuiz(t *testing.T) {
	first := approvedSitting()
	second := approvedSitting()
	second.ID = 2
	other := approvedSitting()
	other.ID = 3
	other.QuizID = 6
	other.Quiz = &models.Quiz{ID: 6, Title: "Izaje de cargas", PassMark: 60}

	store := &fakeCertStore{sittings: map[uint]*models.Sitting{
		1: first, 2: second, 3: other,
	}}
	svc := newCertService(store)

	pdf, err := svc.Transcript(3)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestTranscriptEmptyIsUnavailable(t *testing.T) {
	store := &fakeCertStore{sittings: map[uint]*models.Sitting{}}
	svc := newCertService(store)

	_, err := svc.Transcript(3)
	assert.ErrorIs(t, err, ErrNotAvailable)
}
