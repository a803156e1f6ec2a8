package certificate

import (
	"errors"

	"github.com/Alvarofrk/teckperu/internal/models"
)

var (
	// ErrNotAvailable is returned when a certificate is requested for a
	// sitting that did not pass or has no code assigned yet.
	ErrNotAvailable = errors.New("certificate: not available for this sitting")

	// ErrForbidden is returned when the requester is neither the
	// student, a lecturer allocated to the course, nor a superuser.
	ErrForbidden = errors.New("certificate: access denied")

	ErrNotFound = errors.New("certificate: sitting not found")
)

type Store interface {
	GetSitting(sittingID uint) (*models.Sitting, error)
	IsLecturerAllocated(lecturerID, courseID uint) (bool, error)
	ApprovedSittings(userID uint) ([]models.Sitting, error)
}

type Service struct {
	store Store
	// assetsDir holds the per-course template artwork; empty renders
	// the overlay on a blank page.
	assetsDir string
}

func NewService(store Store, assetsDir string) *Service {
	return &Service{store: store, assetsDir: assetsDir}
}

// Certificate renders the PDF certificate of one approved sitting.
// The student can fetch their own; lecturers must be allocated to the
// course; superusers can fetch any.
func (s *Service) Certificate(sittingID, requesterID uint, superuser bool) ([]byte, error) {
	st, err := s.store.GetSitting(sittingID)
	if err != nil {
		return nil, err
	}

	if st.UserID != requesterID && !superuser {
		courseID := st.CourseID
		allocated, err := s.store.IsLecturerAllocated(requesterID, courseID)
		if err != nil {
			return nil, err
		}
		if !allocated {
			return nil, ErrForbidden
		}
	}

	if !st.Approved() || st.CertificateCode == "" {
		return nil, ErrNotAvailable
	}
	return renderCertificate(st, s.assetsDir)
}

type transcriptRow struct {
	CourseTitle string
	Score       int
	MaxScore    int
	Percent     int
	Status      string
	ApprovedAt  string
}

// Transcript renders the consolidated table of the user's approved
// courses. Per quiz only the latest approved attempt is listed.
func (s *Service) Transcript(userID uint) ([]byte, error) {
	sittings, err := s.store.ApprovedSittings(userID)
	if err != nil {
		return nil, err
	}
	if len(sittings) == 0 {
		return nil, ErrNotAvailable
	}

	fullName := ""
	if sittings[0].User != nil {
		fullName = sittings[0].User.FullName()
	}

	seen := map[uint]bool{}
	rows := make([]transcriptRow, 0, len(sittings))
	for i := range sittings {
		st := &sittings[i]
		if !st.Approved() || seen[st.QuizID] || st.Quiz == nil {
			continue
		}
		seen[st.QuizID] = true
		date := "-"
		if st.ApprovedAt != nil {
			date = SpanishLongDate(*st.ApprovedAt)
		}
		rows = append(rows, transcriptRow{
			CourseTitle: st.Quiz.Title,
			Score:       st.CurrentScore,
			MaxScore:    st.MaxScore(),
			Percent:     st.PercentCorrect(),
			Status:      "Curso completado",
			ApprovedAt:  date,
		})
	}
	return renderTranscript(rows, fullName)
}
