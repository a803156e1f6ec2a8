package progress

import (
	"log"

	"github.com/Alvarofrk/teckperu/internal/models"
)

const uncategorized = "sin categoría"

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Record adds one scored answer to the user's historical tally for the
// question's category. Tallies are append-only; failures are logged and
// swallowed so a progress hiccup never blocks answer submission.
func (s *Service) Record(userID uint, category string, correct bool) {
	c := 0
	if correct {
		c = 1
	}
	if category == "" {
		category = uncategorized
	}
	if err := s.store.IncrementScore(userID, category, c, 1); err != nil {
		log.Printf("progress: error recording score for user %d: %v", userID, err)
	}
}

func (s *Service) Summary(userID uint) ([]models.ProgressRecord, error) {
	return s.store.RecordsForUser(userID)
}
