package quiz

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Alvarofrk/teckperu/internal/models"
	"github.com/Alvarofrk/teckperu/pkg/cache"
)

// Attempt status of a quiz for one student, derived from their
// completed sittings.
const (
	StatusApproved     = "approved"
	StatusFailed       = "failed"
	StatusNotAttempted = "not_attempted"
)

const (
	cachePrefix = "quiz:"
	cacheTTL    = 10 * time.Minute
)

type Service struct {
	store Store
	cache cache.Cache
}

func NewService(store Store, c cache.Cache) *Service {
	return &Service{store: store, cache: c}
}

// GetQuiz serves a quiz by slug. Drafts are hidden from students.
// Published quizzes are cached; a stale entry only survives until the
// next catalog write.
func (s *Service) GetQuiz(slug string, privileged bool) (*models.Quiz, error) {
	if data, ok := s.cache.Get(cachePrefix + "slug:" + slug); ok {
		var q models.Quiz
		if err := json.Unmarshal(data, &q); err == nil {
			if q.Draft && !privileged {
				return nil, ErrNotFound
			}
			return &q, nil
		}
	}

	q, err := s.store.GetQuizBySlug(slug)
	if err != nil {
		return nil, err
	}
	if q.Draft && !privileged {
		return nil, ErrNotFound
	}

	if data, err := json.Marshal(q); err == nil {
		s.cache.Set(cachePrefix+"slug:"+slug, data, cacheTTL)
	}
	return q, nil
}

// QuizSummary pairs a quiz with the caller's attempt status and their
// best completed result.
type QuizSummary struct {
	Quiz        models.Quiz `json:"quiz"`
	Status      string      `json:"status"`
	BestPercent int         `json:"best_percent"`
	Attempts    int         `json:"attempts"`
}

// ListByCourse lists a course's quizzes annotated with the caller's
// attempt status. Privileged callers also see drafts.
func (s *Service) ListByCourse(courseID, userID uint, privileged bool) ([]QuizSummary, error) {
	quizzes, err := s.store.ListByCourse(courseID, privileged)
	if err != nil {
		return nil, err
	}

	quizIDs := make([]uint, len(quizzes))
	byID := make(map[uint]*models.Quiz, len(quizzes))
	for i := range quizzes {
		quizIDs[i] = quizzes[i].ID
		byID[quizzes[i].ID] = &quizzes[i]
	}

	sittings, err := s.store.CompletedSittings(userID, quizIDs)
	if err != nil {
		return nil, err
	}

	type attempt struct {
		count    int
		best     int
		approved bool
	}
	attempts := make(map[uint]*attempt)
	for i := range sittings {
		st := &sittings[i]
		a := attempts[st.QuizID]
		if a == nil {
			a = &attempt{}
			attempts[st.QuizID] = a
		}
		a.count++
		// CompletedSittings may not carry the full question set; score
		// against the catalog quiz so the percentage stays exact.
		st.Quiz = byID[st.QuizID]
		if p := st.PercentCorrect(); p > a.best {
			a.best = p
		}
		if st.Approved() {
			a.approved = true
		}
	}

	summaries := make([]QuizSummary, len(quizzes))
	for i := range quizzes {
		summary := QuizSummary{Quiz: quizzes[i], Status: StatusNotAttempted}
		if a, ok := attempts[quizzes[i].ID]; ok {
			summary.Attempts = a.count
			summary.BestPercent = a.best
			if a.approved {
				summary.Status = StatusApproved
			} else {
				summary.Status = StatusFailed
			}
		}
		summaries[i] = summary
	}
	return summaries, nil
}

func (s *Service) GetQuizByID(quizID uint) (*models.Quiz, error) {
	return s.store.GetQuizByID(quizID)
}

func (s *Service) CreateQuiz(q *models.Quiz) error {
	taken, err := s.store.SlugExists(q.Slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}
	if q.PassMark <= 0 {
		q.PassMark = 80
	}
	if err := s.store.CreateQuiz(q); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) UpdateQuiz(q *models.Quiz) error {
	taken, err := s.store.SlugExists(q.Slug, q.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}
	if err := s.store.UpdateQuiz(q); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) DeleteQuiz(quizID uint) error {
	if _, err := s.store.GetQuizByID(quizID); err != nil {
		return err
	}
	if err := s.store.DeleteQuiz(quizID); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// AddQuestion appends a question to a quiz. A multiple-choice question
// needs at least two options with exactly one marked correct; essay
// questions carry no options.
func (s *Service) AddQuestion(quizID uint, q *models.Question) error {
	if _, err := s.store.GetQuizByID(quizID); err != nil {
		return err
	}
	if err := validateQuestion(q); err != nil {
		return err
	}
	q.QuizID = quizID
	if err := s.store.CreateQuestion(q); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) UpdateQuestion(questionID uint, updated *models.Question) (*models.Question, error) {
	existing, err := s.store.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if err := validateQuestion(updated); err != nil {
		return nil, err
	}

	existing.Type = updated.Type
	existing.Content = updated.Content
	existing.Category = updated.Category
	existing.Explanation = updated.Explanation
	if err := s.store.UpdateQuestion(existing); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceChoices(existing.ID, updated.Choices); err != nil {
		return nil, err
	}
	s.invalidate()
	return s.store.GetQuestion(questionID)
}

func (s *Service) DeleteQuestion(questionID uint) error {
	if _, err := s.store.GetQuestion(questionID); err != nil {
		return err
	}
	if err := s.store.DeleteQuestion(questionID); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	s.cache.Invalidate(cachePrefix)
}

func validateQuestion(q *models.Question) error {
	switch q.Type {
	case models.QuestionEssay:
		if len(q.Choices) != 0 {
			return ErrInvalidQuestion
		}
	case models.QuestionMultipleChoice, "":
		q.Type = models.QuestionMultipleChoice
		if len(q.Choices) < 2 {
			return ErrInvalidQuestion
		}
		correct := 0
		for _, c := range q.Choices {
			if c.Correct {
				correct++
			}
		}
		if correct != 1 {
			return ErrInvalidQuestion
		}
	default:
		log.Printf("rejecting question with unknown type %q", q.Type)
		return ErrInvalidQuestion
	}
	return nil
}
