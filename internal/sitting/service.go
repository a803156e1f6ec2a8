package sitting

import (
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Alvarofrk/teckperu/internal/models"
	"github.com/Alvarofrk/teckperu/internal/progress"
)

// Invalidator is notified whenever finalized data changes so derived
// caches can be dropped.
type Invalidator interface {
	Invalidate()
}

// Notifier pushes sitting lifecycle events to listening dashboards.
type Notifier interface {
	Broadcast(event string, payload interface{})
}

type Service struct {
	store      Store
	progress   *progress.Service
	dashboards Invalidator
	hub        Notifier
}

func NewService(store Store, progress *progress.Service, dashboards Invalidator, hub Notifier) *Service {
	return &Service{
		store:      store,
		progress:   progress,
		dashboards: dashboards,
		hub:        hub,
	}
}

// Create returns the user's open sitting for the quiz if one exists,
// otherwise starts a fresh attempt. Retakes are allowed only after a
// failing completed attempt: a passing attempt blocks forever, and a
// single-attempt quiz blocks after any completed attempt.
func (s *Service) Create(userID, quizID uint) (*models.Sitting, error) {
	quiz, err := s.store.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Draft {
		return nil, ErrNotFound
	}

	open, err := s.store.OpenSitting(userID, quizID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return open, nil
	}

	completed, err := s.store.CompletedSittings(userID, quizID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	for i := range completed {
		if completed[i].Approved() {
			return nil, ErrAlreadyCompleted
		}
	}
	if len(completed) > 0 && quiz.SingleAttempt {
		return nil, ErrAlreadyCompleted
	}

	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	ids := make([]uint, len(quiz.Questions))
	for i, q := range quiz.Questions {
		ids[i] = q.ID
	}
	if quiz.RandomOrder {
		rand.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
	}

	order := models.EncodeIDList(ids)
	newSitting := &models.Sitting{
		UserID:        userID,
		QuizID:        quizID,
		CourseID:      quiz.CourseID,
		QuestionOrder: order,
		QuestionQueue: order,
		Start:         time.Now(),
	}
	if err := s.store.CreateSitting(newSitting); err != nil {
		return nil, err
	}
	newSitting.Quiz = quiz
	log.Printf("Created sitting %d for user %d on quiz %d", newSitting.ID, userID, quizID)
	return newSitting, nil
}

// CurrentQuestion returns the question at the head of the queue, or
// nil once every question has been answered (the sitting is ready to
// finalize).
func (s *Service) CurrentQuestion(userID, sittingID uint) (*models.Question, error) {
	st, err := s.store.GetSitting(sittingID)
	if err != nil {
		return nil, err
	}
	if st.UserID != userID {
		return nil, ErrNotFound
	}
	if st.Complete {
		return nil, ErrInvalidState
	}
	head, ok := st.FirstQuestionID()
	if !ok {
		return nil, nil
	}
	return s.store.GetQuestion(head)
}

// AnswerResult reports the outcome of one submission. Correct is nil
// for essay questions, which are never auto-scored.
type AnswerResult struct {
	Correct *bool `json:"correct"`
	// Revealed carries the marked question when the quiz shows answers
	// immediately rather than at the end.
	Revealed *models.QuestionDTO `json:"revealed,omitempty"`
}

// SubmitAnswer scores the head-of-queue question and advances the
// sitting. Each question can be answered at most once; submitting out
// of order or a second time fails with ErrInvalidState and leaves the
// score untouched.
func (s *Service) SubmitAnswer(userID, sittingID, questionID uint, answer string) (*AnswerResult, error) {
	var result AnswerResult
	var question *models.Question

	updated, err := s.store.Mutate(sittingID, func(st *models.Sitting) error {
		if st.UserID != userID {
			return ErrNotFound
		}
		if st.Complete {
			return ErrInvalidState
		}
		if st.Answered(questionID) {
			return ErrInvalidState
		}
		head, ok := st.FirstQuestionID()
		if !ok || head != questionID {
			return ErrInvalidState
		}

		var err error
		question, err = s.store.GetQuestion(questionID)
		if err != nil {
			return err
		}

		correct := question.Check(answer)
		if correct != nil {
			if *correct {
				st.CurrentScore++
			} else {
				st.AddIncorrectQuestion(questionID)
			}
		}
		if err := st.RecordAnswer(questionID, answer); err != nil {
			return err
		}
		st.RemoveFirstQuestion()
		result.Correct = correct
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Correct != nil {
		s.progress.Record(userID, question.Category, *result.Correct)
	}
	if updated.Quiz != nil && !updated.Quiz.AnswersAtEnd {
		dto := question.ToDTO(true)
		result.Revealed = &dto
	}
	return &result, nil
}

// Finalize closes a sitting whose queue is empty, freezing the score
// and stamping the approval timestamp and certificate code on a pass.
// It is idempotent and safe to re-enter after a crash: a finalized
// sitting keeps its original code and percentage, and a passing
// sitting that lost its code before persisting gets one assigned.
// Non-exam-paper sittings, and any sitting finalized by a privileged
// actor, are discarded afterwards; the result is still returned.
func (s *Service) Finalize(userID, sittingID uint, privileged bool) (*models.SittingResult, error) {
	updated, err := s.store.Mutate(sittingID, func(st *models.Sitting) error {
		if st.UserID != userID && !privileged {
			return ErrNotFound
		}
		if _, pending := st.FirstQuestionID(); pending {
			return ErrInvalidState
		}
		if !st.Complete {
			now := time.Now()
			st.Complete = true
			st.End = &now
		}
		if st.Approved() {
			if st.ApprovedAt == nil {
				now := time.Now()
				st.ApprovedAt = &now
			}
			if st.CertificateCode == "" {
				st.CertificateCode = uuid.NewString()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &models.SittingResult{
		SittingID:      updated.ID,
		Score:          updated.CurrentScore,
		MaxScore:       updated.MaxScore(),
		PercentCorrect: updated.PercentCorrect(),
		Passed:         updated.Approved(),
	}
	if updated.CertificateCode != "" {
		code := updated.CertificateCode
		result.CertificateCode = &code
	}

	ephemeral := updated.Quiz != nil && !updated.Quiz.ExamPaper
	if ephemeral || privileged {
		if err := s.store.DeleteSitting(updated); err != nil {
			log.Printf("Error discarding ephemeral sitting %d: %v", updated.ID, err)
		} else {
			s.notify("sitting_deleted", updated.ID)
		}
	}

	if s.dashboards != nil {
		s.dashboards.Invalidate()
	}
	s.notify("sitting_finalized", map[string]interface{}{
		"sitting_id": updated.ID,
		"quiz_id":    updated.QuizID,
		"passed":     result.Passed,
	})

	return result, nil
}

// Detail returns a completed sitting with its questions and recorded
// answers, for the marking views.
func (s *Service) Detail(sittingID uint) (*models.Sitting, []models.QuestionDTO, error) {
	st, err := s.store.GetSitting(sittingID)
	if err != nil {
		return nil, nil, err
	}
	answers := st.AnswerMap()
	questions := make([]models.QuestionDTO, 0, len(answers))
	for _, id := range models.DecodeIDList(st.QuestionOrder) {
		q, err := s.store.GetQuestion(id)
		if err != nil {
			log.Printf("Skipping missing question %d of sitting %d: %v", id, sittingID, err)
			continue
		}
		questions = append(questions, q.ToDTO(true))
	}
	return st, questions, nil
}

func (s *Service) notify(event string, payload interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, payload)
	}
}
