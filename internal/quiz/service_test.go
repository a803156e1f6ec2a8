package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alvarofrk/teckperu/internal/models"
	"github.com/Alvarofrk/teckperu/pkg/cache"
)

type fakeQuizStore struct {
	quizzes   map[uint]*models.Quiz
	questions map[uint]*models.Question
	sittings  []models.Sitting
	nextID    uint
	slugReads int
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{
		quizzes:   map[uint]*models.Quiz{},
		questions: map[uint]*models.Question{},
		nextID:    1,
	}
}

func (f *fakeQuizStore) CreateQuiz(q *models.Quiz) error {
	q.ID = f.nextID
	f.nextID++
	f.quizzes[q.ID] = q
	return nil
}

func (f *fakeQuizStore) UpdateQuiz(q *models.Quiz) error {
	f.quizzes[q.ID] = q
	return nil
}

func (f *fakeQuizStore) DeleteQuiz(quizID uint) error {
	delete(f.quizzes, quizID)
	return nil
}

func (f *fakeQuizStore) GetQuizBySlug(slug string) (*models.Quiz, error) {
	f.slugReads++
	for _, q := range f.quizzes {
		if q.Slug == slug {
			return q, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeQuizStore) GetQuizByID(quizID uint) (*models.Quiz, error) {
	q, ok := f.quizzes[quizID]
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

func (f *fakeQuizStore) ListByCourse(courseID uint, includeDrafts bool) ([]models.Quiz, error) {
	var out []models.Quiz
	for _, q := range f.quizzes {
		if q.CourseID != courseID {
			continue
		}
		if q.Draft && !includeDrafts {
			continue
		}
		out = append(out, *q)
	}
	return out, nil
}

func (f *fakeQuizStore) SlugExists(slug string, excludeID uint) (bool, error) {
	for _, q := range f.quizzes {
		if q.Slug == slug && q.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeQuizStore) CreateQuestion(q *models.Question) error {
	q.ID = f.nextID
	f.nextID++
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuizStore) GetQuestion(questionID uint) (*models.Question, error) {
	q, ok := f.questions[questionID]
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

func (f *fakeQuizStore) UpdateQuestion(q *models.Question) error {
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuizStore) DeleteQuestion(questionID uint) error {
	delete(f.questions, questionID)
	return nil
}

func (f *fakeQuizStore) ReplaceChoices(questionID uint, choices []models.Choice) error {
	q, ok := f.questions[questionID]
	if !ok {
		return ErrNotFound
	}
	q.Choices = choices
	return nil
}

func (f *fakeQuizStore) CompletedSittings(userID uint, quizIDs []uint) ([]models.Sitting, error) {
	var out []models.Sitting
	for _, s := range f.sittings {
		if s.UserID != userID {
			continue
		}
		for _, id := range quizIDs {
			if s.QuizID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func newTestQuizService(store *fakeQuizStore) *Service {
	return NewService(store, cache.NewMemoryCache())
}

func publishedQuiz(slug string, courseID uint) *models.Quiz {
	return &models.Quiz{CourseID: courseID, Slug: slug, Title: slug, PassMark: 60}
}

func TestGetQuizHidesDraftsFromStudents(t *testing.T) {
	store := newFakeQuizStore()
	svc := newTestQuizService(store)

	draft := publishedQuiz("en-construccion", 1)
	draft.Draft = true
	require.NoError(t, svc.CreateQuiz(draft))

	_, err := svc.GetQuiz("en-construccion", false)
	assert.ErrorIs(t, err, ErrNotFound)

	q, err := svc.GetQuiz("en-construccion", true)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, q.ID)
}

func TestGetQuizServedFromCache(t *testing.T) {
	store := newFakeQuizStore()
	svc := newTestQuizService(store)
	require.NoError(t, svc.CreateQuiz(publishedQuiz("seguridad", 1)))

	_, err := svc.GetQuiz("seguridad", false)
	require.NoError(t, err)
	reads := store.slugReads
	_, err = svc.GetQuiz("seguridad", false)
	require.NoError(t, err)
	assert.Equal(t, reads, store.slugReads)
}

func TestCatalogWriteInvalidatesCache(t *testing.T) {
	store := newFakeQuizStore()
	svc := newTestQuizService(store)
	q := publishedQuiz("seguridad", 1)
	require.NoError(t, svc.CreateQuiz(q))

	_, err := svc.GetQuiz("seguridad", false)
	require.NoError(t, err)
	reads := store.slugReads

	q.Title = "Seguridad industrial"
	require.NoError(t, svc.UpdateQuiz(q))

	_, err = svc.GetQuiz("seguridad", false)
	require.NoError(t, err)
	assert.Equal(t, reads+1, store.slugReads)
}

func TestGetQuizByID(t *testing.T) {
	store := newFakeQuizStore()
	svc := newTestQuizService(store)
	q := publishedQuiz("seguridad", 1)
	require.NoError(t, svc.CreateQuiz(q))

	got, err := svc.GetQuizByID(q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Slug, got.Slug)

	_, err = svc.GetQuizByID(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateQuizRejectsDuplicateSlug(t *testing.T) {
	store := newFakeQuizStore()
	svc := newTestQuizService(store)
	require.NoError(t, svc.CreateQuiz(publishedQuiz("seguridad", 1)))

	err := svc.CreateQuiz(publishedQuiz("seguridad", 2))
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCreateQuizDefaultsPassMark(t *testing.T) {
	store := newFakeQuizStore()
	svc := newTestQuizService(store)

	q := &models.Quiz{CourseID: 1, Slug: "sin-nota", Title: "Sin nota"}
	require.NoError(t, svc.CreateQuiz(q))
	assert.Equal(t, 80, q.PassMark)
}

func TestAddQuestionValidation(t *testing.T) {
	store := newFakeQuizStore()
	svc := newTestQuizService(store)
	q := publishedQuiz("seguridad", 1)
	require.NoError(t, svc.CreateQuiz(q))

	// No correct option.
	err := svc.AddQuestion(q.ID, &models.Question{
		Content: "¿?",
		Choices: []models.Choice{{Content: "a"}, {Content: "b"}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	// Two correct options.
	err = svc.AddQuestion(q.ID, &models.Question{
		Content: "¿?",
		Choices: []models.Choice{{Content: "a", Correct: true}, {Content: "b", Correct: true}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	// Essay with options.
	err = svc.AddQuestion(q.ID, &models.Question{
		Type:    models.QuestionEssay,
		Content: "Desarrolle",
		Choices: []models.Choice{{Content: "a"}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	// Well formed multiple choice; the empty type defaults.
	valid := &models.Question{
		Content: "¿?",
		Choices: []models.Choice{{Content: "a", Correct: true}, {Content: "b"}},
	}
	require.NoError(t, svc.AddQuestion(q.ID, valid))
	assert.Equal(t, models.QuestionMultipleChoice, valid.Type)
	assert.Equal(t, q.ID, valid.QuizID)
}

func TestListByCourseAnnotatesAttemptStatus(t *testing.T) {
	store := newFakeQuizStore()
	svc := newTestQuizService(store)

	passed := publishedQuiz("aprobado", 1)
	failed := publishedQuiz("reprobado", 1)
	untouched := publishedQuiz("pendiente", 1)
	draft := publishedQuiz("borrador", 1)
	draft.Draft = true
	for _, q := range []*models.Quiz{passed, failed, untouched, draft} {
		require.NoError(t, svc.CreateQuiz(q))
	}

	end := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	store.sittings = []models.Sitting{
		{UserID: 3, QuizID: passed.ID, QuestionOrder: "1,2,3,4", CurrentScore: 4, Complete: true, End: &end},
		{UserID: 3, QuizID: failed.ID, QuestionOrder: "1,2,3,4", CurrentScore: 1, Complete: true, End: &end},
		{UserID: 9, QuizID: untouched.ID, QuestionOrder: "1,2,3,4", CurrentScore: 4, Complete: true, End: &end},
	}

	summaries, err := svc.ListByCourse(1, 3, false)
	require.NoError(t, err)

	bySlug := map[string]QuizSummary{}
	for _, s := range summaries {
		bySlug[s.Quiz.Slug] = s
	}
	require.Len(t, bySlug, 3)
	assert.NotContains(t, bySlug, "borrador")

	assert.Equal(t, StatusApproved, bySlug["aprobado"].Status)
	assert.Equal(t, 100, bySlug["aprobado"].BestPercent)
	assert.Equal(t, StatusFailed, bySlug["reprobado"].Status)
	assert.Equal(t, 25, bySlug["reprobado"].BestPercent)
	// Another user's pass does not leak into this student's row.
	assert.Equal(t, StatusNotAttempted, bySlug["pendiente"].Status)
}
