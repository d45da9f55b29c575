package dummydb

import (
	"context"
	"sort"

	"github.com/edusight/edusight/core/career"
)

type careerRepository struct {
	db *careerTables
}

var _ career.Repository = (*careerRepository)(nil) // interface compliance check

func NewCareerRepository(db *DB) career.Repository {
	return &careerRepository{db: db.career}
}

func (repo *careerRepository) QueryActiveQuestions(ctx context.Context) ([]career.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []career.Question
	for _, q := range repo.db.questions {
		if q.IsActive {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (repo *careerRepository) GetQuestionByID(ctx context.Context, id int) (career.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.questions[id]; ok {
		return *q, nil
	}
	return career.Question{}, career.ErrQuestionNotFound
}

func (repo *careerRepository) CreateQuestion(ctx context.Context, q career.Question) (career.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.questionPK++
	q.ID = repo.db.questionPK
	for i := range q.Options {
		repo.db.optionPK++
		q.Options[i].ID = repo.db.optionPK
		q.Options[i].QuestionID = q.ID
	}
	repo.db.questions[q.ID] = &q
	return q, nil
}

func (repo *careerRepository) CreateAnswer(ctx context.Context, a career.Answer) (career.Answer, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.answerPK++
	a.ID = repo.db.answerPK
	repo.db.answers[a.ID] = &a
	return a, nil
}

func (repo *careerRepository) QueryStudentAnswers(ctx context.Context, studentID int) ([]career.Answer, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []career.Answer
	for _, a := range repo.db.answers {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (repo *careerRepository) DeleteStudentAnswers(ctx context.Context, studentID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, a := range repo.db.answers {
		if a.StudentID == studentID {
			delete(repo.db.answers, id)
		}
	}
	return nil
}

func (repo *careerRepository) QueryActiveCareers(ctx context.Context, limit int) ([]career.Career, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []career.Career
	for _, c := range repo.db.careers {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (repo *careerRepository) CreateCareer(ctx context.Context, c career.Career) (career.Career, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.careerPK++
	c.ID = repo.db.careerPK
	repo.db.careers[c.ID] = &c
	return c, nil
}

func (repo *careerRepository) CreateHistory(ctx context.Context, h career.History) (career.History, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.historyPK++
	h.ID = repo.db.historyPK
	repo.db.history[h.ID] = &h
	return h, nil
}

func (repo *careerRepository) GetHistoryByID(ctx context.Context, id int) (career.History, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if h, ok := repo.db.history[id]; ok {
		return *h, nil
	}
	return career.History{}, career.ErrHistoryNotFound
}

func (repo *careerRepository) QueryStudentHistory(ctx context.Context, studentID, n int) ([]career.History, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []career.History
	for _, h := range repo.db.history {
		if h.StudentID == studentID {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (repo *careerRepository) UpdateHistory(ctx context.Context, h career.History) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.history[h.ID]; !ok {
		return career.ErrHistoryNotFound
	}
	repo.db.history[h.ID] = &h
	return nil
}
