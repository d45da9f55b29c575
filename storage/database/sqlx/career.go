package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core/career"
)

type questionRow struct {
	ID               int           `db:"id"`
	Text             string        `db:"text"`
	Category         string        `db:"category"`
	ParentQuestionID sql.NullInt64 `db:"parent_question_id"`
	RequiredAnswer   sql.NullInt64 `db:"required_answer"`
	IsActive         bool          `db:"is_active"`
}

func (r questionRow) toQuestion() career.Question {
	q := career.Question{
		ID:       r.ID,
		Text:     r.Text,
		Category: r.Category,
		IsActive: r.IsActive,
	}
	if r.ParentQuestionID.Valid {
		q.ParentQuestionID = null.IntFrom(int(r.ParentQuestionID.Int64))
	}
	if r.RequiredAnswer.Valid {
		q.RequiredAnswer = null.IntFrom(int(r.RequiredAnswer.Int64))
	}
	return q
}

type historyRow struct {
	ID             int            `db:"id"`
	StudentID      int            `db:"student_id"`
	Careers        pq.StringArray `db:"careers"`
	Skills         pq.StringArray `db:"skills_recommended"`
	Courses        pq.StringArray `db:"courses_suggested"`
	LLMUsed        bool           `db:"llm_used"`
	CreatedAt      time.Time      `db:"created_at"`
	FeedbackRating sql.NullInt64  `db:"feedback_rating"`
}

func (r historyRow) toHistory() career.History {
	h := career.History{
		ID:        r.ID,
		StudentID: r.StudentID,
		Careers:   r.Careers,
		Skills:    r.Skills,
		Courses:   r.Courses,
		LLMUsed:   r.LLMUsed,
		CreatedAt: r.CreatedAt,
	}
	if r.FeedbackRating.Valid {
		h.FeedbackRating = null.IntFrom(int(r.FeedbackRating.Int64))
	}
	return h
}

type careerRepository struct {
	db *sqlx.DB
}

var _ career.Repository = (*careerRepository)(nil) // interface compliance check

func NewCareerRepository(db *sqlx.DB) career.Repository {
	return &careerRepository{db: db}
}

func (repo *careerRepository) QueryActiveQuestions(ctx context.Context) ([]career.Question, error) {
	var rows []questionRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM career_questions WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}

	questions := make([]career.Question, 0, len(rows))
	for _, row := range rows {
		q := row.toQuestion()
		if q.Options, err = repo.queryOptions(ctx, q.ID); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (repo *careerRepository) queryOptions(ctx context.Context, questionID int) ([]career.Option, error) {
	options := make([]career.Option, 0)
	err := repo.db.SelectContext(ctx, &options, `
SELECT id, question_id, text, value FROM career_question_options WHERE question_id = $1 ORDER BY id`, questionID)
	if err != nil {
		return nil, errors.Wrap(err, "querying question options")
	}
	return options, nil
}

func (repo *careerRepository) GetQuestionByID(ctx context.Context, id int) (career.Question, error) {
	var row questionRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM career_questions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return career.Question{}, career.ErrQuestionNotFound
	}
	if err != nil {
		return career.Question{}, errors.Wrap(err, "getting question")
	}
	q := row.toQuestion()
	if q.Options, err = repo.queryOptions(ctx, q.ID); err != nil {
		return career.Question{}, err
	}
	return q, nil
}

func (repo *careerRepository) CreateQuestion(ctx context.Context, q career.Question) (career.Question, error) {
	const insertQuestion = `
INSERT INTO career_questions (text, category, parent_question_id, required_answer, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	var parentID, required interface{}
	if q.ParentQuestionID.Valid {
		parentID = q.ParentQuestionID.Int
	}
	if q.RequiredAnswer.Valid {
		required = q.RequiredAnswer.Int
	}
	err := repo.db.QueryRowContext(ctx, insertQuestion, q.Text, q.Category, parentID, required, q.IsActive).Scan(&q.ID)
	if err != nil {
		return career.Question{}, errors.Wrap(err, "inserting question")
	}

	const insertOption = `
INSERT INTO career_question_options (question_id, text, value)
VALUES ($1, $2, $3)
RETURNING id`
	for i, opt := range q.Options {
		opt.QuestionID = q.ID
		if err = repo.db.QueryRowContext(ctx, insertOption, opt.QuestionID, opt.Text, opt.Value).Scan(&opt.ID); err != nil {
			return career.Question{}, errors.Wrap(err, "inserting question option")
		}
		q.Options[i] = opt
	}
	return q, nil
}

func (repo *careerRepository) CreateAnswer(ctx context.Context, a career.Answer) (career.Answer, error) {
	const q = `
INSERT INTO career_answers (student_id, question_id, score)
VALUES ($1, $2, $3)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, q, a.StudentID, a.QuestionID, a.Score).Scan(&a.ID)
	if err != nil {
		return career.Answer{}, errors.Wrap(err, "inserting answer")
	}
	return a, nil
}

func (repo *careerRepository) QueryStudentAnswers(ctx context.Context, studentID int) ([]career.Answer, error) {
	answers := make([]career.Answer, 0)
	err := repo.db.SelectContext(ctx, &answers, `
SELECT id, student_id, question_id, score FROM career_answers WHERE student_id = $1 ORDER BY id`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying answers")
	}
	return answers, nil
}

func (repo *careerRepository) DeleteStudentAnswers(ctx context.Context, studentID int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM career_answers WHERE student_id = $1`, studentID)
	return errors.Wrap(err, "deleting answers")
}

func (repo *careerRepository) QueryActiveCareers(ctx context.Context, limit int) ([]career.Career, error) {
	q := `SELECT * FROM careers WHERE is_active ORDER BY id`
	args := make([]interface{}, 0, 1)
	if limit > 0 {
		args = append(args, limit)
		q += ` LIMIT $1`
	}

	careers := make([]career.Career, 0)
	if err := repo.db.SelectContext(ctx, &careers, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying careers")
	}
	return careers, nil
}

func (repo *careerRepository) CreateCareer(ctx context.Context, c career.Career) (career.Career, error) {
	const q = `
INSERT INTO careers (name, description, category, is_active)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, q, c.Name, c.Description, c.Category, c.IsActive).Scan(&c.ID)
	if err != nil {
		return career.Career{}, errors.Wrap(err, "inserting career")
	}
	return c, nil
}

func (repo *careerRepository) CreateHistory(ctx context.Context, h career.History) (career.History, error) {
	const q = `
INSERT INTO recommendation_history (student_id, careers, skills_recommended, courses_suggested, llm_used, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := repo.db.QueryRowContext(
		ctx, q, h.StudentID, pq.StringArray(h.Careers), pq.StringArray(h.Skills), pq.StringArray(h.Courses), h.LLMUsed, h.CreatedAt,
	).Scan(&h.ID)
	if err != nil {
		return career.History{}, errors.Wrap(err, "inserting recommendation history")
	}
	return h, nil
}

func (repo *careerRepository) GetHistoryByID(ctx context.Context, id int) (career.History, error) {
	var row historyRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM recommendation_history WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return career.History{}, career.ErrHistoryNotFound
	}
	if err != nil {
		return career.History{}, errors.Wrap(err, "getting recommendation history")
	}
	return row.toHistory(), nil
}

func (repo *careerRepository) QueryStudentHistory(ctx context.Context, studentID, n int) ([]career.History, error) {
	q := `SELECT * FROM recommendation_history WHERE student_id = $1 ORDER BY created_at DESC, id DESC`
	args := []interface{}{studentID}
	if n > 0 {
		args = append(args, n)
		q += ` LIMIT $2`
	}

	var rows []historyRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying recommendation history")
	}
	history := make([]career.History, 0, len(rows))
	for _, row := range rows {
		history = append(history, row.toHistory())
	}
	return history, nil
}

func (repo *careerRepository) UpdateHistory(ctx context.Context, h career.History) error {
	var rating interface{}
	if h.FeedbackRating.Valid {
		rating = h.FeedbackRating.Int
	}
	res, err := repo.db.ExecContext(ctx, `UPDATE recommendation_history SET feedback_rating = $1 WHERE id = $2`, rating, h.ID)
	if err != nil {
		return errors.Wrap(err, "updating recommendation history")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return career.ErrHistoryNotFound
	}
	return nil
}
