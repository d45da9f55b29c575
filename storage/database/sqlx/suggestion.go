package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core/suggestion"
)

type suggestionRow struct {
	ID                int             `db:"id"`
	StudentID         int             `db:"student_id"`
	TeacherID         sql.NullInt64   `db:"teacher_id"`
	CourseName        string          `db:"course_name"`
	CourseDescription string          `db:"course_description"`
	Reason            string          `db:"reason"`
	Priority          string          `db:"priority"`
	SubjectArea       string          `db:"subject_area"`
	TargetImprovement string          `db:"target_improvement"`
	BasedOnGrade      sql.NullFloat64 `db:"based_on_grade"`
	BasedOnAttendance sql.NullFloat64 `db:"based_on_attendance"`
	IsAccepted        sql.NullBool    `db:"is_accepted"`
	StudentFeedback   string          `db:"student_feedback"`
	CreatedAt         time.Time       `db:"created_at"`
}

func (r suggestionRow) toSuggestion() suggestion.CourseSuggestion {
	s := suggestion.CourseSuggestion{
		ID:                r.ID,
		StudentID:         r.StudentID,
		CourseName:        r.CourseName,
		CourseDescription: r.CourseDescription,
		Reason:            r.Reason,
		Priority:          r.Priority,
		SubjectArea:       r.SubjectArea,
		TargetImprovement: r.TargetImprovement,
		StudentFeedback:   r.StudentFeedback,
		CreatedAt:         r.CreatedAt,
	}
	if r.TeacherID.Valid {
		s.TeacherID = null.IntFrom(int(r.TeacherID.Int64))
	}
	if r.BasedOnGrade.Valid {
		s.BasedOnGrade = null.Float64From(r.BasedOnGrade.Float64)
	}
	if r.BasedOnAttendance.Valid {
		s.BasedOnAttendance = null.Float64From(r.BasedOnAttendance.Float64)
	}
	if r.IsAccepted.Valid {
		s.IsAccepted = null.BoolFrom(r.IsAccepted.Bool)
	}
	return s
}

type suggestionRepository struct {
	db *sqlx.DB
}

var _ suggestion.Repository = (*suggestionRepository)(nil) // interface compliance check

func NewSuggestionRepository(db *sqlx.DB) suggestion.Repository {
	return &suggestionRepository{db: db}
}

func (repo *suggestionRepository) CreateSuggestion(ctx context.Context, s suggestion.CourseSuggestion) (suggestion.CourseSuggestion, error) {
	const q = `
INSERT INTO course_suggestions
    (student_id, teacher_id, course_name, course_description, reason, priority, subject_area,
     target_improvement, based_on_grade, based_on_attendance, is_accepted, student_feedback, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`
	var teacherID, grade, attendance, accepted interface{}
	if s.TeacherID.Valid {
		teacherID = s.TeacherID.Int
	}
	if s.BasedOnGrade.Valid {
		grade = s.BasedOnGrade.Float64
	}
	if s.BasedOnAttendance.Valid {
		attendance = s.BasedOnAttendance.Float64
	}
	if s.IsAccepted.Valid {
		accepted = s.IsAccepted.Bool
	}
	err := repo.db.QueryRowContext(
		ctx, q, s.StudentID, teacherID, s.CourseName, s.CourseDescription, s.Reason, s.Priority, s.SubjectArea,
		s.TargetImprovement, grade, attendance, accepted, s.StudentFeedback, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return suggestion.CourseSuggestion{}, errors.Wrap(err, "inserting course suggestion")
	}
	return s, nil
}

func (repo *suggestionRepository) GetSuggestionByID(ctx context.Context, id int) (suggestion.CourseSuggestion, error) {
	var row suggestionRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM course_suggestions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return suggestion.CourseSuggestion{}, suggestion.ErrSuggestionNotFound
	}
	if err != nil {
		return suggestion.CourseSuggestion{}, errors.Wrap(err, "getting course suggestion")
	}
	return row.toSuggestion(), nil
}

func (repo *suggestionRepository) QueryStudentSuggestions(ctx context.Context, studentID int) ([]suggestion.CourseSuggestion, error) {
	var rows []suggestionRow
	err := repo.db.SelectContext(ctx, &rows, `
SELECT * FROM course_suggestions WHERE student_id = $1 ORDER BY created_at DESC, id DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying course suggestions")
	}
	return toSuggestions(rows), nil
}

func (repo *suggestionRepository) QueryRecentStudentSuggestions(ctx context.Context, studentID int, since time.Time) ([]suggestion.CourseSuggestion, error) {
	var rows []suggestionRow
	err := repo.db.SelectContext(ctx, &rows, `
SELECT * FROM course_suggestions WHERE student_id = $1 AND created_at >= $2 ORDER BY created_at DESC, id DESC`, studentID, since)
	if err != nil {
		return nil, errors.Wrap(err, "querying course suggestions")
	}
	return toSuggestions(rows), nil
}

func (repo *suggestionRepository) UpdateSuggestion(ctx context.Context, s suggestion.CourseSuggestion) error {
	var accepted interface{}
	if s.IsAccepted.Valid {
		accepted = s.IsAccepted.Bool
	}
	res, err := repo.db.ExecContext(ctx, `
UPDATE course_suggestions SET is_accepted = $1, student_feedback = $2 WHERE id = $3`, accepted, s.StudentFeedback, s.ID)
	if err != nil {
		return errors.Wrap(err, "updating course suggestion")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return suggestion.ErrSuggestionNotFound
	}
	return nil
}

func (repo *suggestionRepository) QueryPendingSuggestions(ctx context.Context, after, before time.Time) ([]suggestion.CourseSuggestion, error) {
	var rows []suggestionRow
	err := repo.db.SelectContext(ctx, &rows, `
SELECT * FROM course_suggestions
WHERE is_accepted IS NULL AND created_at >= $1 AND created_at < $2
ORDER BY created_at DESC, id DESC`, after, before)
	if err != nil {
		return nil, errors.Wrap(err, "querying course suggestions")
	}
	return toSuggestions(rows), nil
}

func toSuggestions(rows []suggestionRow) []suggestion.CourseSuggestion {
	suggestions := make([]suggestion.CourseSuggestion, 0, len(rows))
	for _, row := range rows {
		suggestions = append(suggestions, row.toSuggestion())
	}
	return suggestions
}
