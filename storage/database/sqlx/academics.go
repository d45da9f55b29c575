package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core/academics"
)

type examScheduleRow struct {
	ID           int           `db:"id"`
	Subject      string        `db:"subject"`
	ExamType     string        `db:"exam_type"`
	ExamDate     time.Time     `db:"exam_date"`
	Description  string        `db:"description"`
	TeacherID    int           `db:"teacher_id"`
	StudentIDs   pq.Int64Array `db:"student_ids"`
	ReminderSent bool          `db:"reminder_sent"`
	CreatedAt    time.Time     `db:"created_at"`
}

func (r examScheduleRow) toExamSchedule() academics.ExamSchedule {
	studentIDs := make([]int, 0, len(r.StudentIDs))
	for _, id := range r.StudentIDs {
		studentIDs = append(studentIDs, int(id))
	}
	return academics.ExamSchedule{
		ID:           r.ID,
		Subject:      r.Subject,
		ExamType:     r.ExamType,
		ExamDate:     r.ExamDate,
		Description:  r.Description,
		TeacherID:    r.TeacherID,
		StudentIDs:   studentIDs,
		ReminderSent: r.ReminderSent,
		CreatedAt:    r.CreatedAt,
	}
}

type teacherRow struct {
	ID        int           `db:"id"`
	UserID    sql.NullInt64 `db:"user_id"`
	FirstName string        `db:"first_name"`
	LastName  string        `db:"last_name"`
	Email     string        `db:"email"`
	Subject   string        `db:"subject"`
}

func (r teacherRow) toTeacher() academics.Teacher {
	t := academics.Teacher{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Subject:   r.Subject,
	}
	if r.UserID.Valid {
		t.UserID = null.IntFrom(int(r.UserID.Int64))
	}
	return t
}

type academicsRepository struct {
	db *sqlx.DB
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *sqlx.DB) academics.Repository {
	return &academicsRepository{db: db}
}

func (repo *academicsRepository) CreateStudent(ctx context.Context, s academics.Student) (academics.Student, error) {
	const q = `
INSERT INTO students (user_id, first_name, last_name, email, date_of_birth, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	err := repo.db.QueryRowContext(
		ctx, q, s.UserID, s.FirstName, s.LastName, s.Email, s.DateOfBirth, s.IsActive, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return academics.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo *academicsRepository) GetStudentByID(ctx context.Context, id int) (academics.Student, error) {
	var s academics.Student
	err := repo.db.GetContext(ctx, &s, `
SELECT id, user_id, first_name, last_name, email, date_of_birth, is_active, created_at
FROM students WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return academics.Student{}, academics.ErrStudentNotFound
	}
	if err != nil {
		return academics.Student{}, errors.Wrap(err, "getting student")
	}
	return s, nil
}

func (repo *academicsRepository) GetStudentByUserID(ctx context.Context, userID int) (academics.Student, error) {
	var s academics.Student
	err := repo.db.GetContext(ctx, &s, `
SELECT id, user_id, first_name, last_name, email, date_of_birth, is_active, created_at
FROM students WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return academics.Student{}, academics.ErrStudentNotFound
	}
	if err != nil {
		return academics.Student{}, errors.Wrap(err, "getting student")
	}
	return s, nil
}

func (repo *academicsRepository) QueryActiveStudents(ctx context.Context) ([]academics.Student, error) {
	students := make([]academics.Student, 0)
	err := repo.db.SelectContext(ctx, &students, `
SELECT id, user_id, first_name, last_name, email, date_of_birth, is_active, created_at
FROM students WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *academicsRepository) CreateTeacher(ctx context.Context, t academics.Teacher) (academics.Teacher, error) {
	const q = `
INSERT INTO teachers (user_id, first_name, last_name, email, subject)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	var userID interface{}
	if t.UserID.Valid {
		userID = t.UserID.Int
	}
	err := repo.db.QueryRowContext(ctx, q, userID, t.FirstName, t.LastName, t.Email, t.Subject).Scan(&t.ID)
	if err != nil {
		return academics.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return t, nil
}

func (repo *academicsRepository) GetTeacherByID(ctx context.Context, id int) (academics.Teacher, error) {
	var row teacherRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM teachers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return academics.Teacher{}, academics.ErrTeacherNotFound
	}
	if err != nil {
		return academics.Teacher{}, errors.Wrap(err, "getting teacher")
	}
	return row.toTeacher(), nil
}

func (repo *academicsRepository) GetTeacherByUserID(ctx context.Context, userID int) (academics.Teacher, error) {
	var row teacherRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM teachers WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return academics.Teacher{}, academics.ErrTeacherNotFound
	}
	if err != nil {
		return academics.Teacher{}, errors.Wrap(err, "getting teacher")
	}
	return row.toTeacher(), nil
}

func (repo *academicsRepository) CreateAttendance(ctx context.Context, a academics.Attendance) (academics.Attendance, error) {
	const q = `
INSERT INTO attendance (student_id, teacher_id, date, status)
VALUES ($1, $2, $3, $4)
ON CONFLICT (student_id, date) DO UPDATE SET status = EXCLUDED.status, teacher_id = EXCLUDED.teacher_id
RETURNING id`
	err := repo.db.QueryRowContext(ctx, q, a.StudentID, a.TeacherID, a.Date, a.Status).Scan(&a.ID)
	if err != nil {
		return academics.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return a, nil
}

func (repo *academicsRepository) QueryStudentAttendance(ctx context.Context, studentID int, from, to time.Time) ([]academics.Attendance, error) {
	q := `SELECT id, student_id, teacher_id, date, status FROM attendance WHERE student_id = $1`
	args := []interface{}{studentID}
	if !from.IsZero() {
		args = append(args, from)
		q += ` AND date >= $2`
	}
	if !to.IsZero() {
		args = append(args, to)
		q += ` AND date < $` + itoa(len(args))
	}
	q += ` ORDER BY date`

	entries := make([]academics.Attendance, 0)
	if err := repo.db.SelectContext(ctx, &entries, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return entries, nil
}

func (repo *academicsRepository) CreateWeeklyTest(ctx context.Context, t academics.WeeklyTest) (academics.WeeklyTest, error) {
	const q = `
INSERT INTO weekly_tests (student_id, teacher_id, test_date, score)
VALUES ($1, $2, $3, $4)
RETURNING id`
	var teacherID interface{}
	if t.TeacherID.Valid {
		teacherID = t.TeacherID.Int
	}
	err := repo.db.QueryRowContext(ctx, q, t.StudentID, teacherID, t.TestDate, t.Score).Scan(&t.ID)
	if err != nil {
		return academics.WeeklyTest{}, errors.Wrap(err, "inserting weekly test")
	}
	return t, nil
}

func (repo *academicsRepository) QueryStudentTests(ctx context.Context, studentID int) ([]academics.WeeklyTest, error) {
	tests := make([]academics.WeeklyTest, 0)
	err := repo.db.SelectContext(ctx, &tests, `
SELECT id, student_id, teacher_id, test_date, score
FROM weekly_tests WHERE student_id = $1 ORDER BY test_date`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying weekly tests")
	}
	return tests, nil
}

func (repo *academicsRepository) QueryRecentStudentTests(ctx context.Context, studentID, n int) ([]academics.WeeklyTest, error) {
	tests := make([]academics.WeeklyTest, 0, n)
	err := repo.db.SelectContext(ctx, &tests, `
SELECT id, student_id, teacher_id, test_date, score
FROM weekly_tests WHERE student_id = $1 ORDER BY test_date DESC LIMIT $2`, studentID, n)
	if err != nil {
		return nil, errors.Wrap(err, "querying weekly tests")
	}
	return tests, nil
}

func (repo *academicsRepository) CreateGrade(ctx context.Context, g academics.Grade) (academics.Grade, error) {
	const q = `
INSERT INTO grades (student_id, teacher_id, subject, grade_type, score, max_score, percentage, date, comments)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`
	err := repo.db.QueryRowContext(
		ctx, q, g.StudentID, g.TeacherID, g.Subject, g.GradeType, g.Score, g.MaxScore, g.Percentage, g.Date, g.Comments,
	).Scan(&g.ID)
	if err != nil {
		return academics.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return g, nil
}

func (repo *academicsRepository) QueryStudentGrades(ctx context.Context, studentID int) ([]academics.Grade, error) {
	grades := make([]academics.Grade, 0)
	err := repo.db.SelectContext(ctx, &grades, `
SELECT id, student_id, teacher_id, subject, grade_type, score, max_score, percentage, date, comments
FROM grades WHERE student_id = $1 ORDER BY date`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	return grades, nil
}

func (repo *academicsRepository) QueryStudentGradesBetween(ctx context.Context, studentID int, from, to time.Time) ([]academics.Grade, error) {
	grades := make([]academics.Grade, 0)
	err := repo.db.SelectContext(ctx, &grades, `
SELECT id, student_id, teacher_id, subject, grade_type, score, max_score, percentage, date, comments
FROM grades WHERE student_id = $1 AND date >= $2 AND date < $3 ORDER BY date DESC`, studentID, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	return grades, nil
}

func (repo *academicsRepository) CreateExamSchedule(ctx context.Context, e academics.ExamSchedule) (academics.ExamSchedule, error) {
	const q = `
INSERT INTO exam_schedules (subject, exam_type, exam_date, description, teacher_id, student_ids, reminder_sent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	studentIDs := make(pq.Int64Array, 0, len(e.StudentIDs))
	for _, id := range e.StudentIDs {
		studentIDs = append(studentIDs, int64(id))
	}
	err := repo.db.QueryRowContext(
		ctx, q, e.Subject, e.ExamType, e.ExamDate, e.Description, e.TeacherID, studentIDs, e.ReminderSent, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return academics.ExamSchedule{}, errors.Wrap(err, "inserting exam schedule")
	}
	return e, nil
}

func (repo *academicsRepository) QueryUpcomingExamsForStudent(ctx context.Context, studentID int, after time.Time) ([]academics.ExamSchedule, error) {
	var rows []examScheduleRow
	err := repo.db.SelectContext(ctx, &rows, `
SELECT * FROM exam_schedules WHERE exam_date > $1 AND student_ids @> ARRAY[$2]::INT[] ORDER BY exam_date`, after, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying exam schedules")
	}
	return toExamSchedules(rows), nil
}

func (repo *academicsRepository) QueryExamsByTeacher(ctx context.Context, teacherID int, after time.Time) ([]academics.ExamSchedule, error) {
	var rows []examScheduleRow
	err := repo.db.SelectContext(ctx, &rows, `
SELECT * FROM exam_schedules WHERE exam_date > $1 AND teacher_id = $2 ORDER BY exam_date`, after, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "querying exam schedules")
	}
	return toExamSchedules(rows), nil
}

func (repo *academicsRepository) QueryExamsDueReminder(ctx context.Context, now, until time.Time) ([]academics.ExamSchedule, error) {
	var rows []examScheduleRow
	err := repo.db.SelectContext(ctx, &rows, `
SELECT * FROM exam_schedules
WHERE exam_date > $1 AND exam_date <= $2 AND NOT reminder_sent ORDER BY exam_date`, now, until)
	if err != nil {
		return nil, errors.Wrap(err, "querying exam schedules")
	}
	return toExamSchedules(rows), nil
}

func (repo *academicsRepository) MarkExamReminderSent(ctx context.Context, examID int) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE exam_schedules SET reminder_sent = TRUE WHERE id = $1`, examID)
	if err != nil {
		return errors.Wrap(err, "updating exam schedule")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return academics.ErrExamNotFound
	}
	return nil
}

func toExamSchedules(rows []examScheduleRow) []academics.ExamSchedule {
	exams := make([]academics.ExamSchedule, 0, len(rows))
	for _, row := range rows {
		exams = append(exams, row.toExamSchedule())
	}
	return exams
}
