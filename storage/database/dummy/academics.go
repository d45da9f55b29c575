package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/edusight/edusight/core/academics"
)

type academicsRepository struct {
	db *academicsTables
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *DB) academics.Repository {
	return &academicsRepository{db: db.academics}
}

func (repo *academicsRepository) CreateStudent(ctx context.Context, s academics.Student) (academics.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.studentPK++
	s.ID = repo.db.studentPK
	repo.db.students[s.ID] = &s
	return s, nil
}

func (repo *academicsRepository) GetStudentByID(ctx context.Context, id int) (academics.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return *s, nil
	}
	return academics.Student{}, academics.ErrStudentNotFound
}

func (repo *academicsRepository) GetStudentByUserID(ctx context.Context, userID int) (academics.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.students {
		if s.UserID == userID {
			return *s, nil
		}
	}
	return academics.Student{}, academics.ErrStudentNotFound
}

func (repo *academicsRepository) QueryActiveStudents(ctx context.Context) ([]academics.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]academics.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		if s.IsActive {
			students = append(students, *s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *academicsRepository) CreateTeacher(ctx context.Context, t academics.Teacher) (academics.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.teacherPK++
	t.ID = repo.db.teacherPK
	repo.db.teachers[t.ID] = &t
	return t, nil
}

func (repo *academicsRepository) GetTeacherByID(ctx context.Context, id int) (academics.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.teachers[id]; ok {
		return *t, nil
	}
	return academics.Teacher{}, academics.ErrTeacherNotFound
}

func (repo *academicsRepository) GetTeacherByUserID(ctx context.Context, userID int) (academics.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.teachers {
		if t.UserID.Valid && t.UserID.Int == userID {
			return *t, nil
		}
	}
	return academics.Teacher{}, academics.ErrTeacherNotFound
}

func (repo *academicsRepository) CreateAttendance(ctx context.Context, a academics.Attendance) (academics.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// one row per student per day
	for _, existing := range repo.db.attendance {
		if existing.StudentID == a.StudentID && sameDay(existing.Date, a.Date) {
			existing.Status = a.Status
			existing.TeacherID = a.TeacherID
			return *existing, nil
		}
	}

	repo.db.attendancePK++
	a.ID = repo.db.attendancePK
	repo.db.attendance[a.ID] = &a
	return a, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (repo *academicsRepository) QueryStudentAttendance(ctx context.Context, studentID int, from, to time.Time) ([]academics.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []academics.Attendance
	for _, a := range repo.db.attendance {
		if a.StudentID != studentID {
			continue
		}
		if !from.IsZero() && a.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !a.Date.Before(to) {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (repo *academicsRepository) CreateWeeklyTest(ctx context.Context, t academics.WeeklyTest) (academics.WeeklyTest, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.testPK++
	t.ID = repo.db.testPK
	repo.db.tests[t.ID] = &t
	return t, nil
}

func (repo *academicsRepository) QueryStudentTests(ctx context.Context, studentID int) ([]academics.WeeklyTest, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []academics.WeeklyTest
	for _, t := range repo.db.tests {
		if t.StudentID == studentID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestDate.Before(out[j].TestDate) })
	return out, nil
}

func (repo *academicsRepository) QueryRecentStudentTests(ctx context.Context, studentID, n int) ([]academics.WeeklyTest, error) {
	tests, err := repo.QueryStudentTests(ctx, studentID)
	if err != nil {
		return nil, err
	}
	// most recent first
	sort.Slice(tests, func(i, j int) bool { return tests[i].TestDate.After(tests[j].TestDate) })
	if n > 0 && len(tests) > n {
		tests = tests[:n]
	}
	return tests, nil
}

func (repo *academicsRepository) CreateGrade(ctx context.Context, g academics.Grade) (academics.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.gradePK++
	g.ID = repo.db.gradePK
	repo.db.grades[g.ID] = &g
	return g, nil
}

func (repo *academicsRepository) QueryStudentGrades(ctx context.Context, studentID int) ([]academics.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []academics.Grade
	for _, g := range repo.db.grades {
		if g.StudentID == studentID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (repo *academicsRepository) QueryStudentGradesBetween(ctx context.Context, studentID int, from, to time.Time) ([]academics.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []academics.Grade
	for _, g := range repo.db.grades {
		if g.StudentID != studentID {
			continue
		}
		if !from.IsZero() && g.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !g.Date.Before(to) {
			continue
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (repo *academicsRepository) CreateExamSchedule(ctx context.Context, e academics.ExamSchedule) (academics.ExamSchedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.examPK++
	e.ID = repo.db.examPK
	repo.db.exams[e.ID] = &e
	return e, nil
}

func (repo *academicsRepository) QueryUpcomingExamsForStudent(ctx context.Context, studentID int, after time.Time) ([]academics.ExamSchedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []academics.ExamSchedule
	for _, e := range repo.db.exams {
		if e.ExamDate.Before(after) {
			continue
		}
		for _, sid := range e.StudentIDs {
			if sid == studentID {
				out = append(out, *e)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExamDate.Before(out[j].ExamDate) })
	return out, nil
}

func (repo *academicsRepository) QueryExamsByTeacher(ctx context.Context, teacherID int, after time.Time) ([]academics.ExamSchedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []academics.ExamSchedule
	for _, e := range repo.db.exams {
		if e.TeacherID == teacherID && !e.ExamDate.Before(after) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExamDate.Before(out[j].ExamDate) })
	return out, nil
}

func (repo *academicsRepository) QueryExamsDueReminder(ctx context.Context, now, until time.Time) ([]academics.ExamSchedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []academics.ExamSchedule
	for _, e := range repo.db.exams {
		if e.ReminderSent {
			continue
		}
		if e.ExamDate.After(now) && !e.ExamDate.After(until) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExamDate.Before(out[j].ExamDate) })
	return out, nil
}

func (repo *academicsRepository) MarkExamReminderSent(ctx context.Context, examID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	e, ok := repo.db.exams[examID]
	if !ok {
		return academics.ErrExamNotFound
	}
	e.ReminderSent = true
	return nil
}
