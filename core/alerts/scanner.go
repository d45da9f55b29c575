// Package alerts runs the periodic scans that raise notifications without a
// user action: attendance drops, test and grade declines, exam reminders and
// pending course suggestion reminders.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/sync/errgroup"

	"github.com/edusight/edusight/core"
	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/notification"
	"github.com/edusight/edusight/core/suggestion"
)

// maxConcurrentScans bounds the per-student fan-out of one tick.
const maxConcurrentScans = 8

var examTypeLabels = map[string]string{
	academics.GradeQuiz:       "Quiz",
	academics.GradeMidterm:    "Midterm",
	academics.GradeFinal:      "Final",
	academics.GradeAssignment: "Assignment Due",
	academics.GradeProject:    "Project Due",
}

func examTypeLabel(t string) string {
	if label, ok := examTypeLabels[t]; ok {
		return label
	}
	return t
}

type Scanner struct {
	academics   *academics.Service
	suggestions *suggestion.Service
	notifier    *notification.Service
	logger      core.Logger
}

func NewScanner(academicsSvc *academics.Service, suggestionSvc *suggestion.Service, notifier *notification.Service, logger core.Logger) *Scanner {
	return &Scanner{
		academics:   academicsSvc,
		suggestions: suggestionSvc,
		notifier:    notifier,
		logger:      logger,
	}
}

// Run executes one full tick: per-student scans in parallel, then the global
// exam and suggestion reminder sweeps. tickID correlates the tick's log lines.
func (s *Scanner) Run(ctx context.Context, tickID string) error {
	students, err := s.academics.ActiveStudents(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("alerts: tick started", "tick", tickID, "students", len(students))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScans)
	for _, student := range students {
		student := student
		g.Go(func() error {
			if err := s.scanStudent(gctx, student); err != nil {
				s.logger.Error("alerts: student scan failed", "tick", tickID, "student", student.ID, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.sendExamReminders(ctx); err != nil {
		s.logger.Error("alerts: exam reminders failed", "tick", tickID, "error", err)
	}
	if err := s.sendSuggestionReminders(ctx); err != nil {
		s.logger.Error("alerts: suggestion reminders failed", "tick", tickID, "error", err)
	}

	s.logger.Info("alerts: tick finished", "tick", tickID)
	return nil
}

func (s *Scanner) scanStudent(ctx context.Context, student academics.Student) error {
	if err := s.checkAttendance(ctx, student); err != nil {
		return err
	}
	if err := s.checkTestDecline(ctx, student); err != nil {
		return err
	}
	if err := s.checkGradeDecline(ctx, student); err != nil {
		return err
	}
	_, err := s.suggestions.EvaluateStudent(ctx, student.ID)
	return err
}

// checkAttendance alerts on a 7-day attendance rate under 75%, with harsher
// wording under 50%. At most one attendance alert per student per week.
func (s *Scanner) checkAttendance(ctx context.Context, student academics.Student) error {
	now := time.Now().UTC()
	weekAgo := now.Add(-7 * 24 * time.Hour)

	records, err := s.academics.Repo().QueryStudentAttendance(ctx, student.ID, weekAgo, now)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	var present int
	for _, r := range records {
		if r.Status == academics.StatusPresent {
			present++
		}
	}
	rate := float64(present) / float64(len(records)) * 100
	if rate >= 75 {
		return nil
	}

	alerted, err := s.notifier.HasRecent(ctx, student.ID, notification.TypeAttendance, weekAgo)
	if err != nil || alerted {
		return err
	}

	title := "Low Attendance Alert"
	message := fmt.Sprintf("Your attendance this week is %.1f%%. Please aim for 75%% or higher.", rate)
	if rate < 50 {
		title = "Critical Attendance Alert"
		message = fmt.Sprintf("Your attendance is critically low at %.1f%%. Immediate improvement required.", rate)
	}
	_, err = s.notifier.Notify(ctx, notification.NewNotification{
		StudentID: null.IntFrom(student.ID),
		Email:     student.Email,
		Title:     title,
		Message:   message,
		Type:      notification.TypeAttendance,
		Priority:  notification.PriorityHigh,
	})
	return err
}

// checkTestDecline alerts when the last three weekly tests are strictly
// decreasing.
func (s *Scanner) checkTestDecline(ctx context.Context, student academics.Student) error {
	tests, err := s.academics.Repo().QueryRecentStudentTests(ctx, student.ID, 3)
	if err != nil {
		return err
	}
	if len(tests) < 3 {
		return nil
	}
	// tests are most recent first
	if !(tests[0].Score < tests[1].Score && tests[1].Score < tests[2].Score) {
		return nil
	}

	weekAgo := time.Now().UTC().Add(-7 * 24 * time.Hour)
	alerted, err := s.notifier.HasRecent(ctx, student.ID, notification.TypeTest, weekAgo)
	if err != nil || alerted {
		return err
	}

	_, err = s.notifier.Notify(ctx, notification.NewNotification{
		StudentID: null.IntFrom(student.ID),
		Email:     student.Email,
		Title:     "Test Scores Declining",
		Message: fmt.Sprintf("Your last three weekly tests went from %.1f to %.1f. Consider reviewing your study plan.",
			tests[2].Score, tests[0].Score),
		Type:     notification.TypeTest,
		Priority: notification.PriorityHigh,
	})
	return err
}

// checkGradeDecline compares the last 30 days of grades with the 30 days
// before that and alerts on a drop of 10 points or more.
func (s *Scanner) checkGradeDecline(ctx context.Context, student academics.Student) error {
	now := time.Now().UTC()
	monthAgo := now.Add(-30 * 24 * time.Hour)
	twoMonthsAgo := now.Add(-60 * 24 * time.Hour)

	repo := s.academics.Repo()
	recent, err := repo.QueryStudentGradesBetween(ctx, student.ID, monthAgo, now)
	if err != nil {
		return err
	}
	older, err := repo.QueryStudentGradesBetween(ctx, student.ID, twoMonthsAgo, monthAgo)
	if err != nil {
		return err
	}
	if len(recent) < 3 || len(older) < 3 {
		return nil
	}

	recentAvg := gradeAverage(recent)
	olderAvg := gradeAverage(older)
	if recentAvg >= olderAvg-10 {
		return nil
	}

	weekAgo := now.Add(-7 * 24 * time.Hour)
	alerted, err := s.notifier.HasRecent(ctx, student.ID, notification.TypePerformance, weekAgo)
	if err != nil || alerted {
		return err
	}

	_, err = s.notifier.Notify(ctx, notification.NewNotification{
		StudentID: null.IntFrom(student.ID),
		Email:     student.Email,
		Title:     "Performance Decline Detected",
		Message: fmt.Sprintf("Your recent average (%.1f%%) shows a decline from previous performance (%.1f%%). Consider reviewing improvement strategies.",
			recentAvg, olderAvg),
		Type:     notification.TypePerformance,
		Priority: notification.PriorityHigh,
	})
	return err
}

func gradeAverage(grades []academics.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g.Percentage
	}
	return sum / float64(len(grades))
}

// sendExamReminders notifies every rostered student of exams starting within
// the next 24 hours, then flips the reminder flag.
func (s *Scanner) sendExamReminders(ctx context.Context) error {
	now := time.Now().UTC()
	repo := s.academics.Repo()

	exams, err := repo.QueryExamsDueReminder(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		return err
	}
	for _, exam := range exams {
		for _, studentID := range exam.StudentIDs {
			student, err := s.academics.StudentByID(ctx, studentID)
			if err != nil {
				s.logger.Warn("alerts: exam reminder skipped", "exam", exam.ID, "student", studentID, "error", err)
				continue
			}
			if _, err := s.notifier.Notify(ctx, notification.NewNotification{
				StudentID: null.IntFrom(studentID),
				Email:     student.Email,
				Title:     fmt.Sprintf("Exam Tomorrow: %s", exam.Subject),
				Message: fmt.Sprintf("Reminder: %s %s is tomorrow at %s",
					exam.Subject, examTypeLabel(exam.ExamType), exam.ExamDate.Format("15:04")),
				Type:     notification.TypeTest,
				Priority: notification.PriorityHigh,
			}); err != nil {
				return err
			}
		}
		if err := repo.MarkExamReminderSent(ctx, exam.ID); err != nil {
			return err
		}
	}
	return nil
}

// sendSuggestionReminders nudges students about course suggestions that have
// sat unanswered for three to seven days, once per course name.
func (s *Scanner) sendSuggestionReminders(ctx context.Context) error {
	pending, err := s.suggestions.PendingReminders(ctx)
	if err != nil {
		return err
	}
	threeDaysAgo := time.Now().UTC().Add(-3 * 24 * time.Hour)
	for _, sg := range pending {
		reminded, err := s.notifier.HasRecentContaining(ctx, sg.StudentID, sg.CourseName, threeDaysAgo)
		if err != nil {
			return err
		}
		if reminded {
			continue
		}
		if _, err := s.notifier.Notify(ctx, notification.NewNotification{
			StudentID: null.IntFrom(sg.StudentID),
			Title:     "Pending Course Suggestion",
			Message:   fmt.Sprintf("Reminder: Please review the suggested course %q and provide your feedback.", sg.CourseName),
			Type:      notification.TypeCareer,
			Priority:  notification.PriorityMedium,
		}); err != nil {
			return err
		}
	}
	return nil
}
