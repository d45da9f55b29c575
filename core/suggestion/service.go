package suggestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core"
	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/notification"
)

var ErrSuggestionNotFound = errors.New("course suggestion not found")

// dedupWindow is how far back the evaluation policy looks when deciding a
// suggestion was already issued.
const dedupWindow = 7 * 24 * time.Hour

type (
	Repository interface {
		CreateSuggestion(ctx context.Context, s CourseSuggestion) (CourseSuggestion, error)
		GetSuggestionByID(ctx context.Context, id int) (CourseSuggestion, error)
		// QueryStudentSuggestions returns all of a student's suggestions,
		// most recent first.
		QueryStudentSuggestions(ctx context.Context, studentID int) ([]CourseSuggestion, error)
		// QueryRecentStudentSuggestions returns suggestions created at or
		// after since.
		QueryRecentStudentSuggestions(ctx context.Context, studentID int, since time.Time) ([]CourseSuggestion, error)
		UpdateSuggestion(ctx context.Context, s CourseSuggestion) error
		// QueryPendingSuggestions returns unanswered suggestions created
		// within [after, before).
		QueryPendingSuggestions(ctx context.Context, after, before time.Time) ([]CourseSuggestion, error)
	}

	// Summary groups a student's suggestions by priority.
	Summary struct {
		Critical []CourseSuggestion `json:"critical"`
		High     []CourseSuggestion `json:"high"`
		Medium   []CourseSuggestion `json:"medium"`
		Low      []CourseSuggestion `json:"low"`
		Total    int                `json:"total"`
		Accepted int                `json:"accepted"`
	}

	Service struct {
		repo      Repository
		academics *academics.Service
		notifier  *notification.Service
		logger    core.Logger
	}
)

func NewService(repo Repository, academicsSvc *academics.Service, notifier *notification.Service, logger core.Logger) *Service {
	return &Service{
		repo:      repo,
		academics: academicsSvc,
		notifier:  notifier,
		logger:    logger,
	}
}

// EvaluateStudent runs the remedial-course policy against current metrics,
// persists whatever fires and raises the attached alerts. It returns the
// created suggestions.
func (svc *Service) EvaluateStudent(ctx context.Context, studentID int) ([]CourseSuggestion, error) {
	student, err := svc.academics.StudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	metrics, err := svc.academics.MetricsFor(ctx, studentID)
	if err != nil {
		return nil, err
	}
	existing, err := svc.repo.QueryRecentStudentSuggestions(ctx, studentID, time.Now().UTC().Add(-dedupWindow))
	if err != nil {
		return nil, err
	}

	var created []CourseSuggestion
	for _, outcome := range Evaluate(metrics, existing) {
		s := outcome.Suggestion
		s.StudentID = studentID
		s.CreatedAt = time.Now().UTC()
		s, err = svc.repo.CreateSuggestion(ctx, s)
		if err != nil {
			return created, err
		}
		created = append(created, s)

		if outcome.Notice == nil {
			continue
		}
		if _, err := svc.notifier.Notify(ctx, notification.NewNotification{
			StudentID: null.IntFrom(studentID),
			Email:     student.Email,
			Title:     outcome.Notice.Title,
			Message:   outcome.Notice.Message,
			Type:      notification.TypeCareer,
			Priority:  notification.PriorityHigh,
		}); err != nil {
			return created, err
		}
	}
	return created, nil
}

// Respond records the student's accept or decline decision along with
// optional feedback. Accepting a teacher-created suggestion notifies the
// teacher.
func (svc *Service) Respond(ctx context.Context, studentID, suggestionID int, accept bool, feedback string) error {
	s, err := svc.repo.GetSuggestionByID(ctx, suggestionID)
	if err != nil {
		return err
	}
	if s.StudentID != studentID {
		return ErrSuggestionNotFound
	}

	s.IsAccepted = null.BoolFrom(accept)
	s.StudentFeedback = feedback
	if err := svc.repo.UpdateSuggestion(ctx, s); err != nil {
		return err
	}

	if accept && s.TeacherID.Valid {
		student, err := svc.academics.StudentByID(ctx, studentID)
		if err != nil {
			return err
		}
		if _, err := svc.notifier.Notify(ctx, notification.NewNotification{
			TeacherID: s.TeacherID,
			Title:     "Course Suggestion Accepted",
			Message:   fmt.Sprintf("%s has accepted your suggestion: %s", student.FullName(), s.CourseName),
			Type:      notification.TypeCareer,
			Priority:  notification.PriorityLow,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ListForStudent returns the student's suggestions grouped by priority.
func (svc *Service) ListForStudent(ctx context.Context, studentID int) (Summary, error) {
	suggestions, err := svc.repo.QueryStudentSuggestions(ctx, studentID)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	sum.Total = len(suggestions)
	for _, s := range suggestions {
		switch s.Priority {
		case PriorityCritical:
			sum.Critical = append(sum.Critical, s)
		case PriorityHigh:
			sum.High = append(sum.High, s)
		case PriorityMedium:
			sum.Medium = append(sum.Medium, s)
		case PriorityLow:
			sum.Low = append(sum.Low, s)
		}
		if s.IsAccepted.Valid && s.IsAccepted.Bool {
			sum.Accepted++
		}
	}
	return sum, nil
}

// CreateByTeacher records a teacher-authored suggestion and tells the
// student about it.
func (svc *Service) CreateByTeacher(ctx context.Context, teacherID int, ns NewSuggestion) (CourseSuggestion, error) {
	student, err := svc.academics.StudentByID(ctx, ns.StudentID)
	if err != nil {
		return CourseSuggestion{}, err
	}

	s, err := svc.repo.CreateSuggestion(ctx, CourseSuggestion{
		StudentID:         ns.StudentID,
		TeacherID:         null.IntFrom(teacherID),
		CourseName:        ns.CourseName,
		CourseDescription: ns.CourseDescription,
		Reason:            ns.Reason,
		Priority:          ns.Priority,
		SubjectArea:       ns.SubjectArea,
		TargetImprovement: ns.TargetImprovement,
		CreatedAt:         time.Now().UTC(),
	})
	if err != nil {
		return CourseSuggestion{}, err
	}

	if _, err := svc.notifier.Notify(ctx, notification.NewNotification{
		StudentID: null.IntFrom(ns.StudentID),
		Email:     student.Email,
		Title:     "New Course Suggestion",
		Message:   fmt.Sprintf("Your teacher has suggested a course for you: %s", ns.CourseName),
		Type:      notification.TypeCareer,
		Priority:  notification.PriorityMedium,
	}); err != nil {
		return CourseSuggestion{}, err
	}
	return s, nil
}

// PendingReminders returns suggestions awaiting a response that are between
// three and seven days old, the window where a reminder is worth sending.
func (svc *Service) PendingReminders(ctx context.Context) ([]CourseSuggestion, error) {
	now := time.Now().UTC()
	return svc.repo.QueryPendingSuggestions(ctx, now.Add(-7*24*time.Hour), now.Add(-3*24*time.Hour))
}
