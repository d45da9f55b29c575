package notification

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/edusight/edusight/core"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		GetNotificationByID(ctx context.Context, id int) (Notification, error)
		// QueryStudentNotifications returns notifications most recent first.
		QueryStudentNotifications(ctx context.Context, studentID int) ([]Notification, error)
		QueryTeacherNotifications(ctx context.Context, teacherID int) ([]Notification, error)
		CountUnreadForStudent(ctx context.Context, studentID int) (int, error)
		MarkNotificationRead(ctx context.Context, id int) error
		MarkStudentNotificationsRead(ctx context.Context, studentID int) error
		MarkTeacherNotificationsRead(ctx context.Context, teacherID int) error
		// HasRecentStudentNotification reports whether a notification of the
		// given type was created for the student at or after `since`.
		HasRecentStudentNotification(ctx context.Context, studentID int, notifType string, since time.Time) (bool, error)
		// HasRecentStudentNotificationContaining additionally matches a
		// substring of the message (used to dedup per-artifact reminders).
		HasRecentStudentNotificationContaining(ctx context.Context, studentID int, substr string, since time.Time) (bool, error)
	}

	Service struct {
		repo   Repository
		mail   core.EmailService
		logger core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, mail: mailSvc, logger: logger}
}

// Notify creates an in-app notification and, for high-priority entries with
// a known address, also sends an email.
func (svc *Service) Notify(ctx context.Context, nn NewNotification) (Notification, error) {
	n, err := svc.repo.CreateNotification(ctx, Notification{
		StudentID: nn.StudentID,
		TeacherID: nn.TeacherID,
		Title:     nn.Title,
		Message:   nn.Message,
		Type:      nn.Type,
		Priority:  nn.Priority,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Notification{}, err
	}

	if nn.Priority == PriorityHigh && nn.Email != "" && svc.mail != nil {
		svc.mail.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Address: nn.Email}},
			Subject: nn.Title,
			BodyStr: nn.Message,
		})
	}
	return n, nil
}

// ListForStudent returns the student's notifications and marks them read,
// reporting how many were unread before the flip.
func (svc *Service) ListForStudent(ctx context.Context, studentID int) ([]Notification, int, error) {
	notifs, err := svc.repo.QueryStudentNotifications(ctx, studentID)
	if err != nil {
		return nil, 0, err
	}
	var unread int
	for _, n := range notifs {
		if !n.IsRead {
			unread++
		}
	}
	if unread > 0 {
		if err := svc.repo.MarkStudentNotificationsRead(ctx, studentID); err != nil {
			return nil, 0, err
		}
	}
	return notifs, unread, nil
}

func (svc *Service) ListForTeacher(ctx context.Context, teacherID int) ([]Notification, error) {
	notifs, err := svc.repo.QueryTeacherNotifications(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if err := svc.repo.MarkTeacherNotificationsRead(ctx, teacherID); err != nil {
		return nil, err
	}
	return notifs, nil
}

func (svc *Service) UnreadCountForStudent(ctx context.Context, studentID int) (int, error) {
	return svc.repo.CountUnreadForStudent(ctx, studentID)
}

// MarkRead flips a single notification, rejecting ids owned by someone else.
func (svc *Service) MarkRead(ctx context.Context, id int, studentID, teacherID int) error {
	n, err := svc.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return err
	}
	owned := (n.StudentID.Valid && n.StudentID.Int == studentID) ||
		(n.TeacherID.Valid && n.TeacherID.Int == teacherID)
	if !owned {
		return ErrNotFound
	}
	return svc.repo.MarkNotificationRead(ctx, id)
}

func (svc *Service) HasRecent(ctx context.Context, studentID int, notifType string, since time.Time) (bool, error) {
	return svc.repo.HasRecentStudentNotification(ctx, studentID, notifType, since)
}

func (svc *Service) HasRecentContaining(ctx context.Context, studentID int, substr string, since time.Time) (bool, error) {
	return svc.repo.HasRecentStudentNotificationContaining(ctx, studentID, substr, since)
}
