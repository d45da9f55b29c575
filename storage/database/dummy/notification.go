package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/edusight/edusight/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	n.ID = repo.db.pk
	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *notificationRepository) GetNotificationByID(ctx context.Context, id int) (notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return *n, nil
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) QueryStudentNotifications(ctx context.Context, studentID int) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []notification.Notification
	for _, n := range repo.db.table {
		if n.StudentID.Valid && n.StudentID.Int == studentID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (repo *notificationRepository) QueryTeacherNotifications(ctx context.Context, teacherID int) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []notification.Notification
	for _, n := range repo.db.table {
		if n.TeacherID.Valid && n.TeacherID.Int == teacherID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (repo *notificationRepository) CountUnreadForStudent(ctx context.Context, studentID int) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, n := range repo.db.table {
		if n.StudentID.Valid && n.StudentID.Int == studentID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (repo *notificationRepository) MarkNotificationRead(ctx context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	n, ok := repo.db.table[id]
	if !ok {
		return notification.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (repo *notificationRepository) MarkStudentNotificationsRead(ctx context.Context, studentID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, n := range repo.db.table {
		if n.StudentID.Valid && n.StudentID.Int == studentID {
			n.IsRead = true
		}
	}
	return nil
}

func (repo *notificationRepository) MarkTeacherNotificationsRead(ctx context.Context, teacherID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, n := range repo.db.table {
		if n.TeacherID.Valid && n.TeacherID.Int == teacherID {
			n.IsRead = true
		}
	}
	return nil
}

func (repo *notificationRepository) HasRecentStudentNotification(ctx context.Context, studentID int, notifType string, since time.Time) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, n := range repo.db.table {
		if n.StudentID.Valid && n.StudentID.Int == studentID && n.Type == notifType && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (repo *notificationRepository) HasRecentStudentNotificationContaining(ctx context.Context, studentID int, substr string, since time.Time) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, n := range repo.db.table {
		if n.StudentID.Valid && n.StudentID.Int == studentID &&
			strings.Contains(n.Message, substr) && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}
