package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core/notification"
)

type notificationRow struct {
	ID        int           `db:"id"`
	StudentID sql.NullInt64 `db:"student_id"`
	TeacherID sql.NullInt64 `db:"teacher_id"`
	Title     string        `db:"title"`
	Message   string        `db:"message"`
	Type      string        `db:"notification_type"`
	Priority  string        `db:"priority"`
	IsRead    bool          `db:"is_read"`
	CreatedAt time.Time     `db:"created_at"`
}

func (r notificationRow) toNotification() notification.Notification {
	n := notification.Notification{
		ID:        r.ID,
		Title:     r.Title,
		Message:   r.Message,
		Type:      r.Type,
		Priority:  r.Priority,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
	if r.StudentID.Valid {
		n.StudentID = null.IntFrom(int(r.StudentID.Int64))
	}
	if r.TeacherID.Valid {
		n.TeacherID = null.IntFrom(int(r.TeacherID.Int64))
	}
	return n
}

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	const q = `
INSERT INTO notifications (student_id, teacher_id, title, message, notification_type, priority, is_read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	var studentID, teacherID interface{}
	if n.StudentID.Valid {
		studentID = n.StudentID.Int
	}
	if n.TeacherID.Valid {
		teacherID = n.TeacherID.Int
	}
	err := repo.db.QueryRowContext(
		ctx, q, studentID, teacherID, n.Title, n.Message, n.Type, n.Priority, n.IsRead, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo *notificationRepository) GetNotificationByID(ctx context.Context, id int) (notification.Notification, error) {
	var row notificationRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM notifications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return notification.Notification{}, notification.ErrNotFound
	}
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "getting notification")
	}
	return row.toNotification(), nil
}

func (repo *notificationRepository) QueryStudentNotifications(ctx context.Context, studentID int) ([]notification.Notification, error) {
	var rows []notificationRow
	err := repo.db.SelectContext(ctx, &rows, `
SELECT * FROM notifications WHERE student_id = $1 ORDER BY created_at DESC, id DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	return toNotifications(rows), nil
}

func (repo *notificationRepository) QueryTeacherNotifications(ctx context.Context, teacherID int) ([]notification.Notification, error) {
	var rows []notificationRow
	err := repo.db.SelectContext(ctx, &rows, `
SELECT * FROM notifications WHERE teacher_id = $1 ORDER BY created_at DESC, id DESC`, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	return toNotifications(rows), nil
}

func (repo *notificationRepository) CountUnreadForStudent(ctx context.Context, studentID int) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `
SELECT COUNT(*) FROM notifications WHERE student_id = $1 AND NOT is_read`, studentID)
	if err != nil {
		return 0, errors.Wrap(err, "counting notifications")
	}
	return count, nil
}

func (repo *notificationRepository) MarkNotificationRead(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "updating notification")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (repo *notificationRepository) MarkStudentNotificationsRead(ctx context.Context, studentID int) error {
	_, err := repo.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE student_id = $1`, studentID)
	return errors.Wrap(err, "updating notifications")
}

func (repo *notificationRepository) MarkTeacherNotificationsRead(ctx context.Context, teacherID int) error {
	_, err := repo.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE teacher_id = $1`, teacherID)
	return errors.Wrap(err, "updating notifications")
}

func (repo *notificationRepository) HasRecentStudentNotification(ctx context.Context, studentID int, notifType string, since time.Time) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `
SELECT EXISTS (
    SELECT 1 FROM notifications
    WHERE student_id = $1 AND notification_type = $2 AND created_at >= $3
)`, studentID, notifType, since)
	if err != nil {
		return false, errors.Wrap(err, "checking notifications")
	}
	return exists, nil
}

func (repo *notificationRepository) HasRecentStudentNotificationContaining(ctx context.Context, studentID int, substr string, since time.Time) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `
SELECT EXISTS (
    SELECT 1 FROM notifications
    WHERE student_id = $1 AND created_at >= $2 AND message ILIKE '%' || $3 || '%'
)`, studentID, since, substr)
	if err != nil {
		return false, errors.Wrap(err, "checking notifications")
	}
	return exists, nil
}

func toNotifications(rows []notificationRow) []notification.Notification {
	notifications := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, row.toNotification())
	}
	return notifications
}
