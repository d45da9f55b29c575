package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusight/edusight/core/notification"
)

type notificationApi struct {
	deps *ServerDeps
}

func registerStudentNotificationAPI(sg *echo.Group, deps *ServerDeps) {
	api := notificationApi{deps: deps}

	ng := sg.Group("/notifications")
	ng.GET("", api.listForStudent)
	ng.GET("/unread-count", api.unreadCount)
	ng.POST("/:id/read", api.markRead)
}

// Handlers

func (api *notificationApi) listForStudent(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	notifs, unread, err := api.deps.NotificationSvc.ListForStudent(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, NotificationListResponse{Notifications: notifs, UnreadCount: unread})
}

func (api *notificationApi) unreadCount(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	count, err := api.deps.NotificationSvc.UnreadCountForStudent(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "counting notifications")
	}
	return ctx.JSON(http.StatusOK, UnreadCountResponse{UnreadCount: count})
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.deps.NotificationSvc.MarkRead(ctx.Request().Context(), id, student.ID, 0); err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	NotificationListResponse struct {
		Notifications []notification.Notification `json:"notifications"`
		UnreadCount   int                         `json:"unread_count"`
	}

	UnreadCountResponse struct {
		UnreadCount int `json:"unread_count"`
	}
)
