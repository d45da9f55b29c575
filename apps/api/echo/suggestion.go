package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type suggestionApi struct {
	deps *ServerDeps
}

func registerStudentSuggestionAPI(sg *echo.Group, deps *ServerDeps) {
	api := suggestionApi{deps: deps}

	gg := sg.Group("/suggestions")
	gg.GET("", api.list)
	gg.POST("/:id/respond", api.respond)
}

// Handlers

func (api *suggestionApi) list(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	summary, err := api.deps.SuggestionSvc.ListForStudent(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "querying suggestions")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *suggestionApi) respond(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	suggestionID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data RespondRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RespondRequest")
	}

	if err := api.deps.SuggestionSvc.Respond(ctx.Request().Context(), student.ID, suggestionID, data.Accept, data.Feedback); err != nil {
		return errors.Wrap(err, "responding to suggestion")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type RespondRequest struct {
	Accept   bool   `json:"accept"`
	Feedback string `json:"feedback"`
}
