package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusight/edusight/core/prediction"
)

type predictionApi struct {
	deps *ServerDeps
}

func registerStudentPredictionAPI(sg *echo.Group, deps *ServerDeps) {
	api := predictionApi{deps: deps}

	pg := sg.Group("/predictions")
	pg.POST("", api.predict)
	pg.GET("", api.recent)
	pg.POST("/feedback", api.submitFeedback)

	stg := sg.Group("/strategies")
	stg.GET("", api.strategies)
	stg.POST("/:id/complete", api.completeStrategy)
	stg.POST("/:id/dismiss", api.dismissStrategy)
}

// Handlers

func (api *predictionApi) predict(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	outcome, err := api.deps.PredictionSvc.Predict(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "running prediction")
	}
	return ctx.JSON(http.StatusCreated, outcome)
}

func (api *predictionApi) recent(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	predictions, err := api.deps.PredictionSvc.RecentPredictions(ctx.Request().Context(), student.ID, 10)
	if err != nil {
		return errors.Wrap(err, "querying predictions")
	}
	return ctx.JSON(http.StatusOK, predictions)
}

func (api *predictionApi) submitFeedback(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data prediction.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	fb, err := api.deps.PredictionSvc.SubmitFeedback(ctx.Request().Context(), student.ID, data)
	if err != nil {
		return errors.Wrap(err, "submitting feedback")
	}
	return ctx.JSON(http.StatusCreated, fb)
}

func (api *predictionApi) strategies(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	active, completed, completionRate, err := api.deps.PredictionSvc.Strategies(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "querying strategies")
	}
	return ctx.JSON(http.StatusOK, StrategiesResponse{
		Active:         active,
		Completed:      completed,
		CompletionRate: completionRate,
	})
}

func (api *predictionApi) completeStrategy(ctx echo.Context) error {
	return api.updateStrategy(ctx, api.deps.PredictionSvc.CompleteStrategy)
}

func (api *predictionApi) dismissStrategy(ctx echo.Context) error {
	return api.updateStrategy(ctx, api.deps.PredictionSvc.DismissStrategy)
}

func (api *predictionApi) updateStrategy(ctx echo.Context, update func(context.Context, int, int) error) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	strategyID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := update(ctx.Request().Context(), student.ID, strategyID); err != nil {
		return errors.Wrap(err, "updating strategy")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type StrategiesResponse struct {
	Active         []prediction.ImprovementStrategy `json:"active"`
	Completed      []prediction.ImprovementStrategy `json:"completed"`
	CompletionRate float64                          `json:"completion_rate"`
}
