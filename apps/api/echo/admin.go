package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusight/edusight/core/career"
)

// registerAdminAPI mounts the admin-only management endpoints.
func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := adminApi{deps: deps}

	ag := g.Group("/admin", jwt, adminMiddleware())
	ag.POST("/career/questions", api.addQuestion)
	ag.POST("/careers", api.addCareer)
}

type adminApi struct {
	deps *ServerDeps
}

// Handlers

func (api *adminApi) addQuestion(ctx echo.Context) error {
	var data career.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	q, err := api.deps.CareerSvc.AddQuestion(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *adminApi) addCareer(ctx echo.Context) error {
	var data career.NewCareer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCareer")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	c, err := api.deps.CareerSvc.AddCareer(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding career")
	}
	return ctx.JSON(http.StatusCreated, c)
}
