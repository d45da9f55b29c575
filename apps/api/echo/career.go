package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusight/edusight/core/career"
)

type careerApi struct {
	deps *ServerDeps
}

func registerStudentCareerAPI(sg *echo.Group, deps *ServerDeps) {
	api := careerApi{deps: deps}

	cg := sg.Group("/career")
	cg.GET("/questions", api.questions)
	cg.GET("/questions/next", api.nextQuestion)
	cg.POST("/answers", api.submitAnswer)
	cg.POST("/retake", api.retake)
	cg.GET("/results", api.results)
	cg.GET("/recommendations", api.advancedRecommendations)
	cg.GET("/history", api.history)
	cg.POST("/history/:id/rating", api.rateRecommendation)
}

// Handlers

func (api *careerApi) questions(ctx echo.Context) error {
	questions, err := api.deps.CareerSvc.ActiveQuestions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (api *careerApi) nextQuestion(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	next, err := api.deps.CareerSvc.NextQuestion(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "resolving next question")
	}
	return ctx.JSON(http.StatusOK, NextQuestionResponse{Question: next, Done: next == nil})
}

func (api *careerApi) submitAnswer(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data career.NewAnswer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnswer")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	done, err := api.deps.CareerSvc.SubmitAnswer(ctx.Request().Context(), student.ID, data)
	if err != nil {
		return errors.Wrap(err, "submitting answer")
	}
	return ctx.JSON(http.StatusOK, SubmitAnswerResponse{Done: done})
}

func (api *careerApi) retake(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	if err := api.deps.CareerSvc.Retake(ctx.Request().Context(), student.ID); err != nil {
		return errors.Wrap(err, "resetting questionnaire")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *careerApi) results(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	res, err := api.deps.CareerSvc.Results(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "computing results")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *careerApi) advancedRecommendations(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	res, err := api.deps.CareerSvc.AdvancedRecommendations(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "generating recommendations")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *careerApi) history(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	history, err := api.deps.CareerSvc.RecommendationHistory(ctx.Request().Context(), student.ID, 0)
	if err != nil {
		return errors.Wrap(err, "querying recommendation history")
	}
	return ctx.JSON(http.StatusOK, history)
}

func (api *careerApi) rateRecommendation(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	historyID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}

	var data RateRecommendationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RateRecommendationRequest")
	}

	if err := api.deps.CareerSvc.RateRecommendation(ctx.Request().Context(), student.ID, historyID, data.Rating); err != nil {
		return errors.Wrap(err, "rating recommendation")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	NextQuestionResponse struct {
		Question *career.Question `json:"question"`
		Done     bool             `json:"done"`
	}

	SubmitAnswerResponse struct {
		Done bool `json:"done"`
	}

	RateRecommendationRequest struct {
		Rating int `json:"rating"`
	}
)
