package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusight/edusight/core/academics"
)

// registerStudentAPI mounts every endpoint of the student portal.
func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	sg := g.Group("/student", jwt, studentMiddleware(deps.AcademicsSvc))

	api := studentApi{deps: deps}
	sg.GET("/dashboard", api.dashboard)
	sg.GET("/exams", api.upcomingExams)

	registerStudentCareerAPI(sg, deps)
	registerStudentPredictionAPI(sg, deps)
	registerStudentSuggestionAPI(sg, deps)
	registerStudentNotificationAPI(sg, deps)
}

type studentApi struct {
	deps *ServerDeps
}

type dashboardResponse struct {
	Student         academics.Student        `json:"student"`
	AttendanceRate  float64                  `json:"attendance_rate"`
	GradeAverage    float64                  `json:"grade_average"`
	TestAverage     float64                  `json:"test_average"`
	SubjectAverages map[string]float64       `json:"subject_averages"`
	UpcomingExams   []academics.ExamSchedule `json:"upcoming_exams"`
}

func (api *studentApi) dashboard(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	metrics, err := api.deps.AcademicsSvc.MetricsFor(rctx, student.ID)
	if err != nil {
		return errors.Wrap(err, "computing metrics")
	}
	exams, err := api.deps.AcademicsSvc.UpcomingExamsForStudent(rctx, student.ID)
	if err != nil {
		return errors.Wrap(err, "querying upcoming exams")
	}

	return ctx.JSON(http.StatusOK, dashboardResponse{
		Student:         student,
		AttendanceRate:  metrics.AttendanceRate,
		GradeAverage:    metrics.GradeAverage,
		TestAverage:     metrics.TestAverage,
		SubjectAverages: metrics.SubjectAverages,
		UpcomingExams:   exams,
	})
}

func (api *studentApi) upcomingExams(ctx echo.Context) error {
	student, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	exams, err := api.deps.AcademicsSvc.UpcomingExamsForStudent(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "querying upcoming exams")
	}
	return ctx.JSON(http.StatusOK, exams)
}
