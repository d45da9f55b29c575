package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core"
	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/notification"
	"github.com/edusight/edusight/core/suggestion"
)

// registerTeacherAPI mounts every endpoint of the teacher portal.
func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := teacherApi{deps: deps}

	tg := g.Group("/teacher", jwt, teacherMiddleware(deps.AcademicsSvc))
	tg.GET("/students", api.students)
	tg.POST("/grades", api.recordGrade)
	tg.POST("/attendance", api.recordAttendance)
	tg.POST("/tests", api.recordWeeklyTest)
	tg.GET("/exams", api.exams)
	tg.POST("/exams", api.scheduleExam)
	tg.POST("/suggestions", api.createSuggestion)
	tg.GET("/notifications", api.notifications)
}

type teacherApi struct {
	deps *ServerDeps
}

// Handlers

func (api *teacherApi) students(ctx echo.Context) error {
	students, err := api.deps.AcademicsSvc.ActiveStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

// recordGrade persists the grade, tells the student about it and re-runs the
// course-suggestion policy against their refreshed metrics.
func (api *teacherApi) recordGrade(ctx echo.Context) error {
	teacher, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}

	var data academics.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	grade, err := api.deps.AcademicsSvc.RecordGrade(rctx, teacher.ID, data)
	if err != nil {
		return errors.Wrap(err, "recording grade")
	}

	if _, err := api.deps.NotificationSvc.Notify(rctx, notification.NewNotification{
		StudentID: null.IntFrom(grade.StudentID),
		Title:     "New Grade Posted",
		Message:   fmt.Sprintf("You have received a new grade in %s: %g/%g", grade.Subject, grade.Score, grade.MaxScore),
		Type:      notification.TypePerformance,
		Priority:  notification.PriorityMedium,
	}); err != nil {
		return errors.Wrap(err, "notifying student")
	}

	if _, err := api.deps.SuggestionSvc.EvaluateStudent(rctx, grade.StudentID); err != nil {
		return errors.Wrap(err, "evaluating course suggestions")
	}

	return ctx.JSON(http.StatusCreated, grade)
}

func (api *teacherApi) recordAttendance(ctx echo.Context) error {
	teacher, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}

	var data RecordAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RecordAttendanceRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	entry, err := api.deps.AcademicsSvc.RecordAttendance(ctx.Request().Context(), teacher.ID, data.StudentID, data.Status)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *teacherApi) recordWeeklyTest(ctx echo.Context) error {
	teacher, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}

	var data RecordTestRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RecordTestRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	test, err := api.deps.AcademicsSvc.RecordWeeklyTest(ctx.Request().Context(), teacher.ID, data.StudentID, data.Score)
	if err != nil {
		return errors.Wrap(err, "recording weekly test")
	}
	return ctx.JSON(http.StatusCreated, test)
}

func (api *teacherApi) exams(ctx echo.Context) error {
	teacher, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}
	exams, err := api.deps.AcademicsSvc.UpcomingExamsForTeacher(ctx.Request().Context(), teacher.ID)
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}
	return ctx.JSON(http.StatusOK, exams)
}

func (api *teacherApi) scheduleExam(ctx echo.Context) error {
	teacher, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}

	var data academics.NewExamSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExamSchedule")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	exam, err := api.deps.AcademicsSvc.ScheduleExam(ctx.Request().Context(), teacher.ID, data)
	if err != nil {
		return errors.Wrap(err, "scheduling exam")
	}
	return ctx.JSON(http.StatusCreated, exam)
}

func (api *teacherApi) createSuggestion(ctx echo.Context) error {
	teacher, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}

	var data suggestion.NewSuggestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSuggestion")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	s, err := api.deps.SuggestionSvc.CreateByTeacher(ctx.Request().Context(), teacher.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating suggestion")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *teacherApi) notifications(ctx echo.Context) error {
	teacher, err := getContextTeacher(ctx)
	if err != nil {
		return err
	}
	notifs, err := api.deps.NotificationSvc.ListForTeacher(ctx.Request().Context(), teacher.ID)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, notifs)
}

type (
	RecordAttendanceRequest struct {
		StudentID int    `json:"student_id" validate:"required"`
		Status    string `json:"status" validate:"required,oneof=Present Absent"`
	}

	RecordTestRequest struct {
		StudentID int     `json:"student_id" validate:"required"`
		Score     float64 `json:"score" validate:"gte=0,lte=100"`
	}
)

func (ra *RecordAttendanceRequest) Validate(validate *validator.Validate) error {
	ra.Status = core.CleanString(ra.Status)
	return validate.Struct(ra)
}

func (rt *RecordTestRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(rt)
}
