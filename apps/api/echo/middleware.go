package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusight/edusight/core/academics"
)

const (
	contextStudentKey = "student"
	contextTeacherKey = "teacher"
)

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// studentMiddleware resolves the authenticated user's student record and
// stashes it in the request context.
func studentMiddleware(svc *academics.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !claims.IsStudent {
				return errHttpForbidden
			}
			student, err := svc.StudentByUserID(ctx.Request().Context(), claims.UserID)
			if err != nil {
				return errors.Wrap(err, "finding student by user ID")
			}
			ctx.Set(contextStudentKey, student)
			return next(ctx)
		}
	}
}

func teacherMiddleware(svc *academics.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if !claims.IsTeacher {
				return errHttpForbidden
			}
			teacher, err := svc.TeacherByUserID(ctx.Request().Context(), claims.UserID)
			if err != nil {
				return errors.Wrap(err, "finding teacher by user ID")
			}
			ctx.Set(contextTeacherKey, teacher)
			return next(ctx)
		}
	}
}

func getContextStudent(ctx echo.Context) (academics.Student, error) {
	if student, ok := ctx.Get(contextStudentKey).(academics.Student); ok {
		return student, nil
	}
	return academics.Student{}, errUnauthorized
}

func getContextTeacher(ctx echo.Context) (academics.Teacher, error) {
	if teacher, ok := ctx.Get(contextTeacherKey).(academics.Teacher); ok {
		return teacher, nil
	}
	return academics.Teacher{}, errUnauthorized
}
