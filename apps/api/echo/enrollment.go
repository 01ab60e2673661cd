package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shulehq/shule/core/enrollment"
	"github.com/shulehq/shule/core/school"
)

type enrollmentAPI struct {
	svc       *enrollment.Service
	schoolSvc *school.Service
}

func registerEnrollmentAPI(e *echo.Echo, svc *enrollment.Service, schoolSvc *school.Service) {
	api := enrollmentAPI{svc: svc, schoolSvc: schoolSvc}

	e.GET("/students/:id/enrollments", api.queryStudentEnrollments)
	e.POST("/student-enrollments", api.enrollStudent)
	e.DELETE("/student-enrollments/:studentId/:courseId", api.withdrawStudent)

	e.GET("/courses/:id/students", api.queryCourseStudents)
	e.GET("/courses/:id/enrollments", api.queryCourseMembers)
	e.DELETE("/courses/:id/enrollments/:userId", api.removeCourseMember)

	tg := e.Group("/teacher-enrollments")
	tg.POST("", api.enrollTeacher)
	tg.GET("/:teacherId", api.queryTeacherEnrollments)
	tg.GET("/:teacherId/courses", api.queryTeacherCourses)
	tg.DELETE("/:teacherId/:courseId", api.withdrawTeacher)
}

// Students

func (api *enrollmentAPI) queryStudentEnrollments(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	enrs, err := api.svc.QueryStudentEnrollments(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *enrollmentAPI) enrollStudent(ctx echo.Context) error {
	var ne enrollment.NewStudentEnrollment
	if err := ctx.Bind(&ne); err != nil {
		return err
	}
	if err := ne.Validate(); err != nil {
		return err
	}
	if err := api.svc.EnrollStudent(ctx.Request().Context(), ne); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (api *enrollmentAPI) withdrawStudent(ctx echo.Context) error {
	studentID, err := intParam(ctx, "studentId")
	if err != nil {
		return err
	}
	courseID, err := intParam(ctx, "courseId")
	if err != nil {
		return err
	}
	if err = api.svc.WithdrawStudent(ctx.Request().Context(), studentID, courseID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

// Course rosters

func (api *enrollmentAPI) queryCourseStudents(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	students, err := api.svc.QueryApprovedCourseStudents(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *enrollmentAPI) queryCourseMembers(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	members, err := api.svc.QueryCourseMembers(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *enrollmentAPI) removeCourseMember(ctx echo.Context) error {
	courseID, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	userID, err := intParam(ctx, "userId")
	if err != nil {
		return err
	}
	if err = api.svc.RemoveCourseMember(ctx.Request().Context(), courseID, userID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

// Teachers

func (api *enrollmentAPI) enrollTeacher(ctx echo.Context) error {
	var ne enrollment.NewTeacherEnrollment
	if err := ctx.Bind(&ne); err != nil {
		return err
	}
	if err := ne.Validate(); err != nil {
		return err
	}
	if err := api.svc.EnrollTeacher(ctx.Request().Context(), ne); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Teacher enrolled successfully"})
}

func (api *enrollmentAPI) queryTeacherEnrollments(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	enrs, err := api.svc.QueryTeacherEnrollments(ctx.Request().Context(), teacherID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, enrs)
}

func (api *enrollmentAPI) queryTeacherCourses(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	courses, err := api.schoolSvc.QueryCoursesByTeacher(ctx.Request().Context(), teacherID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *enrollmentAPI) withdrawTeacher(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	courseID, err := intParam(ctx, "courseId")
	if err != nil {
		return err
	}
	if err = api.svc.WithdrawTeacher(ctx.Request().Context(), teacherID, courseID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Enrollment deleted"})
}
