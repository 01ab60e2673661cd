package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/school"
)

type schoolAPI struct {
	svc *school.Service
}

func registerSchoolAPI(e *echo.Echo, svc *school.Service) {
	api := schoolAPI{svc: svc}

	cg := e.Group("/classes")
	cg.GET("", api.queryClasses)
	cg.POST("", api.createClass)
	cg.DELETE("/:id", api.deleteClass)
	cg.GET("/:id/courses", api.queryClassCourses)
	cg.POST("/:id/courses", api.createCourseInClass)
	cg.DELETE("/:id/courses/:courseId", api.removeCourseFromClass)

	crg := e.Group("/courses")
	crg.GET("", api.queryCourses)
	crg.POST("", api.createCourse)
	crg.GET("/teacher", api.queryTeacherCourses)
	crg.GET("/:id", api.getCourse)
	crg.DELETE("/:id", api.deleteCourse)

	ag := e.Group("/announcements")
	ag.GET("", api.queryAnnouncements)
	ag.POST("", api.createAnnouncement)
	ag.DELETE("/:id", api.deleteAnnouncement)

	og := e.Group("/orientations")
	og.GET("", api.queryOrientations)
	og.POST("", api.createOrientation)
	og.POST("/:id/enroll", api.enrollInOrientation)
	og.DELETE("/:id/enroll/:studentId", api.dropFromOrientation)

	e.GET("/teacher/:teacherId/schedule", api.teacherSchedule)
	e.GET("/teachers/:id/courses", api.queryCoursesByTeacher)
	e.GET("/students/:id/courses", api.queryCoursesByStudent)
}

// Classes

func (api *schoolAPI) queryClasses(ctx echo.Context) error {
	classes, err := api.svc.QueryClasses(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *schoolAPI) createClass(ctx echo.Context) error {
	var nc school.NewClass
	if err := ctx.Bind(&nc); err != nil {
		return err
	}
	if err := nc.Validate(); err != nil {
		return err
	}
	if _, err := api.svc.CreateClass(ctx.Request().Context(), nc); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (api *schoolAPI) deleteClass(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteClass(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *schoolAPI) queryClassCourses(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	courses, err := api.svc.QueryCoursesByClass(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *schoolAPI) createCourseInClass(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var nc school.NewCourse
	if err = ctx.Bind(&nc); err != nil {
		return err
	}
	_, attached, err := api.svc.CreateCourseInClass(ctx.Request().Context(), id, nc)
	if err != nil {
		return err
	}
	if attached {
		return ctx.JSON(http.StatusOK, echo.Map{"success": true})
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (api *schoolAPI) removeCourseFromClass(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	courseID, err := intParam(ctx, "courseId")
	if err != nil {
		return err
	}
	if err = api.svc.RemoveCourseFromClass(ctx.Request().Context(), id, courseID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Courses

func (api *schoolAPI) queryCourses(ctx echo.Context) error {
	courses, err := api.svc.QueryCourses(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *schoolAPI) createCourse(ctx echo.Context) error {
	var nc school.NewCourse
	if err := ctx.Bind(&nc); err != nil {
		return err
	}
	if err := nc.Validate(); err != nil {
		return err
	}
	if _, err := api.svc.CreateCourse(ctx.Request().Context(), nc); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (api *schoolAPI) queryTeacherCourses(ctx echo.Context) error {
	courses, err := api.svc.QueryTeacherCourses(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *schoolAPI) getCourse(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	crs, err := api.svc.GetCourse(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *schoolAPI) deleteCourse(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteCourse(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

// Announcements

func (api *schoolAPI) queryAnnouncements(ctx echo.Context) error {
	anns, err := api.svc.QueryAnnouncements(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, anns)
}

func (api *schoolAPI) createAnnouncement(ctx echo.Context) error {
	var na school.NewAnnouncement
	if err := ctx.Bind(&na); err != nil {
		return err
	}
	if err := na.Validate(); err != nil {
		return err
	}
	id, err := api.svc.CreateAnnouncement(ctx.Request().Context(), na)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "id": id})
}

func (api *schoolAPI) deleteAnnouncement(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteAnnouncement(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

// Orientations

func (api *schoolAPI) queryOrientations(ctx echo.Context) error {
	ors, err := api.svc.QueryOrientations(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ors)
}

func (api *schoolAPI) createOrientation(ctx echo.Context) error {
	var no school.NewOrientation
	if err := ctx.Bind(&no); err != nil {
		return err
	}
	if err := no.Validate(); err != nil {
		return err
	}
	id, err := api.svc.CreateOrientation(ctx.Request().Context(), no)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "id": id})
}

func (api *schoolAPI) enrollInOrientation(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var req struct {
		StudentID *int `json:"studentId"`
	}
	if err = ctx.Bind(&req); err != nil {
		return err
	}
	if req.StudentID == nil {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	if err = api.svc.EnrollInOrientation(ctx.Request().Context(), id, *req.StudentID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (api *schoolAPI) dropFromOrientation(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	studentID, err := intParam(ctx, "studentId")
	if err != nil {
		return err
	}
	if err = api.svc.DropFromOrientation(ctx.Request().Context(), id, studentID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

// Schedules

func (api *schoolAPI) teacherSchedule(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	entries, err := api.svc.TeacherSchedule(ctx.Request().Context(), teacherID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *schoolAPI) queryCoursesByTeacher(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	courses, err := api.svc.QueryCoursesByTeacher(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *schoolAPI) queryCoursesByStudent(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	courses, err := api.svc.QueryCoursesByStudent(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}
