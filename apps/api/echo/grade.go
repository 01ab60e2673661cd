package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shulehq/shule/core/grade"
)

type gradeAPI struct {
	svc *grade.Service
}

func registerGradeAPI(e *echo.Echo, svc *grade.Service) {
	api := gradeAPI{svc: svc}

	e.POST("/grades", api.record)
	e.GET("/courses/:id/grades", api.queryByCourse)
	e.GET("/students/:id/grades", api.queryByStudent)
}

func (api *gradeAPI) record(ctx echo.Context) error {
	var ng grade.NewGrade
	if err := ctx.Bind(&ng); err != nil {
		return err
	}
	if err := ng.Validate(); err != nil {
		return err
	}
	g, err := api.svc.Record(ctx.Request().Context(), ng)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "id": g.ID})
}

func (api *gradeAPI) queryByCourse(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	grades, err := api.svc.QueryByCourse(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradeAPI) queryByStudent(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	grades, err := api.svc.QueryByStudent(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grades)
}
