package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shulehq/shule/core/payment"
)

type paymentAPI struct {
	svc *payment.Service
}

func registerPaymentAPI(e *echo.Echo, svc *payment.Service) {
	api := paymentAPI{svc: svc}

	e.POST("/student-course-payment", api.recordCoursePayment)
	e.GET("/students/:id/course-payments", api.queryCoursePayments)
	e.POST("/teacher-payments", api.recordTeacherPayment)
	e.GET("/teacher-payments/:teacherId", api.queryTeacherPayments)
}

func (api *paymentAPI) recordCoursePayment(ctx echo.Context) error {
	var np payment.NewCoursePayment
	if err := ctx.Bind(&np); err != nil {
		return err
	}
	if err := np.Validate(); err != nil {
		return err
	}
	id, err := api.svc.RecordCoursePayment(ctx.Request().Context(), np)
	if err != nil {
		if err == payment.ErrPaymentFailed {
			return echo.NewHTTPError(http.StatusInternalServerError, "Payment failed")
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "id": id})
}

func (api *paymentAPI) queryCoursePayments(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	payments, err := api.svc.QueryCoursePaymentsByUser(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *paymentAPI) recordTeacherPayment(ctx echo.Context) error {
	var np payment.NewTeacherPayment
	if err := ctx.Bind(&np); err != nil {
		return err
	}
	if err := np.Validate(); err != nil {
		return err
	}
	id, err := api.svc.RecordTeacherPayment(ctx.Request().Context(), np)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "id": id})
}

func (api *paymentAPI) queryTeacherPayments(ctx echo.Context) error {
	teacherID, err := intParam(ctx, "teacherId")
	if err != nil {
		return err
	}
	payments, err := api.svc.QueryTeacherPaymentsByTeacher(ctx.Request().Context(), teacherID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, payments)
}
