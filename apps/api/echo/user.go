package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/user"
)

type userAPI struct {
	svc *user.Service
}

func registerUserAPI(e *echo.Echo, svc *user.Service) {
	api := userAPI{svc: svc}

	e.POST("/login", api.login)
	e.POST("/register", api.register)
	e.POST("/student-application", api.submitStudentApplication)
	e.POST("/teacher-application", api.submitTeacherApplication)

	rg := e.Group("/registrations")
	rg.GET("/pending", api.queryPending)
	rg.GET("/approved", api.queryApproved)
	rg.GET("/:id/status", api.getStatus)
	rg.PUT("/:id/status", api.setStatus)
	rg.DELETE("/:id", api.deleteRegistration)
}

func (api *userAPI) login(ctx echo.Context) error {
	var creds user.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return err
	}
	if err := creds.Validate(); err != nil {
		return err
	}
	usr, err := api.svc.Authenticate(ctx.Request().Context(), creds)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "user": usr.Public()})
}

func (api *userAPI) register(ctx echo.Context) error {
	var nr user.NewRegistration
	if err := ctx.Bind(&nr); err != nil {
		return err
	}
	if err := nr.Validate(); err != nil {
		return err
	}
	usr, err := api.svc.Register(ctx.Request().Context(), nr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "registrationId": usr.RegistrationID})
}

func (api *userAPI) submitStudentApplication(ctx echo.Context) error {
	var req struct {
		UserID *int `json:"userId"`
		user.StudentApplication
	}
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if req.UserID == nil {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	if err := req.StudentApplication.Validate(); err != nil {
		return err
	}
	if err := api.svc.SubmitStudentApplication(ctx.Request().Context(), *req.UserID, req.StudentApplication); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Application submitted successfully"})
}

func (api *userAPI) submitTeacherApplication(ctx echo.Context) error {
	var req struct {
		UserID *int `json:"userId"`
		user.TeacherApplication
	}
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if req.UserID == nil {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	if err := req.TeacherApplication.Validate(); err != nil {
		return err
	}
	if err := api.svc.SubmitTeacherApplication(ctx.Request().Context(), *req.UserID, req.TeacherApplication); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Application submitted successfully"})
}

func (api *userAPI) queryPending(ctx echo.Context) error {
	users, err := api.svc.PendingRegistrations(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userAPI) queryApproved(ctx echo.Context) error {
	users, err := api.svc.ApprovedRegistrations(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userAPI) getStatus(ctx echo.Context) error {
	usr, err := api.svc.GetByRegistrationID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "status": usr.Status})
}

func (api *userAPI) setStatus(ctx echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("id"), req.Status); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *userAPI) deleteRegistration(ctx echo.Context) error {
	if err := api.svc.DeleteRegistration(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}
