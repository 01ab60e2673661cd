package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shulehq/shule/core/feedback"
)

type feedbackAPI struct {
	svc *feedback.Service
}

func registerFeedbackAPI(e *echo.Echo, svc *feedback.Service) {
	api := feedbackAPI{svc: svc}

	e.POST("/contact", api.createContactMessage)
	e.GET("/contact-messages", api.queryContactMessages)
	e.PUT("/contact-messages/:id/status", api.setContactStatus)
	e.POST("/submit-survey", api.submitSurvey)
	e.GET("/surveys", api.querySurveys)
}

func (api *feedbackAPI) createContactMessage(ctx echo.Context) error {
	var nm feedback.NewContactMessage
	if err := ctx.Bind(&nm); err != nil {
		return err
	}
	if err := nm.Validate(); err != nil {
		return err
	}
	if _, err := api.svc.CreateContactMessage(ctx.Request().Context(), nm); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Message sent successfully"})
}

func (api *feedbackAPI) queryContactMessages(ctx echo.Context) error {
	msgs, err := api.svc.QueryContactMessages(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *feedbackAPI) setContactStatus(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status"`
	}
	if err = ctx.Bind(&req); err != nil {
		return err
	}
	if err = api.svc.SetContactStatus(ctx.Request().Context(), id, req.Status); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *feedbackAPI) submitSurvey(ctx echo.Context) error {
	var ns feedback.NewSurvey
	if err := ctx.Bind(&ns); err != nil {
		return err
	}
	if err := ns.Validate(); err != nil {
		return err
	}
	id, err := api.svc.SubmitSurvey(ctx.Request().Context(), ns)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "id": id})
}

func (api *feedbackAPI) querySurveys(ctx echo.Context) error {
	surveys, err := api.svc.QuerySurveys(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, surveys)
}
