package echoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core/attendance"
	"github.com/shulehq/shule/core/school"
	exportsvc "github.com/shulehq/shule/services/export"
)

type attendanceAPI struct {
	svc       *attendance.Service
	schoolSvc *school.Service
}

func registerAttendanceAPI(e *echo.Echo, svc *attendance.Service, schoolSvc *school.Service) {
	api := attendanceAPI{svc: svc, schoolSvc: schoolSvc}

	e.POST("/attendance", api.mark)
	e.PUT("/attendance/:id", api.update)
	e.DELETE("/attendance/:id", api.delete)
	e.GET("/students/:id/attendance", api.queryByStudent)
	e.GET("/courses/:id/attendance", api.queryByCourse)
	e.GET("/courses/:id/attendance/export", api.exportByCourse)
}

// mark accepts a single record, a batch of records, or a whole-course sheet
// ({courseId, date, attendance}).
func (api *attendanceAPI) mark(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}
	body = bytes.TrimSpace(body)

	if len(body) > 0 && body[0] == '[' {
		var records []attendance.NewRecord
		if err = json.Unmarshal(body, &records); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
		}
		return api.markRecords(ctx, records)
	}

	var sheet attendance.Sheet
	if err = json.Unmarshal(body, &sheet); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if len(sheet.Attendance) > 0 {
		if err = sheet.Validate(); err != nil {
			return err
		}
		if err = api.svc.SubmitSheet(ctx.Request().Context(), sheet); err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, echo.Map{"success": true})
	}

	var record attendance.NewRecord
	if err = json.Unmarshal(body, &record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return api.markRecords(ctx, []attendance.NewRecord{record})
}

func (api *attendanceAPI) markRecords(ctx echo.Context, records []attendance.NewRecord) error {
	n, err := api.svc.Mark(ctx.Request().Context(), records)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": fmt.Sprintf("%d attendance records created", n),
	})
}

func (api *attendanceAPI) update(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var ur attendance.UpdateRecord
	if err = ctx.Bind(&ur); err != nil {
		return err
	}
	if err = ur.Validate(); err != nil {
		return err
	}
	if err = api.svc.SetPresent(ctx.Request().Context(), id, *ur.Present); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *attendanceAPI) delete(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Attendance record deleted successfully"})
}

func (api *attendanceAPI) queryByStudent(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	records, err := api.svc.QueryByStudent(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceAPI) queryByCourse(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	records, err := api.svc.QueryByCourse(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceAPI) exportByCourse(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	crs, err := api.schoolSvc.GetCourse(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	records, err := api.svc.QueryByCourse(ctx.Request().Context(), id)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = exportsvc.WriteAttendanceWorkbook(&buf, crs.Title, records); err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("attendance-course-%d.xlsx", id)))
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
