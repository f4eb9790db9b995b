package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caretrack/caretrack/pkg/apperror"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PATCH("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)

	api.POST("/patients/:id/attendances", h.ScheduleAttendance)
	api.GET("/attendances", h.ListAttendances)
	api.GET("/attendances/schedule", h.CheckSchedule)
	api.PATCH("/attendances/:id", h.MarkAttendance)

	api.POST("/patients/:id/assessments", h.AssessPatient)
	api.PATCH("/assessments/:id", h.UpdateAssessment)

	api.POST("/patients/:id/progress", h.FillProgress)
	api.GET("/patients/:id/progress", h.ListProgress)
}

// httpError translates a domain failure into the client-visible outcome:
// validation failures map to 400s, absent entities to 404s, and the rest to
// 500s.
func httpError(err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(appErr.Code.HTTPStatus(), appErr.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// -- Patient Handlers --

func (h *Handler) CreatePatient(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	patients, err := h.svc.AddPatient(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, patients)
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.svc.GetAllPatients(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ToResponseList(patients))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatientByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ToResponse(p))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdatePatientInfo(c.Request().Context(), id, &req); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "patient updated"})
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Attendance Handlers --

func (h *Handler) ScheduleAttendance(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req AttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.ScheduleAttendance(c.Request().Context(), id, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAttendances(c echo.Context) error {
	attendances, err := h.svc.ListAttendances(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, attendances)
}

func (h *Handler) CheckSchedule(c echo.Context) error {
	dates, err := h.svc.CheckSchedule(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dates)
}

func (h *Handler) MarkAttendance(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.MarkAttendance(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "attendance marked"})
}

// -- Assessment Handlers --

func (h *Handler) AssessPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req AssessmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Assess(c.Request().Context(), id, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateAssessment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req AssessmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateAssessment(c.Request().Context(), id, req.Title, req.Points); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "assessment updated"})
}

// -- Progress Handlers --

func (h *Handler) FillProgress(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req ProgressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pr, err := h.svc.FillProgress(c.Request().Context(), id, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, pr)
}

func (h *Handler) ListProgress(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	progress, err := h.svc.ListProgressByPatient(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, progress)
}
