package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/clinic-booking-backend/internal/appointment"
	"github.com/nekogravitycat/clinic-booking-backend/internal/auth"
	"github.com/nekogravitycat/clinic-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/clinic-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

type Handler struct {
	service appointment.Service
}

func NewHandler(service appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Slots(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid doctor id", err)
		return
	}

	var q request.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil || q.Date == "" {
		response.BadRequest(c, "date query parameter is required", err)
		return
	}
	date, err := schedule.ParseDate(q.Date)
	if err != nil {
		response.BadRequest(c, "date must be formatted as YYYY-MM-DD", err)
		return
	}

	day, err := h.service.AvailableSlots(c.Request.Context(), req.ID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDaySlotsResponse(day))
}

func (h *Handler) ListByDoctor(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid doctor id", err)
		return
	}

	var q request.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	var date *schedule.Date
	if q.Date != "" {
		d, err := schedule.ParseDate(q.Date)
		if err != nil {
			response.BadRequest(c, "date must be formatted as YYYY-MM-DD", err)
			return
		}
		date = &d
	}

	apps, err := h.service.ListByDoctor(c.Request.Context(), req.ID, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AppointmentResponse, len(apps))
	for i, a := range apps {
		items[i] = NewBookedResponse(a)
	}
	c.JSON(http.StatusOK, ListAppointmentsResponse{Items: items})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateAppointmentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	patientID := auth.GetPatientID(c)
	if patientID == "" {
		response.Error(c, appointment.ErrPatientRequired)
		return
	}

	a, err := h.service.Create(c.Request.Context(), appointment.CreateRequest{
		DoctorID:  body.DoctorID,
		PatientID: patientID,
		Date:      body.Date,
		TimeSlot:  body.TimeSlot,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreatedAppointmentResponse{
		AppointmentResponse: NewAppointmentResponse(a),
		PaymentURL:          a.PaymentPath(),
	})
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid appointment id", err)
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Patients only see their own appointments.
	if a.PatientID != auth.GetPatientID(c) {
		response.Error(c, appointment.ErrPermissionDenied)
		return
	}

	c.JSON(http.StatusOK, NewAppointmentResponse(a))
}
