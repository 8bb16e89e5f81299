package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/clinic-booking-backend/internal/doctor"
	"github.com/nekogravitycat/clinic-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/clinic-booking-backend/internal/pkg/response"
)

type Handler struct {
	service doctor.Service
}

func NewHandler(service doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateDoctorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	windows, err := toWindows(body.Availability)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	d, err := h.service.Create(c.Request.Context(), doctor.CreateRequest{
		Name:            body.Name,
		Specialization:  body.Specialization,
		ConsultationFee: body.ConsultationFee,
		Availability:    windows,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewDoctorResponse(d))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid doctor id", err)
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDoctorResponse(d))
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid doctor id", err)
		return
	}

	var body SetAvailabilityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	windows, err := toWindows(body.Availability)
	if err != nil {
		response.BadRequest(c, err.Error(), err)
		return
	}

	d, err := h.service.SetAvailability(c.Request.Context(), req.ID, windows)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDoctorResponse(d))
}
