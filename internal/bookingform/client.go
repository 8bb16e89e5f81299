package bookingform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nekogravitycat/clinic-booking-backend/internal/appointment"
	appointmentHttp "github.com/nekogravitycat/clinic-booking-backend/internal/appointment/http"
	"github.com/nekogravitycat/clinic-booking-backend/internal/doctor"
	doctorHttp "github.com/nekogravitycat/clinic-booking-backend/internal/doctor/http"
	"github.com/nekogravitycat/clinic-booking-backend/internal/pkg/response"
)

// APIError is a non-2xx answer from the booking API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking api returned %d: %s", e.StatusCode, e.Message)
}

// Client implements API over the HTTP endpoints under /v1.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for baseURL (e.g. "https://clinic.example.com").
// token is the patient's bearer token; httpClient may be nil.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (c *Client) GetDoctor(ctx context.Context, id string) (*doctor.Doctor, error) {
	var resp doctorHttp.DoctorResponse
	if err := c.do(ctx, http.MethodGet, "/v1/doctors/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.ToDoctor()
}

func (c *Client) ListBookedAppointments(ctx context.Context, doctorID string) ([]*appointment.Appointment, error) {
	var resp appointmentHttp.ListAppointmentsResponse
	path := "/v1/doctors/" + url.PathEscape(doctorID) + "/appointments"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]*appointment.Appointment, len(resp.Items))
	for i, item := range resp.Items {
		out[i] = item.ToAppointment()
	}
	return out, nil
}

// CreateAppointment posts the selection. The server assigns the patient from
// the token and sets the initial statuses itself.
func (c *Client) CreateAppointment(ctx context.Context, a *appointment.Appointment) (*appointment.Appointment, error) {
	body := appointmentHttp.CreateAppointmentBody{
		DoctorID: a.DoctorID,
		Date:     a.Date,
		TimeSlot: a.TimeSlot,
	}
	var resp appointmentHttp.CreatedAppointmentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/appointments", body, &resp); err != nil {
		return nil, err
	}
	return resp.ToAppointment(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var apiErr response.ErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		return &APIError{StatusCode: res.StatusCode, Message: apiErr.Error}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
