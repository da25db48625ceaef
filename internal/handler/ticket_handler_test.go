package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/tickethub/ticket-booking/internal/dto"
	"github.com/tickethub/ticket-booking/internal/models"
	"github.com/tickethub/ticket-booking/internal/service"
)

// --- Mock services ---

type mockTicketService struct {
	getFn   func(ctx context.Context, id string) (*models.Ticket, error)
	listFn  func(ctx context.Context, eventID string) ([]models.Ticket, error)
	checkFn func(ctx context.Context, eventID, ticketType string) (int, error)
}

func (m *mockTicketService) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	return m.getFn(ctx, id)
}
func (m *mockTicketService) ListAvailable(ctx context.Context, eventID string) ([]models.Ticket, error) {
	return m.listFn(ctx, eventID)
}
func (m *mockTicketService) CheckAvailability(ctx context.Context, eventID, ticketType string) (int, error) {
	return m.checkFn(ctx, eventID, ticketType)
}

type mockReservationService struct {
	reserveFn func(ctx context.Context, ticketID, holderID string, quantity int) error
	releaseFn func(ctx context.Context, ticketID string, quantity int) error
}

func (m *mockReservationService) Reserve(ctx context.Context, ticketID, holderID string, quantity int) error {
	return m.reserveFn(ctx, ticketID, holderID, quantity)
}
func (m *mockReservationService) Release(ctx context.Context, ticketID string, quantity int) error {
	return m.releaseFn(ctx, ticketID, quantity)
}

func ticketPost(target, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

// --- Tests ---

func TestReserveTicket_Handler_Success(t *testing.T) {
	var gotHolder string
	var gotQty int
	res := &mockReservationService{
		reserveFn: func(ctx context.Context, ticketID, holderID string, quantity int) error {
			gotHolder, gotQty = holderID, quantity
			return nil
		},
	}

	c, rec := ticketPost("/api/v1/tickets/t-1/reserve", "t-1", `{"holder_id":"checkout-7","quantity":2}`)
	err := NewTicketHandler(nil, res).ReserveTicket(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "checkout-7", gotHolder)
	assert.Equal(t, 2, gotQty)

	var resp dto.ReserveResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Reserved)
}

func TestReserveTicket_Handler_DefaultsToOneUnit(t *testing.T) {
	var gotQty int
	res := &mockReservationService{
		reserveFn: func(ctx context.Context, ticketID, holderID string, quantity int) error {
			gotQty = quantity
			return nil
		},
	}

	c, _ := ticketPost("/api/v1/tickets/t-1/reserve", "t-1", `{"holder_id":"checkout-7"}`)
	err := NewTicketHandler(nil, res).ReserveTicket(c)

	assert.NoError(t, err)
	assert.Equal(t, 1, gotQty)
}

func TestReserveTicket_Handler_Contended(t *testing.T) {
	res := &mockReservationService{
		reserveFn: func(ctx context.Context, ticketID, holderID string, quantity int) error {
			return service.ErrLockUnavailable
		},
	}

	c, _ := ticketPost("/api/v1/tickets/t-1/reserve", "t-1", `{"holder_id":"checkout-7"}`)
	err := NewTicketHandler(nil, res).ReserveTicket(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestReserveTicket_Handler_SoldOut(t *testing.T) {
	res := &mockReservationService{
		reserveFn: func(ctx context.Context, ticketID, holderID string, quantity int) error {
			return service.ErrTicketUnavailable
		},
	}

	c, _ := ticketPost("/api/v1/tickets/t-1/reserve", "t-1", `{"holder_id":"checkout-7"}`)
	err := NewTicketHandler(nil, res).ReserveTicket(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestReserveTicket_Handler_MissingHolder(t *testing.T) {
	c, _ := ticketPost("/api/v1/tickets/t-1/reserve", "t-1", `{"quantity":1}`)
	err := NewTicketHandler(nil, nil).ReserveTicket(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestReleaseTicket_Handler_Success(t *testing.T) {
	res := &mockReservationService{
		releaseFn: func(ctx context.Context, ticketID string, quantity int) error { return nil },
	}

	c, rec := ticketPost("/api/v1/tickets/t-1/release", "t-1", `{"quantity":1}`)
	err := NewTicketHandler(nil, res).ReleaseTicket(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReleaseTicket_Handler_InvalidState(t *testing.T) {
	res := &mockReservationService{
		releaseFn: func(ctx context.Context, ticketID string, quantity int) error {
			return service.ErrInvalidReleaseState
		},
	}

	c, _ := ticketPost("/api/v1/tickets/t-1/release", "t-1", `{"quantity":1}`)
	err := NewTicketHandler(nil, res).ReleaseTicket(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCheckAvailability_Handler(t *testing.T) {
	svc := &mockTicketService{
		checkFn: func(ctx context.Context, eventID, ticketType string) (int, error) {
			return 42, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/e-1/availability?type=vip", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("e-1")

	err := NewTicketHandler(svc, nil).CheckAvailability(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AvailabilityResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.Available)
	assert.Equal(t, "vip", resp.Type)
}

func TestCheckAvailability_Handler_MissingType(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/e-1/availability", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("e-1")

	err := NewTicketHandler(nil, nil).CheckAvailability(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
