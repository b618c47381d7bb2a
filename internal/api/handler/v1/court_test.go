package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/service"
)

type stubCourtService struct {
	courts []domain.Court
	slots  []domain.AvailableSlot
	err    error
}

func (s *stubCourtService) GetCourts(_ context.Context) ([]domain.Court, error) {
	return s.courts, s.err
}

func (s *stubCourtService) GetAvailableSlots(_ context.Context, _ uint, _ time.Time) ([]domain.AvailableSlot, error) {
	return s.slots, s.err
}

type stubBookingService struct {
	booking domain.Booking
	err     error

	gotCourtID  uint
	gotUserID   uint
	gotStart    time.Time
	gotDuration int
}

func (s *stubBookingService) BookSlot(_ context.Context, courtID, userID uint, start time.Time, durationMinutes int) (domain.Booking, error) {
	s.gotCourtID = courtID
	s.gotUserID = userID
	s.gotStart = start
	s.gotDuration = durationMinutes

	return s.booking, s.err
}

func courtRouter(courtSvc CourtService, bookingSvc BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewCourtHandler(courtSvc, bookingSvc)
	router := gin.New()
	router.GET("/courts", handler.HandleGetCourts)
	router.GET("/court/:courtID/available-slots", handler.HandleGetAvailableSlots)
	router.POST("/book-slot", handler.HandleBookSlot)

	return router
}

func TestHandleGetCourts(t *testing.T) {
	router := courtRouter(&stubCourtService{courts: []domain.Court{
		{ID: 1, Name: "Center Court", OpenTime: "08:00", CloseTime: "22:00"},
	}}, &stubBookingService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courts", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var courts []domain.Court
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courts))
	require.Len(t, courts, 1)
	assert.Equal(t, "Center Court", courts[0].Name)
}

func TestHandleGetAvailableSlots(t *testing.T) {
	router := courtRouter(&stubCourtService{slots: []domain.AvailableSlot{
		{ID: 1, StartTime: "2025-03-10T08:00:00.000Z", EndTime: "2025-03-10T09:00:00.000Z"},
	}}, &stubBookingService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/court/1/available-slots?date=2025-03-10", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var slots []domain.AvailableSlot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &slots))
	require.Len(t, slots, 1)
	assert.Equal(t, "2025-03-10T08:00:00.000Z", slots[0].StartTime)
}

func TestHandleGetAvailableSlotsBadDate(t *testing.T) {
	router := courtRouter(&stubCourtService{}, &stubBookingService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/court/1/available-slots?date=tomorrow", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetAvailableSlotsUnknownCourt(t *testing.T) {
	router := courtRouter(&stubCourtService{err: service.ErrCourtNotFound}, &stubBookingService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/court/99/available-slots?date=2025-03-10", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBookSlot(t *testing.T) {
	start := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	bookingSvc := &stubBookingService{booking: domain.Booking{
		ID:        1,
		CourtID:   1,
		UserID:    42,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}}
	router := courtRouter(&stubCourtService{}, bookingSvc)

	body, _ := json.Marshal(map[string]interface{}{
		"court_id":   1,
		"user_id":    42,
		"start_time": "2025-03-10T10:00:00Z",
		"duration":   60,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/book-slot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint(1), bookingSvc.gotCourtID)
	assert.Equal(t, uint(42), bookingSvc.gotUserID)
	assert.True(t, bookingSvc.gotStart.Equal(start))
	assert.Equal(t, 60, bookingSvc.gotDuration)

	var booking domain.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Equal(t, uint(1), booking.ID)
}

func TestHandleBookSlotConflict(t *testing.T) {
	router := courtRouter(&stubCourtService{}, &stubBookingService{err: service.ErrBookingConflict})

	body, _ := json.Marshal(map[string]interface{}{
		"court_id":   1,
		"user_id":    42,
		"start_time": "2025-03-10T10:00:00Z",
		"duration":   60,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/book-slot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "conflicts")
}

func TestHandleBookSlotValidation(t *testing.T) {
	bookingSvc := &stubBookingService{}
	router := courtRouter(&stubCourtService{}, bookingSvc)

	cases := []map[string]interface{}{
		{"court_id": 1, "user_id": 42, "start_time": "2025-03-10T10:00:00Z"},            // missing duration
		{"court_id": 1, "user_id": 42, "start_time": "2025-03-10T10:00:00Z", "duration": -30},
		{"court_id": 1, "user_id": 42, "start_time": "ten o'clock", "duration": 60},
	}

	for _, payload := range cases {
		body, _ := json.Marshal(payload)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/book-slot", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload %v", payload)
	}

	assert.Zero(t, bookingSvc.gotDuration, "invalid requests never reach the service")
}
