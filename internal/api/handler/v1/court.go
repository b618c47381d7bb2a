package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1131tariq/Courts/internal/api/handler/v1/request"
	"github.com/1131tariq/Courts/internal/api/handler/v1/response"
	"github.com/1131tariq/Courts/internal/domain"
	"github.com/1131tariq/Courts/internal/service"
)

const dateLayout = "2006-01-02"

type CourtService interface {
	GetCourts(ctx context.Context) ([]domain.Court, error)
	GetAvailableSlots(ctx context.Context, courtID uint, date time.Time) ([]domain.AvailableSlot, error)
}

type BookingService interface {
	BookSlot(ctx context.Context, courtID, userID uint, start time.Time, durationMinutes int) (domain.Booking, error)
}

type CourtHandler struct {
	svc        CourtService
	bookingSvc BookingService
}

func NewCourtHandler(svc CourtService, bookingSvc BookingService) *CourtHandler {
	return &CourtHandler{
		svc:        svc,
		bookingSvc: bookingSvc,
	}
}

// HandleGetCourts godoc
// @Summary      List courts
// @Tags         courts
// @Produce      json
// @Success      200  {array}   domain.Court
// @Failure      500  {object}  response.Err
// @Router       /courts [get]
// @Security BearerAuth
func (h *CourtHandler) HandleGetCourts(ctx *gin.Context) {
	courts, err := h.svc.GetCourts(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCourts -> h.svc.GetCourts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, courts)
}

// HandleGetAvailableSlots godoc
// @Summary      List available slots for a court on a date
// @Description  Free intervals within the court's operating hours, split into fixed-size bookable units
// @Tags         courts
// @Produce      json
// @Param        courtID  path      int     true  "court ID"
// @Param        date     query     string  true  "date (YYYY-MM-DD)"
// @Success      200      {array}   domain.AvailableSlot
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /court/{courtID}/available-slots [get]
// @Security BearerAuth
func (h *CourtHandler) HandleGetAvailableSlots(ctx *gin.Context) {
	courtID, err := strconv.ParseUint(ctx.Param("courtID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	date, err := time.Parse(dateLayout, ctx.Query("date"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date -> %w", err)))
		return
	}

	slots, err := h.svc.GetAvailableSlots(ctx.Request.Context(), uint(courtID), date)
	if err != nil {
		if errors.Is(err, service.ErrCourtNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("court", "ID", courtID))
			return
		}

		err = fmt.Errorf("v1.HandleGetAvailableSlots -> h.svc.GetAvailableSlots -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, slots)
}

// HandleBookSlot godoc
// @Summary      Book a slot on a court
// @Description  Atomically reserves the interval; overlapping reservations are rejected
// @Tags         courts
// @Produce      json
// @Param        request  body      request.BookSlotRequest true "request body"
// @Success      201      {object}  domain.Booking
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /book-slot [post]
// @Security BearerAuth
func (h *CourtHandler) HandleBookSlot(ctx *gin.Context) {
	var req request.BookSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid start_time -> %w", err)))
		return
	}

	booking, err := h.bookingSvc.BookSlot(ctx.Request.Context(), req.CourtID, req.UserID, start, req.Duration)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingConflict):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrBookingConflict))
		case errors.Is(err, service.ErrInvalidDuration):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidDuration))
		case errors.Is(err, service.ErrCourtNotFound):
			response.RenderErr(ctx, response.ErrNotFound("court", "ID", req.CourtID))
		default:
			err = fmt.Errorf("v1.HandleBookSlot -> h.bookingSvc.BookSlot -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, booking)
}
