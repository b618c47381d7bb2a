package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type BookSlotRequest struct {
	CourtID   uint   `json:"court_id"`
	UserID    uint   `json:"user_id"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

func (req *BookSlotRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CourtID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.StartTime, validation.Required),
		validation.Field(&req.Duration, validation.Required, validation.Min(1)),
	)
}
