package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateUserRequest struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Phone                string `json:"phone"`
	PlayPosition         string `json:"play_position"`
	MarketingPreferences bool   `json:"marketing_preferences"`
}

func (req *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Length(0, 100)),
		validation.Field(&req.LastName, validation.Length(0, 100)),
		validation.Field(&req.Phone, validation.Length(0, 20)),
		validation.Field(&req.PlayPosition, validation.In("", "left", "right", "both")),
	)
}
