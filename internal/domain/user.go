package domain

import "time"

type User struct {
	ID                   uint      `json:"id"`
	Email                string    `json:"email"`
	Password             string    `json:"-"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	Phone                string    `json:"phone"`
	PlayPosition         string    `json:"play_position"`
	MarketingPreferences bool      `json:"marketing_preferences"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
