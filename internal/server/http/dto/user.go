package dto

import "time"

type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// SetActiveRequest toggles an account. Active is required.
type SetActiveRequest struct {
	Active *bool `json:"active"`
}
