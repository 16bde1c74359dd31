package api

import "time"

// swagger:model api.UserResponse
type UserResponse struct {
	ID                int       `json:"id" example:"1"`
	Name              string    `json:"name" example:"Alice"`
	Email             string    `json:"email" example:"alice@example.com"`
	Course            string    `json:"course" example:"Not specified"`
	School            string    `json:"school" example:"Not specified"`
	Department        string    `json:"department" example:"Not specified"`
	Bio               *string   `json:"bio"`
	Role              string    `json:"role" example:"member"`
	ProfilePictureURL *string   `json:"profile_picture_url" example:"http://localhost:8080/storage/default/profiles/1.png"`
	CreatedAt         time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
}
