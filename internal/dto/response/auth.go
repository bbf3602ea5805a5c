package response

import (
	"time"

	"advance-auth/internal/data/entity"
)

// AuthResponse carries the issued session token. It is written to the cookie
// and never to the response body.
type AuthResponse struct {
	UserID    string
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

type UserDataResponse struct {
	Name              string `json:"name"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

func UserToResponse(user *entity.User) UserDataResponse {
	return UserDataResponse{
		Name:              user.Name,
		IsAccountVerified: user.IsAccountVerified,
	}
}
