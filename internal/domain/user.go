package domain

import "time"

const (
	RoleClient   = "client"
	RoleProvider = "provider"
)

type User struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	IsProvider     bool      `json:"isProvider,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero"`
}

// AuthSession is the single documented contract for authentication
// responses: one token plus the account summary. The legacy client probed
// several alternative field names (access_token, userData, ...); that
// heuristic is not reproduced here.
type AuthSession struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type RegisterInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}
