package schema

import "time"

// CurrentUser is returned by GET /users/me
type CurrentUser struct {
	UserID string `json:"userId" example:"U-6f9dcb2e-2e1b-4c3a-8a67-5b3e0d740df6"`
	Login  string `json:"login" example:"alice"`
	Name   string `json:"name,omitempty" example:"Alice Smith"`
}

// UserMeta is the stored form of a user on the development server
type UserMeta struct {
	UserID    string    `json:"user_id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CurrentUser returns the public view of the stored user
func (u UserMeta) CurrentUser() CurrentUser {
	return CurrentUser{UserID: u.UserID, Login: u.Login, Name: u.Name}
}
