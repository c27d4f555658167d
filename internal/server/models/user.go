package models

import "time"

// User is an account. Password holds the bcrypt hash and is cleared before a
// User leaves the server.
type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Medicines []*Medicine `json:"medicines"`
	CreatedAt time.Time   `json:"-"`
}

// Sanitized returns a copy safe to send to clients: no password hash and a
// non-nil medicines list.
func (u *User) Sanitized() *User {
	c := *u
	c.Password = ""
	if c.Medicines == nil {
		c.Medicines = []*Medicine{}
	}
	return &c
}
