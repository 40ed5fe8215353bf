package entity

import "time"

// User is a row in the `users` table. Email is stored normalized
// (trimmed, lower-cased); PasswordHash never leaves the service layer.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"fullName"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// PublicView is the projection returned to clients after registration.
type PublicView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

func (u *User) PublicView() PublicView {
	return PublicView{ID: u.ID, Email: u.Email, FullName: u.FullName}
}
