package models

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // don’t expose hash
}

// RegisterForm carries the registration request fields.
type RegisterForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password_confirm"`
}

// LoginForm carries the login request fields. Identifier may be a
// username or an email address.
type LoginForm struct {
	Identifier string `form:"identifier"`
	Password   string `form:"password"`
}
