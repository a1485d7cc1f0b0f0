package model

// AdminUser is the profile stored alongside the session token.
type AdminUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Session is the persisted authentication state. A non-empty token implies a
// prior successful login or validation.
type Session struct {
	Token string    `json:"token"`
	User  AdminUser `json:"user"`
}

// LoginRequest is the credentials payload for /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginData is the data portion of a successful login response.
type LoginData struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}
