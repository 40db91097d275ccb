package models

type LoginResponse struct {
	Success bool `json:"success"`
}

// SessionResponse answers GET /auth/session
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}
