package models

type LoginRequest struct {
	Password string `json:"password"`
}
