package rpc

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct{}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// WhoamiRequest is empty; the token travels in the access_token metadata.
type WhoamiRequest struct{}

type WhoamiResponse struct {
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issuedAt"`
}
