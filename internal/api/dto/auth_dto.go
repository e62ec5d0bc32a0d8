package dto

// RegisterRequest payload for new accounts (regular and admin).
type RegisterRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// TokenPairResponse carries the fresh session pair issued at login.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
