package dto

type SignupRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Contact       string `json:"contact"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	WalletAddress string `json:"walletAddress"`
	Password      string `json:"password"`
}

// GovernmentSignupRequest registers the single registrar account. Empty
// profile fields fall back to the registrar defaults.
type GovernmentSignupRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Contact       string `json:"contact"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
	WalletAddress string `json:"walletAddress"`
	Password      string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	WalletAddress string `json:"walletAddress"`
	Role          string `json:"role"`
}

type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}
