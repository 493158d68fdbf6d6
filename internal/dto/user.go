package dto

import "landregistry/internal/domain"

type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

type ProfileResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

type UserListResponse struct {
	Success bool          `json:"success"`
	Users   []domain.User `json:"users"`
}

type NotificationRequest struct {
	Email       string `json:"email"`
	Message     string `json:"message"`
	Subject     string `json:"subject,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
