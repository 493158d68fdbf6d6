package dto

import "landregistry/internal/domain"

// FilePayload carries one uploaded document or image. Data is base64;
// the service stores the decoded bytes under a content-addressed key and
// only the key is persisted on the land record.
type FilePayload struct {
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Data        string `json:"data"`
}

type LandDetailsRequest struct {
	Area       string        `json:"area"`
	State      string        `json:"state"`
	City       string        `json:"city"`
	PostalCode string        `json:"postalCode"`
	Documents  []FilePayload `json:"documents,omitempty"`
	Images     []FilePayload `json:"images,omitempty"`
}

type RegisterLandRequest struct {
	LandAddress  string             `json:"landAddress"`
	Price        int64              `json:"price"`
	Description  string             `json:"description"`
	DocumentHash string             `json:"documentHash,omitempty"`
	Details      LandDetailsRequest `json:"landDetails"`
}

type LandSummary struct {
	LandID             int64  `json:"landId"`
	LandAddress        string `json:"landAddress"`
	Price              int64  `json:"price"`
	Description        string `json:"description,omitempty"`
	GovernmentApproval string `json:"governmentApproval"`
	Availability       string `json:"availability"`
}

type RegisterLandResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Land    LandSummary `json:"land"`
}

type UpdateLandRequest struct {
	Price       *int64  `json:"price,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ApproveLandRequest struct {
	ApprovalStatus string `json:"approvalStatus"`
}

type ProcessRequestRequest struct {
	Status string `json:"status"`
}

type AvailableLandsQuery struct {
	Page     int
	Limit    int
	MinPrice *int64
	MaxPrice *int64
	State    string
	City     string
}

type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

type LandResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Land    *domain.Land `json:"land"`
}

type LandListResponse struct {
	Success bool          `json:"success"`
	Lands   []domain.Land `json:"lands"`
}

type AvailableLandsResponse struct {
	Success    bool          `json:"success"`
	Lands      []domain.Land `json:"lands"`
	Pagination Pagination    `json:"pagination"`
}

type StatsResponse struct {
	Success bool             `json:"success"`
	Stats   domain.LandStats `json:"stats"`
}
