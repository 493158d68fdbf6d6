package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

func (s ApprovalStatus) Valid() bool {
	return s == ApprovalPending || s == ApprovalApproved || s == ApprovalRejected
}

type Availability string

const (
	NotAvailable        Availability = "Not Available"
	Available           Availability = "Available"
	Requested           Availability = "Requested"
	ApprovedForPurchase Availability = "Approved for Purchase"
)

type RequestStatus string

const (
	RequestDefault  RequestStatus = "Default"
	RequestPending  RequestStatus = "Pending"
	RequestRejected RequestStatus = "Rejected"
	RequestApproved RequestStatus = "Approved"
)

// StringList stores object-storage keys as a JSON array column so the
// schema stays portable across postgres and sqlite.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
}

// LandDetails is the descriptive sub-record of a parcel. Documents and
// Images hold object-storage keys, never inline payloads.
type LandDetails struct {
	Area       string     `gorm:"type:text" json:"area"`
	State      string     `gorm:"type:text" json:"state"`
	City       string     `gorm:"type:text" json:"city"`
	PostalCode string     `gorm:"type:text" json:"postalCode"`
	Documents  StringList `gorm:"type:text" json:"documents"`
	Images     StringList `gorm:"type:text" json:"images"`
}

type Land struct {
	ID                     uint           `gorm:"primaryKey" json:"-"`
	LandID                 int64          `gorm:"uniqueIndex:ux_lands_land_id;not null" json:"landId"`
	OwnerID                UserID         `gorm:"type:uuid;index;not null" json:"ownerId"`
	Owner                  *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	OwnerWalletAddress     string         `gorm:"type:text;index;not null" json:"ownerWalletAddress"`
	DocumentHash           string         `gorm:"type:text;index" json:"documentHash"`
	LandAddress            string         `gorm:"type:text;uniqueIndex:ux_lands_address;not null" json:"landAddress"`
	Price                  int64          `gorm:"not null" json:"price"`
	Description            string         `gorm:"type:text" json:"description"`
	Details                LandDetails    `gorm:"embedded;embeddedPrefix:details_" json:"landDetails"`
	GovernmentApproval     ApprovalStatus `gorm:"type:text;not null;default:'Pending';index" json:"governmentApproval"`
	Availability           Availability   `gorm:"type:text;not null;default:'Not Available';index" json:"availability"`
	RequesterID            *UserID        `gorm:"type:uuid;index" json:"requesterId,omitempty"`
	Requester              *User          `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	RequesterWalletAddress *string        `gorm:"type:text" json:"requesterWalletAddress,omitempty"`
	RequestStatus          RequestStatus  `gorm:"type:text;not null;default:'Default'" json:"requestStatus"`
	IsActive               bool           `gorm:"not null;default:true" json:"isActive"`
	CreatedAt              time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt              time.Time      `gorm:"not null" json:"updatedAt"`
}

func (Land) TableName() string { return "lands" }

// Listed reports whether the parcel is open for purchase requests.
func (l *Land) Listed() bool {
	return l.GovernmentApproval == ApprovalApproved && l.Availability == Available && l.IsActive
}

// HasPendingRequest reports whether a purchase request is awaiting the
// owner's decision.
func (l *Land) HasPendingRequest() bool {
	return l.RequesterID != nil && l.RequestStatus == RequestPending
}

// IDSequence backs landId allocation. The value is advanced with a row
// UPDATE inside the registration transaction, which serializes concurrent
// registrations instead of racing a max-scan.
type IDSequence struct {
	Name  string `gorm:"type:text;primaryKey"`
	Value int64  `gorm:"not null"`
}

func (IDSequence) TableName() string { return "id_sequences" }

// LandStats is the aggregate overview computed in a single pass.
type LandStats struct {
	TotalLands     int64 `json:"totalLands"`
	TotalValue     int64 `json:"totalValue"`
	ApprovedLands  int64 `json:"approvedLands"`
	PendingLands   int64 `json:"pendingLands"`
	AvailableLands int64 `json:"availableLands"`
}
