package model

import "time"

// Booking is the server-owned record for a photography session request.
// The console only reads it, updates its status, and deletes it.
type Booking struct {
	ID                 int64         `json:"id"`
	FirstName          string        `json:"firstName"`
	LastName           string        `json:"lastName"`
	PhoneNumber        string        `json:"phoneNumber"`
	SchoolUniversity   string        `json:"schoolUniversity"`
	GraduationDate     string        `json:"graduationDate"`
	PackagePreference  string        `json:"packagePreference"`
	PreferredLocation  string        `json:"preferredLocation,omitempty"`
	AdditionalRequests string        `json:"additionalRequests,omitempty"`
	Amount             float64       `json:"amount"`
	Status             BookingStatus `json:"status"`
	EmailSent          bool          `json:"emailSent"`
	SMSSent            bool          `json:"smsSent"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// Page is one fetched slice of the server-side paginated booking set.
// Never mutated in place; each fetch replaces the previous page wholesale.
type Page struct {
	Content       []Booking `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
}
