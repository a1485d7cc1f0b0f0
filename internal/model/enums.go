package model

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// AllBookingStatuses lists every status the booking table recognizes.
// Transitions between them are free-form; the back office imposes no
// state machine on top of what the server accepts.
var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

type ComponentStatus string

const (
	ComponentStatusUp      ComponentStatus = "UP"
	ComponentStatusDown    ComponentStatus = "DOWN"
	ComponentStatusUnknown ComponentStatus = "UNKNOWN"
)
