// internal/domain/slot.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SlotKind distinguishes slots generated from a package series from ad-hoc
// single slots a trainer opens manually.
type SlotKind string

const (
	SlotKindRecurring SlotKind = "recurring"
	SlotKindSingle    SlotKind = "single"
)

// SlotStatus is the lifecycle state of a bookable slot.
type SlotStatus string

const (
	SlotStatusOpen               SlotStatus = "OPEN"
	SlotStatusBlocked            SlotStatus = "BLOCKED"
	SlotStatusBooked             SlotStatus = "BOOKED"
	SlotStatusReservedForPackage SlotStatus = "RESERVED_FOR_PACKAGE"
	SlotStatusHeld               SlotStatus = "HELD" // Short-lived reservation during checkout
)

// SlotHold records a short-lived reservation placed on a slot while a booking
// is pending payment. Expired holds revert the slot to OPEN.
type SlotHold struct {
	BookingID *primitive.ObjectID `bson:"booking,omitempty" json:"bookingId,omitempty"`
	Until     *time.Time          `bson:"until,omitempty" json:"until,omitempty"`
}

// Slot is the materialized unit of bookable trainer time.
// Invariant: for a given trainer no two slots share the same startTime;
// enforced by a unique index on {pt, startTime}.
type Slot struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"pt" json:"trainerId"`

	// Package that generated this slot, when kind is recurring.
	PackageID *primitive.ObjectID `bson:"package,omitempty" json:"packageId,omitempty"`

	// Groups slots generated together from one package+pattern so a whole
	// series can be listed or bulk-modified, e.g. "66ab...:1-3-5".
	SeriesID string `bson:"seriesId,omitempty" json:"seriesId,omitempty"`

	Kind   SlotKind   `bson:"kind" json:"kind"`
	Status SlotStatus `bson:"status" json:"status"`

	StartTime time.Time `bson:"startTime" json:"startTime"`
	EndTime   time.Time `bson:"endTime" json:"endTime"`

	Modes    DeliveryModes `bson:"modes" json:"modes"`
	Capacity int           `bson:"capacity" json:"capacity"` // Fixed at 1 for 1:1 training
	Notes    string        `bson:"notes,omitempty" json:"notes,omitempty"`

	Hold *SlotHold `bson:"hold,omitempty" json:"hold,omitempty"`

	// Booking that confirmed this slot, once status is BOOKED.
	BookedByBookingID *primitive.ObjectID `bson:"bookedByBooking,omitempty" json:"bookedByBookingId,omitempty"`

	// TTL anchor: the document is removed by the store once this passes.
	ExpiresAt *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsUnclaimed reports whether nobody has booked or held the slot yet.
// Unclaimed slots whose time has passed are carry-forward candidates.
func (s *Slot) IsUnclaimed() bool {
	return s.Status == "" || s.Status == SlotStatusOpen || s.Status == SlotStatusReservedForPackage
}
