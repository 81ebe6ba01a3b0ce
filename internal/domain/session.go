// internal/domain/session.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus is the lifecycle state of a training session.
type SessionStatus string

const (
	SessionStatusScheduled           SessionStatus = "scheduled"
	SessionStatusConfirmed           SessionStatus = "confirmed"
	SessionStatusCompleted           SessionStatus = "completed"
	SessionStatusAbsent              SessionStatus = "absent"
	SessionStatusRescheduleRequested SessionStatus = "reschedule_requested"
)

// CanTransitionTo reports whether the status change is a legal step in the
// session lifecycle. Completed and absent are terminal.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionStatusScheduled:
		return next == SessionStatusConfirmed || next == SessionStatusCompleted ||
			next == SessionStatusAbsent || next == SessionStatusRescheduleRequested
	case SessionStatusConfirmed:
		return next == SessionStatusCompleted || next == SessionStatusAbsent ||
			next == SessionStatusRescheduleRequested
	case SessionStatusRescheduleRequested:
		return next == SessionStatusScheduled
	default:
		return false
	}
}

// Session is one concrete training appointment between a trainer and a
// student, usually materialized from a booked slot.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"pt" json:"trainerId"`
	StudentID primitive.ObjectID `bson:"student" json:"studentId"`

	PackageID *primitive.ObjectID `bson:"package,omitempty" json:"packageId,omitempty"`
	SlotID    *primitive.ObjectID `bson:"slot,omitempty" json:"slotId,omitempty"`
	BookingID *primitive.ObjectID `bson:"booking,omitempty" json:"bookingId,omitempty"`

	StartTime time.Time     `bson:"startTime" json:"startTime"`
	EndTime   time.Time     `bson:"endTime" json:"endTime"`
	Status    SessionStatus `bson:"status" json:"status"`
	Notes     string        `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
