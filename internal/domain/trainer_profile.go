// internal/domain/trainer_profile.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClockInterval is a wall-clock interval within one day, "HH:MM" 24h format,
// with start < end when compared as minute offsets.
type ClockInterval struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// WorkingDay maps one weekday (0=Sunday..6=Saturday) to the intervals the
// trainer is open to teach on that day.
type WorkingDay struct {
	DayOfWeek int             `bson:"dayOfWeek" json:"dayOfWeek"`
	Intervals []ClockInterval `bson:"intervals" json:"intervals"`
}

// TrainerProfile is the public-facing profile of a trainer, including the
// availability data the scheduling core reads. The profile is edited by the
// trainer; the scheduler never writes to it.
type TrainerProfile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user" json:"userId"` // One profile per trainer user

	Bio             string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Specialties     []string `bson:"specialties,omitempty" json:"specialties,omitempty"`
	YearsExperience int      `bson:"yearsExperience" json:"yearsExperience"`
	GymLocation     string   `bson:"gymLocation,omitempty" json:"gymLocation,omitempty"`

	// Availability consumed by the scheduling core.
	WorkingHours    []WorkingDay  `bson:"workingHours,omitempty" json:"workingHours,omitempty"`
	DefaultBreakMin int           `bson:"defaultBreakMin" json:"defaultBreakMin"`
	DeliveryModes   DeliveryModes `bson:"deliveryModes" json:"deliveryModes"`

	AvailableForNewClients bool `bson:"availableForNewClients" json:"availableForNewClients"`
	Verified               bool `bson:"verified" json:"verified"`

	RatingAvg   float64 `bson:"ratingAvg" json:"ratingAvg"`
	RatingCount int     `bson:"ratingCount" json:"ratingCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IntervalsOn returns the open intervals for the given weekday, or nil when
// the trainer does not work that day.
func (p *TrainerProfile) IntervalsOn(dayOfWeek int) []ClockInterval {
	for _, wd := range p.WorkingHours {
		if wd.DayOfWeek == dayOfWeek {
			return wd.Intervals
		}
	}
	return nil
}
