// internal/domain/package.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PackageVisibility controls whether students can discover a package.
type PackageVisibility string

const (
	VisibilityPrivate PackageVisibility = "private"
	VisibilityPublic  PackageVisibility = "public"
)

// Recurrence holds the weekday patterns a package repeats on.
// Each inner pattern is an alternative schedule the student can pick
// (e.g. Mon/Wed/Fri vs Tue/Thu/Sat); weekdays are 0=Sunday..6=Saturday.
type Recurrence struct {
	DaysOfWeek WeekdayPatterns `bson:"daysOfWeek" json:"daysOfWeek"`
}

// Package represents a sellable training package owned by a trainer.
type Package struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"pt" json:"trainerId"` // Link to the trainer (User) who owns this package

	Name        string `bson:"name" json:"name"` // Unique per trainer
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	// Price per session (VND, integer).
	Price int64 `bson:"price" json:"price"`

	TotalSessions      int `bson:"totalSessions" json:"totalSessions"`
	SessionDurationMin int `bson:"sessionDurationMin" json:"sessionDurationMin"`
	DurationDays       int `bson:"durationDays" json:"durationDays"` // Validity window after purchase

	Recurrence Recurrence `bson:"recurrence" json:"recurrence"`

	IsActive   bool              `bson:"isActive" json:"isActive"`
	Visibility PackageVisibility `bson:"visibility" json:"visibility"`
	Supports   DeliveryModes     `bson:"supports" json:"supports"`
	Tags       []string          `bson:"tags,omitempty" json:"tags,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
