package domain

// DeliveryModes describes where a training session can take place.
// Used on packages (what the package supports), trainer profiles (what the
// trainer offers) and slots (what the concrete slot allows).
type DeliveryModes struct {
	AtTrainerGym bool `bson:"atPtGym" json:"atPtGym"`
	AtClient     bool `bson:"atClient" json:"atClient"`
	AtOtherGym   bool `bson:"atOtherGym" json:"atOtherGym"`
}

// IsZero reports whether no mode is enabled at all, which callers treat as
// "fall back to the default" rather than "nowhere".
func (m DeliveryModes) IsZero() bool {
	return !m.AtTrainerGym && !m.AtClient && !m.AtOtherGym
}
