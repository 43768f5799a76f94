package models

// ContactStatus is the state of a directed contact relationship.
type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactAccepted ContactStatus = "accepted"
	ContactBlocked  ContactStatus = "blocked"
)

// Contact is a directed relationship record from one user to another.
// A mutual relationship is two independent Contact records, one per
// direction. At most one record exists per (UserID, ContactID) pair.
type Contact struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// UserID is the owner of this directed edge.
	UserID string

	// ContactID is the user this edge points at.
	ContactID string

	// Status is the relationship state: pending, accepted or blocked.
	Status ContactStatus

	// ConnectionType is a free-form tag ("friend", "family", "colleague").
	ConnectionType string

	// ConnectionDate is the Unix timestamp when the edge was created.
	ConnectionDate int64

	// LastInteractionDate is the Unix timestamp of the last shared activity.
	LastInteractionDate int64

	// Notes is an optional free-form annotation by the owner.
	Notes string
}
