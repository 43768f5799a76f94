package models

// SplitType selects how an expense amount is divided among participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitExact      SplitType = "exact"
)

// Split is one participant's share of an expense.
type Split struct {
	// UserID identifies the participant.
	UserID string

	// Amount is this participant's share. Always >= 0.
	Amount float64

	// Paid is true if this participant owes nothing further. Always true
	// for the payer's own entry; may be set for others who settled
	// out-of-band.
	Paid bool
}

// Expense is the fundamental transaction record: an amount paid by one user
// and split among participants. The sum of all Split amounts equals Amount
// within a 0.01 tolerance; every participant appears at most once.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable name for the expense.
	Description string

	// Amount is the full expense amount. Always > 0.
	Amount float64

	// Category is an optional category tag ("food", "travel", ...).
	Category string

	// Date is the Unix timestamp the expense was incurred.
	Date int64

	// PaidByUserID is the single user who paid.
	PaidByUserID string

	// SplitType records how the splits were derived.
	SplitType SplitType

	// Splits is the ordered per-participant share list.
	Splits []Split

	// GroupID scopes the expense to a group. Empty means a personal
	// (one-on-one or ad hoc) expense.
	GroupID string

	// CreatedBy is the user ID that recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}

// SplitFor returns the split entry for userID, or nil if absent.
func (e *Expense) SplitFor(userID string) *Split {
	for i := range e.Splits {
		if e.Splits[i].UserID == userID {
			return &e.Splits[i]
		}
	}
	return nil
}

// Involves reports whether userID paid the expense or holds a split in it.
func (e *Expense) Involves(userID string) bool {
	return e.PaidByUserID == userID || e.SplitFor(userID) != nil
}
