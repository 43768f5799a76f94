package models

// Settlement represents a directed payment between two users that offsets
// outstanding split debts. PaidByUserID and ReceivedByUserID always differ;
// Amount is always > 0.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// Amount is the payment amount.
	Amount float64

	// Note is an optional description for the settlement.
	Note string

	// Date is the Unix timestamp the payment was made.
	Date int64

	// PaidByUserID is the user who paid (debtor settling up).
	PaidByUserID string

	// ReceivedByUserID is the user who received payment.
	ReceivedByUserID string

	// GroupID scopes the settlement to a group context. Empty means a
	// personal settlement.
	GroupID string

	// RelatedExpenseIDs optionally links the expenses this payment covers.
	// Informational only: it does not mark those expenses' splits as paid.
	RelatedExpenseIDs []string

	// CreatedBy is the user ID that recorded the settlement.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64
}

// Involves reports whether userID is the payer or the receiver.
func (s *Settlement) Involves(userID string) bool {
	return s.PaidByUserID == userID || s.ReceivedByUserID == userID
}
