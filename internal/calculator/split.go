// Package calculator contains the pure balance computations: split
// calculation, personal balance aggregation and the group pairwise ledger.
// Every function is a stateless function of its input record set and is
// safe to run concurrently.
package calculator

import (
	"errors"
	"math"

	"github.com/mkale/splitledger/internal/models"
)

// Tolerance is the maximum acceptable drift for money comparisons.
// Split amounts must sum to the expense amount within this tolerance, and
// percentages must sum to 100 within it.
const Tolerance = 0.01

var (
	ErrNoParticipants = errors.New("must have at least one participant")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrUnknownSplit   = errors.New("unknown split type")
)

// Participant is one participant in a split computation, with the
// caller-supplied override for percentage and exact modes.
type Participant struct {
	UserID     string
	Percentage float64 // share in percent, used for percentage splits
	Amount     float64 // exact share, used for exact splits
}

// Share is one participant's computed share of an expense.
type Share struct {
	UserID     string
	Amount     float64
	Percentage float64
	Paid       bool // true iff UserID is the payer
}

// CalculateSplits converts an amount, a split type and an ordered participant
// list into per-participant shares. It only computes; it never rejects
// off-tolerance percentage or exact totals. Validating the totals before
// persistence is the caller's job (see SplitTotalValid and
// PercentageTotalValid).
//
// Equal splits use plain division: any sub-cent remainder is left in the
// shares and absorbed by the tolerance rather than pushed to one participant.
func CalculateSplits(amount float64, splitType models.SplitType, payerID string, participants []Participant) ([]Share, error) {
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	shares := make([]Share, len(participants))
	switch splitType {
	case models.SplitEqual:
		perPerson := amount / float64(len(participants))
		pct := 100 / float64(len(participants))
		for i, p := range participants {
			shares[i] = Share{
				UserID:     p.UserID,
				Amount:     perPerson,
				Percentage: pct,
				Paid:       p.UserID == payerID,
			}
		}

	case models.SplitPercentage:
		for i, p := range participants {
			shares[i] = Share{
				UserID:     p.UserID,
				Amount:     amount * p.Percentage / 100,
				Percentage: p.Percentage,
				Paid:       p.UserID == payerID,
			}
		}

	case models.SplitExact:
		for i, p := range participants {
			pct := 0.0
			if amount > 0 {
				pct = p.Amount / amount * 100
			}
			shares[i] = Share{
				UserID:     p.UserID,
				Amount:     p.Amount,
				Percentage: pct,
				Paid:       p.UserID == payerID,
			}
		}

	default:
		return nil, ErrUnknownSplit
	}

	return shares, nil
}

// SplitTotalValid reports whether the split amounts sum to total within
// Tolerance.
func SplitTotalValid(splits []models.Split, total float64) bool {
	var sum float64
	for _, s := range splits {
		sum += s.Amount
	}
	return math.Abs(sum-total) <= Tolerance
}

// ShareTotalValid reports whether computed share amounts sum to total within
// Tolerance.
func ShareTotalValid(shares []Share, total float64) bool {
	var sum float64
	for _, s := range shares {
		sum += s.Amount
	}
	return math.Abs(sum-total) <= Tolerance
}

// PercentageTotalValid reports whether the share percentages sum to 100
// within Tolerance.
func PercentageTotalValid(shares []Share) bool {
	var sum float64
	for _, s := range shares {
		sum += s.Percentage
	}
	return math.Abs(sum-100) <= Tolerance
}
