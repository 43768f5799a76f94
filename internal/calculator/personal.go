package calculator

import (
	"math"
	"sort"

	"github.com/mkale/splitledger/internal/models"
)

// CounterpartyBalance is the net amount outstanding with one counterparty.
// Amount is always positive; the containing list determines direction.
type CounterpartyBalance struct {
	UserID string
	Amount float64
}

// PersonalBalance is the aggregate of a user's personal (non-group)
// expenses and settlements.
type PersonalBalance struct {
	YouOwe       float64 // total the user owes others
	YouAreOwed   float64 // total others owe the user
	TotalBalance float64 // YouAreOwed - YouOwe

	// YouOweTo lists counterparties the user owes, largest first.
	YouOweTo []CounterpartyBalance

	// OwedByOthers lists counterparties that owe the user, largest first.
	OwedByOthers []CounterpartyBalance
}

// runningBalance accumulates per-counterparty amounts during aggregation.
type runningBalance struct {
	owed  float64 // counterparty owes the user
	owing float64 // the user owes the counterparty
}

// CalculatePersonalBalance nets all personal expenses and settlements
// touching userID per counterparty. Group-scoped records are ignored.
//
// Sign conventions:
//   - user paid an expense: every unpaid split of another participant adds
//     to "owed to user" against that participant
//   - user holds an unpaid split in someone else's expense: the split adds
//     to "owed by user" against the payer
//   - user paid a settlement: reduces what the user owes the receiver
//   - user received a settlement: reduces what the payer owes the user
//
// Counterparties with a zero net are omitted. Settlements may flip the sign
// of a pair's net; the flipped direction is preserved, not clamped.
func CalculatePersonalBalance(expenses []*models.Expense, settlements []*models.Settlement, userID string) PersonalBalance {
	var youOwe, youAreOwed float64
	byUser := make(map[string]*runningBalance)

	acc := func(id string) *runningBalance {
		b, ok := byUser[id]
		if !ok {
			b = &runningBalance{}
			byUser[id] = b
		}
		return b
	}

	for _, e := range expenses {
		if e.GroupID != "" || !e.Involves(userID) {
			continue
		}

		if e.PaidByUserID == userID {
			for _, s := range e.Splits {
				if s.UserID == userID || s.Paid {
					continue
				}
				youAreOwed += s.Amount
				acc(s.UserID).owed += s.Amount
			}
		} else if mine := e.SplitFor(userID); mine != nil && !mine.Paid {
			youOwe += mine.Amount
			acc(e.PaidByUserID).owing += mine.Amount
		}
	}

	for _, s := range settlements {
		if s.GroupID != "" || !s.Involves(userID) {
			continue
		}

		if s.PaidByUserID == userID {
			youOwe -= s.Amount
			acc(s.ReceivedByUserID).owing -= s.Amount
		} else {
			youAreOwed -= s.Amount
			acc(s.PaidByUserID).owed -= s.Amount
		}
	}

	var oweTo, owedBy []CounterpartyBalance
	for id, b := range byUser {
		net := b.owed - b.owing
		if net == 0 {
			continue
		}
		entry := CounterpartyBalance{UserID: id, Amount: math.Abs(net)}
		if net > 0 {
			owedBy = append(owedBy, entry)
		} else {
			oweTo = append(oweTo, entry)
		}
	}

	// Largest debts first; counterparty ID breaks ties so output is
	// deterministic across map iteration orders.
	sortByAmountDesc(oweTo)
	sortByAmountDesc(owedBy)

	return PersonalBalance{
		YouOwe:       youOwe,
		YouAreOwed:   youAreOwed,
		TotalBalance: youAreOwed - youOwe,
		YouOweTo:     oweTo,
		OwedByOthers: owedBy,
	}
}

// CounterpartyNet returns the net between userID and one counterparty:
// positive means otherID owes userID. Shares belonging to anyone else in a
// shared expense do not count, even when the expense involves both users.
func CounterpartyNet(expenses []*models.Expense, settlements []*models.Settlement, userID, otherID string) float64 {
	balance := CalculatePersonalBalance(expenses, settlements, userID)
	for _, b := range balance.OwedByOthers {
		if b.UserID == otherID {
			return b.Amount
		}
	}
	for _, b := range balance.YouOweTo {
		if b.UserID == otherID {
			return -b.Amount
		}
	}
	return 0
}

func sortByAmountDesc(list []CounterpartyBalance) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Amount != list[j].Amount {
			return list[i].Amount > list[j].Amount
		}
		return list[i].UserID < list[j].UserID
	})
}
