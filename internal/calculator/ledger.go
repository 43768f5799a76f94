package calculator

import (
	"sort"

	"github.com/mkale/splitledger/internal/models"
)

// DebtTo is a directed debt the member owes to another member.
type DebtTo struct {
	To     string
	Amount float64
}

// DebtFrom is a directed debt another member owes this member.
type DebtFrom struct {
	From   string
	Amount float64
}

// MemberLedger is one member's view of the group ledger after netting.
type MemberLedger struct {
	UserID       string
	TotalBalance float64    // positive = net owed to member
	Owes         []DebtTo   // debts this member owes, by counterparty
	OwedBy       []DebtFrom // debts owed to this member, by counterparty
}

// CalculateGroupLedger builds the full pairwise debt matrix for one group
// from its expenses and settlements, nets opposing debts between every pair
// and returns one MemberLedger per member, in memberIDs order.
//
// The ledger cell L[a][b] is the amount a owes b. Expenses increment
// L[debtor][payer] for every unpaid non-payer split; settlements decrement
// L[paidBy][receivedBy] and may drive a cell negative, which the netting
// pass resolves. Pairs are netted in lexicographic member-ID order so that
// after netting at most one of L[a][b], L[b][a] is nonzero.
//
// Splits or settlements referencing users outside memberIDs are skipped;
// this is a read path, not a ledger of record.
//
// The sum of all TotalBalance values is zero within floating tolerance:
// every debit has a matching credit.
func CalculateGroupLedger(memberIDs []string, expenses []*models.Expense, settlements []*models.Settlement) []MemberLedger {
	totals := make(map[string]float64, len(memberIDs))
	ledger := make(map[string]map[string]float64, len(memberIDs))
	for _, a := range memberIDs {
		totals[a] = 0
		ledger[a] = make(map[string]float64, len(memberIDs)-1)
		for _, b := range memberIDs {
			if a != b {
				ledger[a][b] = 0
			}
		}
	}
	member := func(id string) bool { _, ok := totals[id]; return ok }

	for _, e := range expenses {
		payer := e.PaidByUserID
		if !member(payer) {
			continue
		}
		for _, s := range e.Splits {
			if s.UserID == payer || s.Paid || !member(s.UserID) {
				continue
			}
			totals[payer] += s.Amount
			totals[s.UserID] -= s.Amount
			ledger[s.UserID][payer] += s.Amount
		}
	}

	for _, s := range settlements {
		if !member(s.PaidByUserID) || !member(s.ReceivedByUserID) {
			continue
		}
		totals[s.PaidByUserID] += s.Amount
		totals[s.ReceivedByUserID] -= s.Amount
		ledger[s.PaidByUserID][s.ReceivedByUserID] -= s.Amount
	}

	// Netting pass: collapse bidirectional debts to a single direction per
	// unordered pair. Lexicographic ordering keeps the pass stable.
	sorted := append([]string(nil), memberIDs...)
	sort.Strings(sorted)
	for i, a := range sorted {
		for _, b := range sorted[i+1:] {
			diff := ledger[a][b] - ledger[b][a]
			switch {
			case diff > 0:
				ledger[a][b] = diff
				ledger[b][a] = 0
			case diff < 0:
				ledger[b][a] = -diff
				ledger[a][b] = 0
			default:
				ledger[a][b] = 0
				ledger[b][a] = 0
			}
		}
	}

	out := make([]MemberLedger, len(memberIDs))
	for i, m := range memberIDs {
		ml := MemberLedger{UserID: m, TotalBalance: totals[m]}
		for _, b := range sorted {
			if b == m {
				continue
			}
			if amt := ledger[m][b]; amt > 0 {
				ml.Owes = append(ml.Owes, DebtTo{To: b, Amount: amt})
			}
			if amt := ledger[b][m]; amt > 0 {
				ml.OwedBy = append(ml.OwedBy, DebtFrom{From: b, Amount: amt})
			}
		}
		out[i] = ml
	}
	return out
}

// MemberNetBalance computes a single member's net balance in a group:
// positive means the group owes the member. Settlements not involving the
// member are ignored, as are paid and self splits.
func MemberNetBalance(expenses []*models.Expense, settlements []*models.Settlement, userID string) float64 {
	var balance float64

	for _, e := range expenses {
		if e.PaidByUserID == userID {
			for _, s := range e.Splits {
				if s.UserID != userID && !s.Paid {
					balance += s.Amount
				}
			}
		} else if mine := e.SplitFor(userID); mine != nil && !mine.Paid {
			balance -= mine.Amount
		}
	}

	for _, s := range settlements {
		if s.PaidByUserID == userID {
			balance += s.Amount
		} else if s.ReceivedByUserID == userID {
			balance -= s.Amount
		}
	}

	return balance
}
