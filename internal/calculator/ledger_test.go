package calculator

import (
	"math"
	"testing"

	"github.com/mkale/splitledger/internal/models"
)

func groupExpense(payer string, amount float64, splits ...models.Split) *models.Expense {
	e := personalExpense(payer, amount, splits...)
	e.GroupID = "g1"
	return e
}

func ledgerFor(t *testing.T, ledgers []MemberLedger, userID string) MemberLedger {
	t.Helper()
	for _, l := range ledgers {
		if l.UserID == userID {
			return l
		}
	}
	t.Fatalf("no ledger entry for %s", userID)
	return MemberLedger{}
}

func owesAmount(l MemberLedger, to string) float64 {
	for _, d := range l.Owes {
		if d.To == to {
			return d.Amount
		}
	}
	return 0
}

func owedByAmount(l MemberLedger, from string) float64 {
	for _, d := range l.OwedBy {
		if d.From == from {
			return d.Amount
		}
	}
	return 0
}

// assertLedgerInvariants checks the zero-sum and mutual-exclusion
// invariants that must hold after every netting pass.
func assertLedgerInvariants(t *testing.T, ledgers []MemberLedger) {
	t.Helper()

	var sum float64
	for _, l := range ledgers {
		sum += l.TotalBalance
	}
	if math.Abs(sum) > 1e-6 {
		t.Errorf("total balances sum to %v, want 0 (zero-sum invariant)", sum)
	}

	for _, a := range ledgers {
		for _, d := range a.Owes {
			b := ledgerFor(t, ledgers, d.To)
			if owesAmount(b, a.UserID) > 0 {
				t.Errorf("mutual debt between %s and %s after netting", a.UserID, d.To)
			}
			if math.Abs(owedByAmount(b, a.UserID)-d.Amount) > 1e-9 {
				t.Errorf("asymmetric ledger: %s owes %s %v but reverse view shows %v",
					a.UserID, d.To, d.Amount, owedByAmount(b, a.UserID))
			}
		}
	}
}

func TestCalculateGroupLedgerTwoExpenses(t *testing.T) {
	members := []string{"A", "B", "C"}
	expenses := []*models.Expense{
		// A pays 60, equal split 20 each.
		groupExpense("A", 60,
			models.Split{UserID: "A", Amount: 20, Paid: true},
			models.Split{UserID: "B", Amount: 20},
			models.Split{UserID: "C", Amount: 20},
		),
		// B pays 30, equal split 10 each.
		groupExpense("B", 30,
			models.Split{UserID: "A", Amount: 10},
			models.Split{UserID: "B", Amount: 10, Paid: true},
			models.Split{UserID: "C", Amount: 10},
		),
	}

	ledgers := CalculateGroupLedger(members, expenses, nil)
	assertLedgerInvariants(t, ledgers)

	a := ledgerFor(t, ledgers, "A")
	b := ledgerFor(t, ledgers, "B")
	c := ledgerFor(t, ledgers, "C")

	// A is owed 40 (exp1) and owes 10 (exp2): net +30.
	if math.Abs(a.TotalBalance-30) > 1e-9 {
		t.Errorf("A total = %v, want 30", a.TotalBalance)
	}
	// B is owed 20 (exp2) and owes 20 (exp1): net 0.
	if math.Abs(b.TotalBalance) > 1e-9 {
		t.Errorf("B total = %v, want 0", b.TotalBalance)
	}
	// C owes 20 + 10: net -30.
	if math.Abs(c.TotalBalance+30) > 1e-9 {
		t.Errorf("C total = %v, want -30", c.TotalBalance)
	}

	// B owed A 20, A owed B 10: pairwise collapse leaves B owing A 10.
	if math.Abs(owesAmount(b, "A")-10) > 1e-9 {
		t.Errorf("B owes A %v, want 10", owesAmount(b, "A"))
	}
	if owesAmount(a, "B") != 0 {
		t.Errorf("A owes B %v, want 0 after netting", owesAmount(a, "B"))
	}

	// C's debts stay independent: 20 to A, 10 to B.
	if math.Abs(owesAmount(c, "A")-20) > 1e-9 {
		t.Errorf("C owes A %v, want 20", owesAmount(c, "A"))
	}
	if math.Abs(owesAmount(c, "B")-10) > 1e-9 {
		t.Errorf("C owes B %v, want 10", owesAmount(c, "B"))
	}
}

func TestCalculateGroupLedgerSettlementReducesDebt(t *testing.T) {
	members := []string{"A", "B", "C"}
	expenses := []*models.Expense{
		groupExpense("A", 60,
			models.Split{UserID: "A", Amount: 20, Paid: true},
			models.Split{UserID: "B", Amount: 20},
			models.Split{UserID: "C", Amount: 20},
		),
		groupExpense("B", 30,
			models.Split{UserID: "A", Amount: 10},
			models.Split{UserID: "B", Amount: 10, Paid: true},
			models.Split{UserID: "C", Amount: 10},
		),
	}
	settlements := []*models.Settlement{
		{Amount: 10, PaidByUserID: "C", ReceivedByUserID: "A", GroupID: "g1"},
	}

	ledgers := CalculateGroupLedger(members, expenses, settlements)
	assertLedgerInvariants(t, ledgers)

	a := ledgerFor(t, ledgers, "A")
	c := ledgerFor(t, ledgers, "C")

	if math.Abs(owedByAmount(a, "C")-10) > 1e-9 {
		t.Errorf("A owed by C = %v, want 10 after settlement", owedByAmount(a, "C"))
	}
	if math.Abs(owesAmount(c, "A")-10) > 1e-9 {
		t.Errorf("C owes A %v, want 10 after settlement", owesAmount(c, "A"))
	}
	if math.Abs(c.TotalBalance+20) > 1e-9 {
		t.Errorf("C total = %v, want -20", c.TotalBalance)
	}
}

func TestCalculateGroupLedgerSettlementOvershootFlipsDirection(t *testing.T) {
	members := []string{"A", "B"}
	expenses := []*models.Expense{
		groupExpense("A", 20,
			models.Split{UserID: "A", Amount: 10, Paid: true},
			models.Split{UserID: "B", Amount: 10},
		),
	}
	// B settles 25 against a 10 debt: B is now owed 15.
	settlements := []*models.Settlement{
		{Amount: 25, PaidByUserID: "B", ReceivedByUserID: "A", GroupID: "g1"},
	}

	ledgers := CalculateGroupLedger(members, expenses, settlements)
	assertLedgerInvariants(t, ledgers)

	a := ledgerFor(t, ledgers, "A")
	b := ledgerFor(t, ledgers, "B")

	if math.Abs(owesAmount(a, "B")-15) > 1e-9 {
		t.Errorf("A owes B %v, want 15 after overshoot", owesAmount(a, "B"))
	}
	if len(b.Owes) != 0 {
		t.Errorf("B should owe nothing, got %+v", b.Owes)
	}
}

func TestCalculateGroupLedgerCircularDebtsNet(t *testing.T) {
	members := []string{"A", "B"}
	expenses := []*models.Expense{
		groupExpense("A", 20,
			models.Split{UserID: "A", Amount: 10, Paid: true},
			models.Split{UserID: "B", Amount: 10},
		),
		groupExpense("B", 20,
			models.Split{UserID: "A", Amount: 10},
			models.Split{UserID: "B", Amount: 10, Paid: true},
		),
	}

	ledgers := CalculateGroupLedger(members, expenses, nil)
	assertLedgerInvariants(t, ledgers)

	for _, l := range ledgers {
		if len(l.Owes) != 0 || len(l.OwedBy) != 0 {
			t.Errorf("equal opposing debts should cancel, got %+v", l)
		}
		if l.TotalBalance != 0 {
			t.Errorf("%s total = %v, want 0", l.UserID, l.TotalBalance)
		}
	}
}

func TestCalculateGroupLedgerSkipsNonMembers(t *testing.T) {
	members := []string{"A", "B"}
	expenses := []*models.Expense{
		groupExpense("A", 30,
			models.Split{UserID: "A", Amount: 10, Paid: true},
			models.Split{UserID: "B", Amount: 10},
			models.Split{UserID: "ghost", Amount: 10},
		),
	}

	ledgers := CalculateGroupLedger(members, expenses, nil)
	assertLedgerInvariants(t, ledgers)

	a := ledgerFor(t, ledgers, "A")
	if math.Abs(a.TotalBalance-10) > 1e-9 {
		t.Errorf("A total = %v, want 10 (ghost split skipped)", a.TotalBalance)
	}
}

func TestMemberNetBalance(t *testing.T) {
	expenses := []*models.Expense{
		groupExpense("A", 60,
			models.Split{UserID: "A", Amount: 20, Paid: true},
			models.Split{UserID: "B", Amount: 20},
			models.Split{UserID: "C", Amount: 20},
		),
	}
	settlements := []*models.Settlement{
		{Amount: 10, PaidByUserID: "B", ReceivedByUserID: "A", GroupID: "g1"},
		{Amount: 5, PaidByUserID: "C", ReceivedByUserID: "B", GroupID: "g1"},
	}

	// A: owed 40, received 10 -> +30. Settlement C->B does not involve A.
	if got := MemberNetBalance(expenses, settlements, "A"); math.Abs(got-30) > 1e-9 {
		t.Errorf("A net = %v, want 30", got)
	}
	// B: owes 20, paid 10, received 5 -> -15.
	if got := MemberNetBalance(expenses, settlements, "B"); math.Abs(got+15) > 1e-9 {
		t.Errorf("B net = %v, want -15", got)
	}
}
