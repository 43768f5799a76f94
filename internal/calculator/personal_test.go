package calculator

import (
	"math"
	"testing"

	"github.com/mkale/splitledger/internal/models"
)

func personalExpense(payer string, amount float64, splits ...models.Split) *models.Expense {
	return &models.Expense{
		Description:  "test expense",
		Amount:       amount,
		PaidByUserID: payer,
		SplitType:    models.SplitEqual,
		Splits:       splits,
	}
}

func TestCalculatePersonalBalancePayerSide(t *testing.T) {
	// A pays 30, equal split with B and C; A's own split is paid.
	expenses := []*models.Expense{
		personalExpense("A", 30,
			models.Split{UserID: "A", Amount: 10, Paid: true},
			models.Split{UserID: "B", Amount: 10},
			models.Split{UserID: "C", Amount: 10},
		),
	}

	got := CalculatePersonalBalance(expenses, nil, "A")

	if math.Abs(got.YouAreOwed-20) > 1e-9 {
		t.Errorf("YouAreOwed = %v, want 20", got.YouAreOwed)
	}
	if got.YouOwe != 0 {
		t.Errorf("YouOwe = %v, want 0", got.YouOwe)
	}
	if math.Abs(got.TotalBalance-20) > 1e-9 {
		t.Errorf("TotalBalance = %v, want 20", got.TotalBalance)
	}
	if len(got.OwedByOthers) != 2 {
		t.Fatalf("OwedByOthers has %d entries, want 2", len(got.OwedByOthers))
	}
	for _, cb := range got.OwedByOthers {
		if math.Abs(cb.Amount-10) > 1e-9 {
			t.Errorf("counterparty %s owes %v, want 10", cb.UserID, cb.Amount)
		}
	}
}

func TestCalculatePersonalBalanceDebtorSide(t *testing.T) {
	expenses := []*models.Expense{
		personalExpense("B", 40,
			models.Split{UserID: "B", Amount: 20, Paid: true},
			models.Split{UserID: "A", Amount: 20},
		),
	}

	got := CalculatePersonalBalance(expenses, nil, "A")

	if math.Abs(got.YouOwe-20) > 1e-9 {
		t.Errorf("YouOwe = %v, want 20", got.YouOwe)
	}
	if len(got.YouOweTo) != 1 || got.YouOweTo[0].UserID != "B" {
		t.Fatalf("YouOweTo = %+v, want single entry for B", got.YouOweTo)
	}
}

func TestCalculatePersonalBalanceSettlementReducesDebt(t *testing.T) {
	expenses := []*models.Expense{
		personalExpense("B", 40,
			models.Split{UserID: "B", Amount: 20, Paid: true},
			models.Split{UserID: "A", Amount: 20},
		),
	}
	settlements := []*models.Settlement{
		{Amount: 15, PaidByUserID: "A", ReceivedByUserID: "B"},
	}

	got := CalculatePersonalBalance(expenses, settlements, "A")

	if math.Abs(got.YouOwe-5) > 1e-9 {
		t.Errorf("YouOwe = %v, want 5", got.YouOwe)
	}
	if len(got.YouOweTo) != 1 || math.Abs(got.YouOweTo[0].Amount-5) > 1e-9 {
		t.Errorf("YouOweTo = %+v, want B:5", got.YouOweTo)
	}
}

func TestCalculatePersonalBalanceOverpaymentFlipsSign(t *testing.T) {
	// A owes B 20, then settles 30: the direction flips, it is not clamped.
	expenses := []*models.Expense{
		personalExpense("B", 40,
			models.Split{UserID: "B", Amount: 20, Paid: true},
			models.Split{UserID: "A", Amount: 20},
		),
	}
	settlements := []*models.Settlement{
		{Amount: 30, PaidByUserID: "A", ReceivedByUserID: "B"},
	}

	got := CalculatePersonalBalance(expenses, settlements, "A")

	if math.Abs(got.YouOwe-(-10)) > 1e-9 {
		t.Errorf("YouOwe = %v, want -10", got.YouOwe)
	}
	if len(got.YouOweTo) != 0 {
		t.Errorf("YouOweTo = %+v, want empty after sign flip", got.YouOweTo)
	}
	if len(got.OwedByOthers) != 1 || math.Abs(got.OwedByOthers[0].Amount-10) > 1e-9 {
		t.Errorf("OwedByOthers = %+v, want B:10", got.OwedByOthers)
	}
}

func TestCalculatePersonalBalanceZeroNetOmitted(t *testing.T) {
	expenses := []*models.Expense{
		personalExpense("A", 20,
			models.Split{UserID: "A", Amount: 10, Paid: true},
			models.Split{UserID: "B", Amount: 10},
		),
	}
	settlements := []*models.Settlement{
		{Amount: 10, PaidByUserID: "B", ReceivedByUserID: "A"},
	}

	got := CalculatePersonalBalance(expenses, settlements, "A")

	if got.TotalBalance != 0 {
		t.Errorf("TotalBalance = %v, want 0", got.TotalBalance)
	}
	if len(got.YouOweTo) != 0 || len(got.OwedByOthers) != 0 {
		t.Errorf("zero-net counterparty should be omitted, got %+v / %+v",
			got.YouOweTo, got.OwedByOthers)
	}
}

func TestCalculatePersonalBalanceIgnoresGroupRecords(t *testing.T) {
	group := personalExpense("B", 40,
		models.Split{UserID: "B", Amount: 20, Paid: true},
		models.Split{UserID: "A", Amount: 20},
	)
	group.GroupID = "g1"

	settlements := []*models.Settlement{
		{Amount: 5, PaidByUserID: "A", ReceivedByUserID: "B", GroupID: "g1"},
	}

	got := CalculatePersonalBalance([]*models.Expense{group}, settlements, "A")

	if got.YouOwe != 0 || got.YouAreOwed != 0 {
		t.Errorf("group records leaked into personal balance: %+v", got)
	}
}

func TestCalculatePersonalBalanceSortedByDescendingAmount(t *testing.T) {
	expenses := []*models.Expense{
		personalExpense("A", 10,
			models.Split{UserID: "A", Amount: 5, Paid: true},
			models.Split{UserID: "B", Amount: 5},
		),
		personalExpense("A", 60,
			models.Split{UserID: "A", Amount: 30, Paid: true},
			models.Split{UserID: "C", Amount: 30},
		),
	}

	got := CalculatePersonalBalance(expenses, nil, "A")

	if len(got.OwedByOthers) != 2 {
		t.Fatalf("OwedByOthers has %d entries, want 2", len(got.OwedByOthers))
	}
	if got.OwedByOthers[0].UserID != "C" || got.OwedByOthers[1].UserID != "B" {
		t.Errorf("expected C (30) before B (5), got %+v", got.OwedByOthers)
	}
}

func TestCalculatePersonalBalanceSkipsPaidSplits(t *testing.T) {
	expenses := []*models.Expense{
		personalExpense("A", 30,
			models.Split{UserID: "A", Amount: 10, Paid: true},
			models.Split{UserID: "B", Amount: 10, Paid: true}, // settled out-of-band
			models.Split{UserID: "C", Amount: 10},
		),
	}

	got := CalculatePersonalBalance(expenses, nil, "A")

	if math.Abs(got.YouAreOwed-10) > 1e-9 {
		t.Errorf("YouAreOwed = %v, want 10 (paid split excluded)", got.YouAreOwed)
	}
}

func TestCounterpartyNet(t *testing.T) {
	// A pays 30 three ways; B's share alone makes up the A<->B net even
	// though the expense also carries C's share.
	expenses := []*models.Expense{
		personalExpense("A", 30,
			models.Split{UserID: "A", Amount: 10, Paid: true},
			models.Split{UserID: "B", Amount: 10},
			models.Split{UserID: "C", Amount: 10},
		),
	}

	if net := CounterpartyNet(expenses, nil, "A", "B"); math.Abs(net-10) > 1e-9 {
		t.Errorf("net A<->B = %v, want 10", net)
	}
	if net := CounterpartyNet(expenses, nil, "B", "A"); math.Abs(net+10) > 1e-9 {
		t.Errorf("net B<->A = %v, want -10", net)
	}
	if net := CounterpartyNet(expenses, nil, "A", "D"); net != 0 {
		t.Errorf("net A<->D = %v, want 0 for a stranger", net)
	}

	settlements := []*models.Settlement{
		{Amount: 10, PaidByUserID: "B", ReceivedByUserID: "A"},
	}
	if net := CounterpartyNet(expenses, settlements, "A", "B"); math.Abs(net) > 1e-9 {
		t.Errorf("net A<->B after settlement = %v, want 0", net)
	}
	if net := CounterpartyNet(expenses, settlements, "A", "C"); math.Abs(net-10) > 1e-9 {
		t.Errorf("net A<->C = %v, want 10 untouched by B's settlement", net)
	}
}
