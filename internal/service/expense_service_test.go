package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mkale/splitledger/internal/models"
)

func TestCreateExpenseValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	base := func() CreateExpenseInput {
		return CreateExpenseInput{
			Description:  "Dinner",
			Amount:       20.0,
			PaidByUserID: alice.ID,
			SplitType:    models.SplitEqual,
			Splits: []models.Split{
				{UserID: alice.ID, Amount: 10.0, Paid: true},
				{UserID: bob.ID, Amount: 10.0},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*CreateExpenseInput)
	}{
		{"empty description", func(in *CreateExpenseInput) { in.Description = "" }},
		{"zero amount", func(in *CreateExpenseInput) { in.Amount = 0 }},
		{"negative amount", func(in *CreateExpenseInput) { in.Amount = -5 }},
		{"no splits", func(in *CreateExpenseInput) { in.Splits = nil }},
		{"duplicate participant", func(in *CreateExpenseInput) {
			in.Splits = append(in.Splits, models.Split{UserID: bob.ID, Amount: 0})
		}},
		{"payer not a participant", func(in *CreateExpenseInput) {
			in.Splits = in.Splits[1:]
			in.Amount = 10.0
			// payer alice holds no split now
		}},
		{"splits do not add up", func(in *CreateExpenseInput) {
			in.Splits[1].Amount = 5.0
		}},
		{"negative split amount", func(in *CreateExpenseInput) {
			in.Splits[1].Amount = -10.0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base()
			tt.mutate(&input)
			_, err := env.expenses.CreateExpense(ctx, alice.ID, input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	t.Run("unknown participant reports not found", func(t *testing.T) {
		input := base()
		input.Splits[1].UserID = "ghost"
		_, err := env.expenses.CreateExpense(ctx, alice.ID, input)
		var nerr *NotFoundError
		if !errors.As(err, &nerr) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

func TestCreateExpenseMarksPayerPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	expense, err := env.expenses.CreateExpense(ctx, alice.ID, CreateExpenseInput{
		Description:  "Dinner",
		Amount:       20.0,
		PaidByUserID: alice.ID,
		SplitType:    models.SplitEqual,
		Splits: []models.Split{
			{UserID: alice.ID, Amount: 10.0}, // not marked paid by the client
			{UserID: bob.ID, Amount: 10.0},
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	stored, err := env.store.GetExpense(ctx, expense.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	payerSplit := stored.SplitFor(alice.ID)
	if payerSplit == nil || !payerSplit.Paid {
		t.Error("payer's split should be stored paid")
	}
	if stored.CreatedBy != alice.ID {
		t.Errorf("CreatedBy should be the acting user, got %s", stored.CreatedBy)
	}
}

func TestCreateExpenseGroupMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	outsider := env.seedUser(t, "mallory")
	group := env.seedGroup(t, alice, "Roommates", bob)

	input := CreateExpenseInput{
		Description:  "Rent",
		Amount:       100.0,
		PaidByUserID: alice.ID,
		SplitType:    models.SplitEqual,
		GroupID:      group.ID,
		Splits: []models.Split{
			{UserID: alice.ID, Amount: 50.0, Paid: true},
			{UserID: bob.ID, Amount: 50.0},
		},
	}

	t.Run("non-member actor rejected", func(t *testing.T) {
		_, err := env.expenses.CreateExpense(ctx, outsider.ID, input)
		var aerr *AuthorizationError
		if !errors.As(err, &aerr) {
			t.Errorf("expected AuthorizationError, got %v", err)
		}
	})

	t.Run("non-member participant rejected", func(t *testing.T) {
		bad := input
		bad.Splits = []models.Split{
			{UserID: alice.ID, Amount: 50.0, Paid: true},
			{UserID: outsider.ID, Amount: 50.0},
		}
		_, err := env.expenses.CreateExpense(ctx, alice.ID, bad)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("missing group reports not found", func(t *testing.T) {
		bad := input
		bad.GroupID = "no-such-group"
		_, err := env.expenses.CreateExpense(ctx, alice.ID, bad)
		var nerr *NotFoundError
		if !errors.As(err, &nerr) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("member actor accepted", func(t *testing.T) {
		if _, err := env.expenses.CreateExpense(ctx, alice.ID, input); err != nil {
			t.Errorf("CreateExpense failed: %v", err)
		}
	})
}

func TestDeleteExpenseAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")

	create := func(t *testing.T) *models.Expense {
		t.Helper()
		expense, err := env.expenses.CreateExpense(ctx, carol.ID, CreateExpenseInput{
			Description:  "Taxi",
			Amount:       30.0,
			PaidByUserID: alice.ID,
			SplitType:    models.SplitEqual,
			Splits: []models.Split{
				{UserID: alice.ID, Amount: 10.0, Paid: true},
				{UserID: bob.ID, Amount: 10.0},
				{UserID: carol.ID, Amount: 10.0},
			},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		return expense
	}

	t.Run("participant who is neither creator nor payer rejected", func(t *testing.T) {
		expense := create(t)
		err := env.expenses.DeleteExpense(ctx, bob.ID, expense.ID)
		var aerr *AuthorizationError
		if !errors.As(err, &aerr) {
			t.Errorf("expected AuthorizationError, got %v", err)
		}
	})

	t.Run("payer can delete", func(t *testing.T) {
		expense := create(t)
		if err := env.expenses.DeleteExpense(ctx, alice.ID, expense.ID); err != nil {
			t.Errorf("payer delete failed: %v", err)
		}
	})

	t.Run("creator can delete", func(t *testing.T) {
		expense := create(t)
		if err := env.expenses.DeleteExpense(ctx, carol.ID, expense.ID); err != nil {
			t.Errorf("creator delete failed: %v", err)
		}
	})

	t.Run("missing expense reports not found", func(t *testing.T) {
		err := env.expenses.DeleteExpense(ctx, alice.ID, "no-such-expense")
		var nerr *NotFoundError
		if !errors.As(err, &nerr) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

// Deleting an expense drops its contribution from every derived balance on
// the next read, with no compensating adjustment left behind.
func TestDeleteExpenseRecomputesBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	first, err := env.expenses.CreateExpense(ctx, alice.ID, CreateExpenseInput{
		Description:  "Dinner",
		Amount:       30.0,
		PaidByUserID: alice.ID,
		SplitType:    models.SplitEqual,
		Splits:       equalSplits(30.0, alice, bob),
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := env.expenses.CreateExpense(ctx, alice.ID, CreateExpenseInput{
		Description:  "Coffee",
		Amount:       10.0,
		PaidByUserID: alice.ID,
		SplitType:    models.SplitEqual,
		Splits:       equalSplits(10.0, alice, bob),
	}); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	before, err := env.dashboards.GetUserBalances(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetUserBalances failed: %v", err)
	}
	if math.Abs(before.YouAreOwed-20.0) > 1e-9 {
		t.Fatalf("expected alice owed 20 before delete, got %f", before.YouAreOwed)
	}

	if err := env.expenses.DeleteExpense(ctx, alice.ID, first.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	after, err := env.dashboards.GetUserBalances(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetUserBalances failed: %v", err)
	}
	if math.Abs(after.YouAreOwed-5.0) > 1e-9 {
		t.Errorf("expected alice owed 5 after delete, got %f", after.YouAreOwed)
	}
	if len(after.OwedByOthers) != 1 || after.OwedByOthers[0].UserID != bob.ID {
		t.Errorf("expected a single counterparty entry for bob, got %v", after.OwedByOthers)
	}
}

func TestGetExpensesBetweenUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")

	if _, err := env.expenses.CreateExpense(ctx, alice.ID, CreateExpenseInput{
		Description:  "Lunch",
		Amount:       20.0,
		PaidByUserID: alice.ID,
		SplitType:    models.SplitEqual,
		Splits:       equalSplits(20.0, alice, bob),
	}); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := env.expenses.CreateExpense(ctx, alice.ID, CreateExpenseInput{
		Description:  "Movie",
		Amount:       16.0,
		PaidByUserID: alice.ID,
		SplitType:    models.SplitEqual,
		Splits:       equalSplits(16.0, alice, carol),
	}); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	expenses, settlements, net, err := env.expenses.GetExpensesBetweenUsers(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetExpensesBetweenUsers failed: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Description != "Lunch" {
		t.Errorf("expected only the shared lunch expense, got %v", expenses)
	}
	if len(settlements) != 0 {
		t.Errorf("expected no settlements, got %d", len(settlements))
	}
	if math.Abs(net-10.0) > 1e-9 {
		t.Errorf("expected bob to owe alice 10, got %f", net)
	}

	if _, _, _, err := env.expenses.GetExpensesBetweenUsers(ctx, alice.ID, alice.ID); err == nil {
		t.Error("expected error querying expenses with yourself")
	}
}

// A shared expense with a third participant shows up in the pair's history,
// but only the counterparty's own share counts toward the pair net.
func TestGetExpensesBetweenUsersThirdParty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")

	if _, err := env.expenses.CreateExpense(ctx, alice.ID, CreateExpenseInput{
		Description:  "Dinner",
		Amount:       30.0,
		PaidByUserID: alice.ID,
		SplitType:    models.SplitEqual,
		Splits:       equalSplits(30.0, alice, bob, carol),
	}); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	expenses, _, net, err := env.expenses.GetExpensesBetweenUsers(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetExpensesBetweenUsers failed: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected the shared dinner in the pair history, got %d expenses", len(expenses))
	}
	if math.Abs(net-10.0) > 1e-9 {
		t.Errorf("expected bob to owe alice only his 10 share, got %f", net)
	}

	// Carol's side of the same expense nets independently.
	_, _, carolNet, err := env.expenses.GetExpensesBetweenUsers(ctx, alice.ID, carol.ID)
	if err != nil {
		t.Fatalf("GetExpensesBetweenUsers failed: %v", err)
	}
	if math.Abs(carolNet-10.0) > 1e-9 {
		t.Errorf("expected carol to owe alice 10, got %f", carolNet)
	}
}
