package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mkale/splitledger/internal/cache"
	"github.com/mkale/splitledger/internal/calculator"
	"github.com/mkale/splitledger/internal/models"
	"github.com/mkale/splitledger/internal/storage"
)

// ExpenseService records and removes expenses. Balances are never written:
// every mutation only touches the expense records and invalidates the
// derived views.
type ExpenseService struct {
	store storage.Store
	cache cache.Cache
}

func NewExpenseService(store storage.Store, c cache.Cache) *ExpenseService {
	return &ExpenseService{store: store, cache: c}
}

// CreateExpenseInput carries everything needed to record an expense.
// The acting user is passed separately and becomes CreatedBy.
type CreateExpenseInput struct {
	Description  string
	Amount       float64
	Category     string
	Date         int64
	PaidByUserID string
	SplitType    models.SplitType
	Splits       []models.Split
	GroupID      string
}

// CreateExpense validates and records an expense.
//
// Rules enforced here rather than in storage:
//   - amount is positive and the description non-empty
//   - every participant appears at most once in the splits
//   - split amounts sum to the expense amount within tolerance
//   - the payer holds a split and that split is marked and stored paid
//   - for group expenses, the actor, the payer and every participant are
//     group members
func (s *ExpenseService) CreateExpense(ctx context.Context, actorID string, input CreateExpenseInput) (*models.Expense, error) {
	if input.Description == "" {
		return nil, validationErrorf("description is required")
	}
	if input.Amount <= 0 {
		return nil, validationErrorf("amount must be positive")
	}
	if len(input.Splits) == 0 {
		return nil, validationErrorf("at least one split is required")
	}

	seen := make(map[string]bool, len(input.Splits))
	for _, split := range input.Splits {
		if split.Amount < 0 {
			return nil, validationErrorf("split amount for %s must not be negative", split.UserID)
		}
		if seen[split.UserID] {
			return nil, validationErrorf("participant %s appears more than once", split.UserID)
		}
		seen[split.UserID] = true
	}
	if !seen[input.PaidByUserID] {
		return nil, validationErrorf("payer must be one of the participants")
	}
	if !calculator.SplitTotalValid(input.Splits, input.Amount) {
		return nil, validationErrorf("split amounts do not add up to the expense amount")
	}

	if input.GroupID != "" {
		group, err := s.store.GetGroup(ctx, input.GroupID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundErrorf("group %s not found", input.GroupID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get group: %w", err)
		}
		if !group.IsMember(actorID) {
			return nil, authorizationErrorf("you are not a member of this group")
		}
		for _, split := range input.Splits {
			if !group.IsMember(split.UserID) {
				return nil, validationErrorf("participant %s is not a group member", split.UserID)
			}
		}
	} else {
		users, err := s.store.GetUsersByIDs(ctx, participantIDs(input.Splits))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve participants: %w", err)
		}
		for _, split := range input.Splits {
			if _, ok := users[split.UserID]; !ok {
				return nil, notFoundErrorf("participant %s does not exist", split.UserID)
			}
		}
	}

	splits := make([]models.Split, len(input.Splits))
	copy(splits, input.Splits)
	for i := range splits {
		if splits[i].UserID == input.PaidByUserID {
			// The payer never owes themselves.
			splits[i].Paid = true
		}
	}

	expense := &models.Expense{
		Description:  input.Description,
		Amount:       input.Amount,
		Category:     input.Category,
		Date:         input.Date,
		PaidByUserID: input.PaidByUserID,
		SplitType:    input.SplitType,
		Splits:       splits,
		GroupID:      input.GroupID,
		CreatedBy:    actorID,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.invalidate(ctx, expense)
	slog.Info("expense created", "expense_id", expense.ID,
		"amount", expense.Amount, "group_id", expense.GroupID)
	return expense, nil
}

// GetExpense returns an expense if the acting user participates in it or,
// for group expenses, belongs to the group.
func (s *ExpenseService) GetExpense(ctx context.Context, actorID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundErrorf("expense %s not found", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if expense.GroupID != "" {
		group, err := s.store.GetGroup(ctx, expense.GroupID)
		if err != nil {
			return nil, fmt.Errorf("failed to get group: %w", err)
		}
		if !group.IsMember(actorID) {
			return nil, authorizationErrorf("you do not have access to this expense")
		}
	} else if !expense.Involves(actorID) && expense.CreatedBy != actorID {
		return nil, authorizationErrorf("you do not have access to this expense")
	}
	return expense, nil
}

// DeleteExpense removes an expense. Only the user who recorded it or the
// user who paid it may delete it; related settlements are left untouched.
func (s *ExpenseService) DeleteExpense(ctx context.Context, actorID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundErrorf("expense %s not found", expenseID)
	}
	if err != nil {
		return fmt.Errorf("failed to get expense: %w", err)
	}

	if expense.CreatedBy != actorID && expense.PaidByUserID != actorID {
		return authorizationErrorf("only the creator or the payer can delete an expense")
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	s.invalidate(ctx, expense)
	slog.Info("expense deleted", "expense_id", expenseID, "user_id", actorID)
	return nil
}

// GetExpensesBetweenUsers returns the one-on-one history between the acting
// user and one counterparty: personal expenses involving both, and personal
// settlements between them, with the net against that counterparty from
// the actor's view.
func (s *ExpenseService) GetExpensesBetweenUsers(ctx context.Context, actorID, otherID string) ([]*models.Expense, []*models.Settlement, float64, error) {
	if actorID == otherID {
		return nil, nil, 0, validationErrorf("cannot query expenses with yourself")
	}

	expenses, err := s.store.ListPersonalExpenses(ctx, actorID)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	settlements, err := s.store.ListPersonalSettlements(ctx, actorID)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}

	var pairExpenses []*models.Expense
	for _, e := range expenses {
		if e.Involves(otherID) {
			pairExpenses = append(pairExpenses, e)
		}
	}
	var pairSettlements []*models.Settlement
	for _, st := range settlements {
		if st.Involves(otherID) {
			pairSettlements = append(pairSettlements, st)
		}
	}

	net := calculator.CounterpartyNet(pairExpenses, pairSettlements, actorID, otherID)
	return pairExpenses, pairSettlements, net, nil
}

// invalidate drops the cached views an expense write affects.
func (s *ExpenseService) invalidate(ctx context.Context, expense *models.Expense) {
	if expense.GroupID != "" {
		s.cache.Delete(ctx, cache.GroupLedgerKey(expense.GroupID))
		return
	}
	for _, split := range expense.Splits {
		s.cache.Delete(ctx, cache.UserBalanceKey(split.UserID))
	}
	s.cache.Delete(ctx, cache.UserBalanceKey(expense.PaidByUserID))
}

func participantIDs(splits []models.Split) []string {
	ids := make([]string, len(splits))
	for i, split := range splits {
		ids[i] = split.UserID
	}
	return ids
}
