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

// SettlementService records settlements and serves the pre-settlement
// context views. A settlement is a plain directed payment record: it never
// mutates expense splits, the balance math nets it out instead.
type SettlementService struct {
	store storage.Store
	cache cache.Cache
}

func NewSettlementService(store storage.Store, c cache.Cache) *SettlementService {
	return &SettlementService{store: store, cache: c}
}

// CreateSettlementInput carries everything needed to record a settlement.
type CreateSettlementInput struct {
	Amount            float64
	Note              string
	Date              int64
	PaidByUserID      string
	ReceivedByUserID  string
	GroupID           string
	RelatedExpenseIDs []string
}

// CreateSettlement validates and records a settlement.
//
// Rules enforced here:
//   - amount is positive
//   - payer and receiver differ
//   - the acting user is the payer or the receiver
//   - for group settlements, both parties are group members
//
// Overpayment is allowed: a settlement larger than the outstanding debt
// flips the direction of the pair's net balance.
func (s *SettlementService) CreateSettlement(ctx context.Context, actorID string, input CreateSettlementInput) (*models.Settlement, error) {
	if input.Amount <= 0 {
		return nil, validationErrorf("amount must be positive")
	}
	if input.PaidByUserID == input.ReceivedByUserID {
		return nil, validationErrorf("payer and receiver must be different users")
	}
	if actorID != input.PaidByUserID && actorID != input.ReceivedByUserID {
		return nil, authorizationErrorf("you must be a party to the settlement")
	}

	if input.GroupID != "" {
		group, err := s.store.GetGroup(ctx, input.GroupID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundErrorf("group %s not found", input.GroupID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get group: %w", err)
		}
		if !group.IsMember(input.PaidByUserID) || !group.IsMember(input.ReceivedByUserID) {
			return nil, validationErrorf("both parties must be group members")
		}
	} else {
		users, err := s.store.GetUsersByIDs(ctx, []string{input.PaidByUserID, input.ReceivedByUserID})
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parties: %w", err)
		}
		for _, id := range []string{input.PaidByUserID, input.ReceivedByUserID} {
			if _, ok := users[id]; !ok {
				return nil, notFoundErrorf("user %s does not exist", id)
			}
		}
	}

	settlement := &models.Settlement{
		Amount:            input.Amount,
		Note:              input.Note,
		Date:              input.Date,
		PaidByUserID:      input.PaidByUserID,
		ReceivedByUserID:  input.ReceivedByUserID,
		GroupID:           input.GroupID,
		RelatedExpenseIDs: input.RelatedExpenseIDs,
		CreatedBy:         actorID,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	if settlement.GroupID != "" {
		s.cache.Delete(ctx, cache.GroupLedgerKey(settlement.GroupID))
	} else {
		s.cache.Delete(ctx, cache.UserBalanceKey(settlement.PaidByUserID))
		s.cache.Delete(ctx, cache.UserBalanceKey(settlement.ReceivedByUserID))
	}

	slog.Info("settlement created", "settlement_id", settlement.ID,
		"amount", settlement.Amount, "group_id", settlement.GroupID)
	return settlement, nil
}

// UserSettlementContext is the pre-settlement view against one counterparty.
type UserSettlementContext struct {
	Counterparty CounterpartyDetail `json:"counterparty"`
	// NetBalance is from the actor's view: positive means the
	// counterparty owes the actor.
	NetBalance float64 `json:"netBalance"`
}

// GroupSettlementContext is the pre-settlement view for one group.
type GroupSettlementContext struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
	// Balances holds each other member's net against the actor:
	// positive means that member owes the actor.
	Balances []CounterpartyDetail `json:"balances"`
}

// GetUserSettlementContext returns who owes whom between the acting user
// and one counterparty, for prefilling a settlement.
func (s *SettlementService) GetUserSettlementContext(ctx context.Context, actorID, otherID string) (*UserSettlementContext, error) {
	other, err := s.store.GetUserByID(ctx, otherID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundErrorf("user %s not found", otherID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	expenses, err := s.store.ListPersonalExpenses(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	settlements, err := s.store.ListPersonalSettlements(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
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

	return &UserSettlementContext{
		Counterparty: CounterpartyDetail{
			UserID:   other.ID,
			Name:     other.Name,
			ImageURL: other.ImageURL,
		},
		NetBalance: calculator.CounterpartyNet(pairExpenses, pairSettlements, actorID, otherID),
	}, nil
}

// GetGroupSettlementContext returns each other member's net against the
// acting user within one group, for prefilling a group settlement.
func (s *SettlementService) GetGroupSettlementContext(ctx context.Context, actorID, groupID string) (*GroupSettlementContext, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundErrorf("group %s not found", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if !group.IsMember(actorID) {
		return nil, authorizationErrorf("you are not a member of this group")
	}

	expenses, err := s.store.ListGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	settlements, err := s.store.ListGroupSettlements(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	users, err := s.store.GetUsersByIDs(ctx, group.MemberIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve members: %w", err)
	}

	ledgers := calculator.CalculateGroupLedger(group.MemberIDs(), expenses, settlements)
	var actorLedger *calculator.MemberLedger
	for i := range ledgers {
		if ledgers[i].UserID == actorID {
			actorLedger = &ledgers[i]
			break
		}
	}

	balances := make([]CounterpartyDetail, 0, len(group.Members)-1)
	for _, m := range group.Members {
		if m.UserID == actorID {
			continue
		}
		detail := CounterpartyDetail{UserID: m.UserID, Name: "Unknown"}
		if u, ok := users[m.UserID]; ok {
			detail.Name = u.Name
			detail.ImageURL = u.ImageURL
		}
		if actorLedger != nil {
			for _, owed := range actorLedger.OwedBy {
				if owed.From == m.UserID {
					detail.Amount = owed.Amount
				}
			}
			for _, owes := range actorLedger.Owes {
				if owes.To == m.UserID {
					detail.Amount = -owes.Amount
				}
			}
		}
		balances = append(balances, detail)
	}

	return &GroupSettlementContext{
		GroupID:  group.ID,
		Name:     group.Name,
		Balances: balances,
	}, nil
}
