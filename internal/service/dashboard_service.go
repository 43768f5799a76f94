package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkale/splitledger/internal/cache"
	"github.com/mkale/splitledger/internal/calculator"
	"github.com/mkale/splitledger/internal/models"
	"github.com/mkale/splitledger/internal/storage"
)

// DashboardService serves the personal aggregate views: net balances across
// all one-on-one activity, spending totals and per-group standing.
type DashboardService struct {
	store storage.Store
	cache cache.Cache
}

func NewDashboardService(store storage.Store, c cache.Cache) *DashboardService {
	return &DashboardService{store: store, cache: c}
}

// CounterpartyDetail is one counterparty entry with resolved display fields.
type CounterpartyDetail struct {
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Amount   float64 `json:"amount"`
}

// BalanceSummary is the personal balance view for one user.
type BalanceSummary struct {
	YouOwe       float64              `json:"youOwe"`
	YouAreOwed   float64              `json:"youAreOwed"`
	TotalBalance float64              `json:"totalBalance"`
	YouOweTo     []CounterpartyDetail `json:"youOweTo"`
	OwedByOthers []CounterpartyDetail `json:"owedByOthers"`
}

// GroupSummary is one group with the acting user's net standing in it.
type GroupSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Members     int     `json:"members"`
	Balance     float64 `json:"balance"` // positive = group owes the user
}

// GetUserBalances computes the acting user's personal balance across all
// non-group expenses and settlements. The result is cached; any write
// touching the user invalidates it.
func (s *DashboardService) GetUserBalances(ctx context.Context, userID string) (*BalanceSummary, error) {
	key := cache.UserBalanceKey(userID)
	var cached BalanceSummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	expenses, err := s.store.ListPersonalExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	settlements, err := s.store.ListPersonalSettlements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	balance := calculator.CalculatePersonalBalance(expenses, settlements, userID)

	counterpartyIDs := make([]string, 0, len(balance.YouOweTo)+len(balance.OwedByOthers))
	for _, c := range balance.YouOweTo {
		counterpartyIDs = append(counterpartyIDs, c.UserID)
	}
	for _, c := range balance.OwedByOthers {
		counterpartyIDs = append(counterpartyIDs, c.UserID)
	}
	users, err := s.store.GetUsersByIDs(ctx, counterpartyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve counterparties: %w", err)
	}

	summary := &BalanceSummary{
		YouOwe:       balance.YouOwe,
		YouAreOwed:   balance.YouAreOwed,
		TotalBalance: balance.TotalBalance,
		YouOweTo:     resolveCounterparties(balance.YouOweTo, users),
		OwedByOthers: resolveCounterparties(balance.OwedByOthers, users),
	}

	s.cache.Set(ctx, key, summary)
	slog.Debug("personal balance computed", "user_id", userID,
		"expenses", len(expenses), "settlements", len(settlements))
	return summary, nil
}

// resolveCounterparties attaches display fields to raw balance entries.
// Counterparties whose user record is gone keep their entry with a
// placeholder name: the money is still owed.
func resolveCounterparties(balances []calculator.CounterpartyBalance, users map[string]*models.User) []CounterpartyDetail {
	details := make([]CounterpartyDetail, len(balances))
	for i, b := range balances {
		detail := CounterpartyDetail{UserID: b.UserID, Name: "Unknown", Amount: b.Amount}
		if u, ok := users[b.UserID]; ok {
			detail.Name = u.Name
			detail.ImageURL = u.ImageURL
		}
		details[i] = detail
	}
	return details
}

// GetTotalSpent sums the acting user's own share of expenses dated in the
// current calendar year, personal and group alike.
func (s *DashboardService) GetTotalSpent(ctx context.Context, userID string) (float64, error) {
	yearStart := time.Date(time.Now().UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	expenses, err := s.store.ListUserExpensesSince(ctx, userID, yearStart)
	if err != nil {
		return 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	return calculator.TotalSpent(expenses, userID), nil
}

// GetMonthlySpending returns the acting user's own spending per month of
// the current year, zero-filled for months without expenses.
func (s *DashboardService) GetMonthlySpending(ctx context.Context, userID string) ([]calculator.MonthlyTotal, error) {
	year := time.Now().UTC().Year()
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	expenses, err := s.store.ListUserExpensesSince(ctx, userID, yearStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return calculator.MonthlySpending(expenses, userID, year), nil
}

// GetUserGroups lists the acting user's groups with their net standing in
// each, computed from that group's full expense and settlement history.
func (s *DashboardService) GetUserGroups(ctx context.Context, userID string) ([]GroupSummary, error) {
	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	summaries := make([]GroupSummary, 0, len(groups))
	for _, group := range groups {
		expenses, err := s.store.ListGroupExpenses(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list expenses for group %s: %w", group.ID, err)
		}
		settlements, err := s.store.ListGroupSettlements(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list settlements for group %s: %w", group.ID, err)
		}

		summaries = append(summaries, GroupSummary{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			Members:     len(group.Members),
			Balance:     calculator.MemberNetBalance(expenses, settlements, userID),
		})
	}
	return summaries, nil
}
