package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkale/splitledger/internal/cache"
	"github.com/mkale/splitledger/internal/calculator"
	"github.com/mkale/splitledger/internal/models"
	"github.com/mkale/splitledger/internal/storage"
)

// GroupService manages groups and serves the group ledger view.
type GroupService struct {
	store storage.Store
	cache cache.Cache
}

func NewGroupService(store storage.Store, c cache.Cache) *GroupService {
	return &GroupService{store: store, cache: c}
}

// MemberDetail is one group member with resolved display fields.
type MemberDetail struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Role     string `json:"role"`
}

// GroupLedgerView is the full per-member netted ledger of one group.
type GroupLedgerView struct {
	GroupID string                    `json:"groupId"`
	Name    string                    `json:"name"`
	Members []MemberDetail            `json:"members"`
	Ledger  []calculator.MemberLedger `json:"ledger"`
}

// GroupExpensesView is the ledger plus the raw records it derives from.
type GroupExpensesView struct {
	GroupLedgerView
	Expenses    []*models.Expense    `json:"expenses"`
	Settlements []*models.Settlement `json:"settlements"`
}

// CreateGroup creates a group with the acting user as admin. Member IDs are
// deduplicated and must all resolve to existing users; the creator is
// always included even if absent from memberIDs.
func (s *GroupService) CreateGroup(ctx context.Context, actorID, name, description string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, validationErrorf("group name is required")
	}

	seen := map[string]bool{actorID: true}
	unique := []string{actorID}
	for _, id := range memberIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	users, err := s.store.GetUsersByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve members: %w", err)
	}
	for _, id := range unique {
		if _, ok := users[id]; !ok {
			return nil, notFoundErrorf("member %s does not exist", id)
		}
	}

	now := time.Now().Unix()
	members := make([]models.GroupMember, len(unique))
	for i, id := range unique {
		role := models.RoleMember
		if id == actorID {
			role = models.RoleAdmin
		}
		members[i] = models.GroupMember{UserID: id, Role: role, JoinedAt: now}
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		CreatedBy:   actorID,
		Members:     members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("group created", "group_id", group.ID, "members", len(members))
	return group, nil
}

// GetGroup returns the group if the acting user is a member.
func (s *GroupService) GetGroup(ctx context.Context, actorID, groupID string) (*models.Group, error) {
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
	return group, nil
}

// GetGroupLedger computes the netted pairwise debt ledger for a group.
// Existence is checked before membership, so a missing group reports not
// found rather than leaking through an authorization error. The view is
// cached per group and invalidated on every expense or settlement write.
func (s *GroupService) GetGroupLedger(ctx context.Context, actorID, groupID string) (*GroupLedgerView, error) {
	group, err := s.GetGroup(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	key := cache.GroupLedgerKey(groupID)
	var cached GroupLedgerView
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	view, err := s.buildLedgerView(ctx, group)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, view)
	return view, nil
}

// GetGroupExpenses returns the group ledger together with the raw expense
// and settlement records it was derived from.
func (s *GroupService) GetGroupExpenses(ctx context.Context, actorID, groupID string) (*GroupExpensesView, error) {
	group, err := s.GetGroup(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	view, err := s.buildLedgerView(ctx, group)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListGroupExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	settlements, err := s.store.ListGroupSettlements(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	return &GroupExpensesView{
		GroupLedgerView: *view,
		Expenses:        expenses,
		Settlements:     settlements,
	}, nil
}

func (s *GroupService) buildLedgerView(ctx context.Context, group *models.Group) (*GroupLedgerView, error) {
	expenses, err := s.store.ListGroupExpenses(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	settlements, err := s.store.ListGroupSettlements(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	users, err := s.store.GetUsersByIDs(ctx, group.MemberIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve members: %w", err)
	}

	members := make([]MemberDetail, len(group.Members))
	for i, m := range group.Members {
		detail := MemberDetail{UserID: m.UserID, Name: "Unknown", Role: m.Role}
		if u, ok := users[m.UserID]; ok {
			detail.Name = u.Name
			detail.ImageURL = u.ImageURL
		}
		members[i] = detail
	}

	return &GroupLedgerView{
		GroupID: group.ID,
		Name:    group.Name,
		Members: members,
		Ledger:  calculator.CalculateGroupLedger(group.MemberIDs(), expenses, settlements),
	}, nil
}
