package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mkale/splitledger/internal/models"
	"github.com/mkale/splitledger/internal/storage"
)

// ContactService manages explicit contact records and the derived contact
// list. The derived list is computed from shared activity, not from the
// contact records: anyone you split a personal expense with, and every
// group you belong to, shows up.
type ContactService struct {
	store storage.Store
}

func NewContactService(store storage.Store) *ContactService {
	return &ContactService{store: store}
}

// ContactUser is one person entry in the derived contact list.
type ContactUser struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ContactGroup is one group entry in the derived contact list.
type ContactGroup struct {
	GroupID     string `json:"groupId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"memberCount"`
}

// ContactList is the combined derived contact view, both parts sorted by
// name.
type ContactList struct {
	Users  []ContactUser  `json:"users"`
	Groups []ContactGroup `json:"groups"`
}

// GetAllContacts derives the acting user's contact list from personal
// expense history and group memberships.
func (s *ContactService) GetAllContacts(ctx context.Context, actorID string) (*ContactList, error) {
	expenses, err := s.store.ListPersonalExpenses(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	idSet := make(map[string]bool)
	for _, e := range expenses {
		if e.PaidByUserID != actorID {
			idSet[e.PaidByUserID] = true
		}
		for _, split := range e.Splits {
			if split.UserID != actorID {
				idSet[split.UserID] = true
			}
		}
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve contacts: %w", err)
	}

	contactUsers := make([]ContactUser, 0, len(users))
	for _, u := range users {
		contactUsers = append(contactUsers, ContactUser{
			UserID:   u.ID,
			Name:     u.Name,
			Email:    u.Email,
			ImageURL: u.ImageURL,
		})
	}
	sort.Slice(contactUsers, func(i, j int) bool {
		if contactUsers[i].Name != contactUsers[j].Name {
			return contactUsers[i].Name < contactUsers[j].Name
		}
		return contactUsers[i].UserID < contactUsers[j].UserID
	})

	groups, err := s.store.ListGroupsByMember(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	contactGroups := make([]ContactGroup, len(groups))
	for i, g := range groups {
		contactGroups[i] = ContactGroup{
			GroupID:     g.ID,
			Name:        g.Name,
			Description: g.Description,
			MemberCount: len(g.Members),
		}
	}
	sort.Slice(contactGroups, func(i, j int) bool {
		if contactGroups[i].Name != contactGroups[j].Name {
			return contactGroups[i].Name < contactGroups[j].Name
		}
		return contactGroups[i].GroupID < contactGroups[j].GroupID
	})

	return &ContactList{Users: contactUsers, Groups: contactGroups}, nil
}

// AddContact creates a pending relationship between the acting user and
// another user. Both directed edges are written together.
func (s *ContactService) AddContact(ctx context.Context, actorID, otherID, connectionType string) error {
	if actorID == otherID {
		return validationErrorf("cannot add yourself as a contact")
	}
	if _, err := s.store.GetUserByID(ctx, otherID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFoundErrorf("user %s not found", otherID)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if _, err := s.store.GetContact(ctx, actorID, otherID); err == nil {
		return validationErrorf("contact already exists")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check contact: %w", err)
	}

	now := time.Now().Unix()
	forward := &models.Contact{
		UserID:              actorID,
		ContactID:           otherID,
		Status:              models.ContactPending,
		ConnectionType:      connectionType,
		ConnectionDate:      now,
		LastInteractionDate: now,
	}
	reverse := &models.Contact{
		UserID:              otherID,
		ContactID:           actorID,
		Status:              models.ContactPending,
		ConnectionType:      connectionType,
		ConnectionDate:      now,
		LastInteractionDate: now,
	}
	if err := s.store.CreateContactPair(ctx, forward, reverse); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	slog.Info("contact added", "user_id", actorID, "contact_id", otherID)
	return nil
}

// AcceptContact marks both directions of a relationship accepted. Only the
// recipient side of a pending request may accept it.
func (s *ContactService) AcceptContact(ctx context.Context, actorID, otherID string) error {
	contact, err := s.store.GetContact(ctx, actorID, otherID)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundErrorf("contact not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if contact.Status != models.ContactPending {
		return validationErrorf("contact is not pending")
	}

	if err := s.store.UpdateContactPairStatus(ctx, actorID, otherID, models.ContactAccepted); err != nil {
		return fmt.Errorf("failed to accept contact: %w", err)
	}
	return nil
}

// BlockContact blocks the acting user's own edge only; the other side keeps
// its current status.
func (s *ContactService) BlockContact(ctx context.Context, actorID, otherID string) error {
	err := s.store.UpdateContactStatus(ctx, actorID, otherID, models.ContactBlocked)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundErrorf("contact not found")
	}
	if err != nil {
		return fmt.Errorf("failed to block contact: %w", err)
	}
	return nil
}

// ListContactRecords returns the acting user's own directed contact edges.
func (s *ContactService) ListContactRecords(ctx context.Context, actorID string) ([]*models.Contact, error) {
	contacts, err := s.store.ListContacts(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}
