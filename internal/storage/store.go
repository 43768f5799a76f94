// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mkale/splitledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence interface for the application.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Balances are never persisted: the read methods return raw expense and
// settlement records, and every balance is derived from them on each query.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. IDs that do not
	// resolve are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// UpdateUserProfile syncs the display name and avatar of a user.
	UpdateUserProfile(ctx context.Context, id, name, imageURL string) error

	// CreateContactPair inserts both directed edges of a contact
	// relationship in a single transaction.
	CreateContactPair(ctx context.Context, forward, reverse *models.Contact) error

	// GetContact retrieves the directed edge from userID to contactID.
	GetContact(ctx context.Context, userID, contactID string) (*models.Contact, error)

	// ListContacts retrieves all directed edges owned by userID.
	ListContacts(ctx context.Context, userID string) ([]*models.Contact, error)

	// UpdateContactPairStatus updates the status of both directions of a
	// relationship in a single transaction.
	UpdateContactPairStatus(ctx context.Context, userID, contactID string, status models.ContactStatus) error

	// UpdateContactStatus updates the status of the single directed edge
	// from userID to contactID.
	UpdateContactStatus(ctx context.Context, userID, contactID string, status models.ContactStatus) error

	// CreateGroup persists a new group with its embedded member list.
	// The group.ID field will be populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID including its member list.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember retrieves all groups userID belongs to.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// CreateExpense persists a new expense with its splits.
	// The expense.ID field will be populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID including its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListPersonalExpenses retrieves all expenses with no group where
	// userID is the payer or appears in the splits, newest first.
	ListPersonalExpenses(ctx context.Context, userID string) ([]*models.Expense, error)

	// ListGroupExpenses retrieves all expenses of one group, newest first.
	ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListUserExpensesSince retrieves every expense (personal or group)
	// dated at or after since where userID is payer or split participant.
	ListUserExpensesSince(ctx context.Context, userID string, since int64) ([]*models.Expense, error)

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a new settlement.
	// The settlement.ID field will be populated by the store.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListPersonalSettlements retrieves all settlements with no group where
	// userID is the payer or the receiver, newest first.
	ListPersonalSettlements(ctx context.Context, userID string) ([]*models.Settlement, error)

	// ListGroupSettlements retrieves all settlements of one group, newest
	// first.
	ListGroupSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
