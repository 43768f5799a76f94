package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkale/splitledger/internal/models"
	"github.com/mkale/splitledger/internal/storage"
)

const contactColumns = "id, user_id, contact_id, status, connection_type, connection_date, last_interaction_date, notes"

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	var connType, notes sql.NullString
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.ContactID,
		&c.Status,
		&connType,
		&c.ConnectionDate,
		&c.LastInteractionDate,
		&notes,
	)
	if err != nil {
		return nil, err
	}
	c.ConnectionType = fromNull(connType)
	c.Notes = fromNull(notes)
	return c, nil
}

func insertContact(ctx context.Context, tx *sql.Tx, c *models.Contact) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO contacts (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.ContactID, c.Status,
		nullable(c.ConnectionType), c.ConnectionDate, c.LastInteractionDate,
		nullable(c.Notes),
	)
	return err
}

// CreateContactPair inserts both directed edges of a relationship in one
// transaction, so the two directions can never diverge on creation.
func (s *SQLiteStore) CreateContactPair(ctx context.Context, forward, reverse *models.Contact) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertContact(ctx, tx, forward); err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	if err := insertContact(ctx, tx, reverse); err != nil {
		return fmt.Errorf("failed to insert reverse contact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetContact retrieves the directed edge from userID to contactID.
func (s *SQLiteStore) GetContact(ctx context.Context, userID, contactID string) (*models.Contact, error) {
	c, err := scanContact(s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE user_id = ? AND contact_id = ?`,
		userID, contactID))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

// ListContacts retrieves all directed edges owned by userID.
func (s *SQLiteStore) ListContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE user_id = ? ORDER BY connection_date DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// UpdateContactPairStatus updates both directions of a relationship in one
// transaction.
func (s *SQLiteStore) UpdateContactPairStatus(ctx context.Context, userID, contactID string, status models.ContactStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, pair := range [][2]string{{userID, contactID}, {contactID, userID}} {
		res, err := tx.ExecContext(ctx,
			`UPDATE contacts SET status = ? WHERE user_id = ? AND contact_id = ?`,
			status, pair[0], pair[1])
		if err != nil {
			return fmt.Errorf("failed to update contact status: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return storage.ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateContactStatus updates a single directed edge.
func (s *SQLiteStore) UpdateContactStatus(ctx context.Context, userID, contactID string, status models.ContactStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET status = ? WHERE user_id = ? AND contact_id = ?`,
		status, userID, contactID)
	if err != nil {
		return fmt.Errorf("failed to update contact status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
