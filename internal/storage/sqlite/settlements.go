package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkale/splitledger/internal/models"
)

const settlementColumns = "id, amount, note, date, paid_by_user_id, received_by_user_id, group_id, created_by, created_at"

// CreateSettlement persists a settlement and its related-expense links
// in one transaction.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.Date == 0 {
		settlement.Date = settlement.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.Amount, nullable(settlement.Note),
		settlement.Date, settlement.PaidByUserID, settlement.ReceivedByUserID,
		nullable(settlement.GroupID), settlement.CreatedBy, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	for i, expenseID := range settlement.RelatedExpenseIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO settlement_related_expenses (settlement_id, expense_id, position) VALUES (?, ?, ?)`,
			settlement.ID, expenseID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert related expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListPersonalSettlements retrieves all non-group settlements where userID
// is the payer or the receiver, newest first.
func (s *SQLiteStore) ListPersonalSettlements(ctx context.Context, userID string) ([]*models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE group_id IS NULL AND (paid_by_user_id = ? OR received_by_user_id = ?)
		 ORDER BY date DESC`,
		userID, userID)
}

// ListGroupSettlements retrieves all settlements of one group, newest first.
func (s *SQLiteStore) ListGroupSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE group_id = ? ORDER BY date DESC`,
		groupID)
}

func (s *SQLiteStore) querySettlements(ctx context.Context, query string, args ...any) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		st := &models.Settlement{}
		var note, groupID sql.NullString
		err := rows.Scan(
			&st.ID, &st.Amount, &note, &st.Date,
			&st.PaidByUserID, &st.ReceivedByUserID, &groupID,
			&st.CreatedBy, &st.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		st.Note = fromNull(note)
		st.GroupID = fromNull(groupID)
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	for _, st := range settlements {
		if err := s.loadRelatedExpenses(ctx, st); err != nil {
			return nil, err
		}
	}
	return settlements, nil
}

func (s *SQLiteStore) loadRelatedExpenses(ctx context.Context, settlement *models.Settlement) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id FROM settlement_related_expenses WHERE settlement_id = ? ORDER BY position`,
		settlement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get related expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		if err := rows.Scan(&expenseID); err != nil {
			return fmt.Errorf("failed to scan related expense: %w", err)
		}
		settlement.RelatedExpenseIDs = append(settlement.RelatedExpenseIDs, expenseID)
	}
	return rows.Err()
}
