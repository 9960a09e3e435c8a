package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"

	"github.com/google/uuid"
)

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DecrementBalance debits a user's balance
func (s *Store) DecrementBalance(ctx context.Context, userID uuid.UUID, amount int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET balance = balance - $1 WHERE id = $2", amount, userID)
	if err != nil {
		return fmt.Errorf("failed to decrement balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateBalance sets a user's balance
func (s *Store) UpdateBalance(ctx context.Context, userID uuid.UUID, balance int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET balance = $1 WHERE id = $2", balance, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAddress updates a user's shipping address fields
func (s *Store) UpdateAddress(ctx context.Context, userID uuid.UUID, addressName, address, city, phoneNumber string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET address_name = $1, address = $2, city = $3, phone_number = $4
		WHERE id = $5`,
		addressName, address, city, phoneNumber, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
