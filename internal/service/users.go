package service

import (
	"context"
	"errors"

	"storefront-service/internal/models"
	"storefront-service/internal/store"

	"github.com/google/uuid"
)

// UserRepository covers the user reads and writes.
type UserRepository interface {
	UserStore
	UpdateBalance(ctx context.Context, userID uuid.UUID, balance int64) error
	UpdateAddress(ctx context.Context, userID uuid.UUID, addressName, address, city, phoneNumber string) error
}

// UserService handles the user profile surface
type UserService struct {
	users UserRepository
}

// NewUserService creates a new user service
func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile retrieves the caller's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateAddress updates the caller's shipping address
func (s *UserService) UpdateAddress(ctx context.Context, userID uuid.UUID, addr ShippingAddress) error {
	if field := emptyAddressField(&addr); field != "" {
		return &InvalidInputError{Field: field}
	}

	err := s.users.UpdateAddress(ctx, userID, addr.AddressName, addr.Address, addr.City, addr.PhoneNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Op: "updating address", Err: err}
	}
	return nil
}

// SetBalance sets the caller's balance (top-up surface)
func (s *UserService) SetBalance(ctx context.Context, userID uuid.UUID, balance int64) error {
	if balance < 0 {
		return &InvalidInputError{Field: "balance", Message: "balance must not be negative"}
	}

	if err := s.users.UpdateBalance(ctx, userID, balance); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Op: "updating balance", Err: err}
	}
	return nil
}
