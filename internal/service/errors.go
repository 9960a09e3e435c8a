package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for failures that carry no extra data.
var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

// InvalidInputError reports a malformed or empty required field.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is empty", e.Field)
}

// InsufficientBalanceError carries the amount the user is short by.
type InsufficientBalanceError struct {
	Shortfall int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("not enough balance, you need %d more", e.Shortfall)
}

// OutOfStockError names the product whose stock cannot cover the request.
type OutOfStockError struct {
	Product string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %s is out of stock, please remove it from cart", e.Product)
}

// PersistenceError wraps a failed storage write. Fatal for the request,
// never retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("something went wrong, when %s", e.Op)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
