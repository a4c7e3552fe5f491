package services

import "errors"

var (
	ErrBadCreds        = errors.New("invalid email or password")
	ErrUnauthenticated = errors.New("you are not logged in")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrInvalidInput    = errors.New("invalid input")

	ErrEmptyCart   = errors.New("cart is empty")
	ErrOutOfStock  = errors.New("insufficient stock")
	ErrCartChanged = errors.New("cart changed while the order was being placed")
)
