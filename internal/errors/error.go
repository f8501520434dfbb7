package errors

import (
	"errors"
)

var (
	ErrEmptyAuth        = errors.New("missing authorization")
	ErrTokenInvalid     = errors.New("invalid token")
	// Inactive services are reported as not found on purpose, a caller
	// cannot distinguish "hidden" from "missing".
	ErrServiceNotFound  = errors.New("service not found")
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email is already registered")
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrCategoryNotFound = errors.New("category not found")
)
