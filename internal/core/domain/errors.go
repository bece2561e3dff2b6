package domain

import "errors"

// Common domain errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Payment errors
var (
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentAlreadyProcessed = errors.New("payment has already been processed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidProcessAction    = errors.New("invalid process action")
)

// Employee errors
var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrUsernameTaken          = errors.New("username already exists")
	ErrSuperAdminExists       = errors.New("super admin already exists")
	ErrSuperAdminRequired     = errors.New("only the super admin can perform this action")
	ErrCannotDeleteSelf       = errors.New("cannot delete your own account")
	ErrCannotDeleteSuperAdmin = errors.New("the super admin cannot be deleted")
	ErrInvalidRole            = errors.New("invalid role")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountNumberTaken = errors.New("account number already registered")
	ErrOldPasswordWrong   = errors.New("old password is incorrect")
)
