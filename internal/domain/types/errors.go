package types

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleInactive    = errors.New("vehicle is deactivated")
	ErrPlateAlreadyExists = errors.New("vehicle with this plate already exists")

	ErrSessionNotFound        = errors.New("parking session not found")
	ErrSessionNotActive       = errors.New("parking session is not active")
	ErrDuplicateActiveSession = errors.New("vehicle already has an active parking session")
	ErrExitBeforeEntry        = errors.New("exit time must not be before entry time")

	ErrPaymentNotFound = errors.New("payment not found")

	ErrNotFound = errors.New("requested item not found")
)
