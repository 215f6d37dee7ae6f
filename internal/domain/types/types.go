package types

// ServiceName labels logs and metrics emitted by this service.
const ServiceName = "parking-api"

// VehicleCategory is the closed set of vehicle categories known to the rate table.
type VehicleCategory string

const (
	CategoryCompact    VehicleCategory = "COMPACT"
	CategoryMotorcycle VehicleCategory = "MOTORCYCLE"
	CategoryHeavy      VehicleCategory = "HEAVY"
)

func (c VehicleCategory) String() string {
	return string(c)
}

// VehicleCategories lists every valid category, in rate-table order.
func VehicleCategories() []VehicleCategory {
	return []VehicleCategory{CategoryCompact, CategoryMotorcycle, CategoryHeavy}
}

func IsValidVehicleCategory(c string) bool {
	switch VehicleCategory(c) {
	case CategoryCompact, CategoryMotorcycle, CategoryHeavy:
		return true
	default:
		return false
	}
}

// SessionStatus is the parking session state machine:
// ACTIVE -> COMPLETED (complete) or ACTIVE -> CANCELLED (cancel), both terminal.
type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
)

func (s SessionStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is allowed from s.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// PaymentMethod enumerates the accepted payment instruments.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "CASH"
	PaymentCard          PaymentMethod = "CARD"
	PaymentDigitalWallet PaymentMethod = "DIGITAL_WALLET"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func IsValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PaymentCash, PaymentCard, PaymentDigitalWallet:
		return true
	default:
		return false
	}
}

// PaymentStatus of a payment record. Payments are synthesized at session
// completion and never updated, so COMPLETED is the only status written.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// UserRole forms a total order USER < OPERATOR < ADMIN; route guards compare
// levels instead of matching role strings.
type UserRole string

const (
	RoleUser     UserRole = "USER"
	RoleOperator UserRole = "OPERATOR"
	RoleAdmin    UserRole = "ADMIN"
)

func (r UserRole) String() string {
	return string(r)
}

// Level returns the position of the role in the hierarchy. Unknown roles sit
// below USER so a corrupted role value never grants access.
func (r UserRole) Level() int {
	switch r {
	case RoleUser:
		return 1
	case RoleOperator:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r sits at or above the required role.
func (r UserRole) AtLeast(required UserRole) bool {
	return r.Level() >= required.Level()
}

func IsValidUserRole(r string) bool {
	switch UserRole(r) {
	case RoleUser, RoleOperator, RoleAdmin:
		return true
	default:
		return false
	}
}

// UserStatus of an account.
type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)
