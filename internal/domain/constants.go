package domain

// Default pagination values
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Business validation constants
const (
	MaxProductNameLength  = 200
	MaxDescriptionLength  = 2000
	MaxDiscountNameLength = 100
	MaxRangesPerRequest   = 50
)

// Capability names, приходящие в заголовке X-User-Capabilities
const (
	CapManageProducts = "manageProducts"
	CapManageRentals  = "manageRentals"
)
