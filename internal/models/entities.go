package models

import (
	"time"
)

// Payment status lifecycle for a registration.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusInitiated = "INITIATED"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusCancelled = "CANCELLED"
)

// Event represents a festival edition
type Event struct {
	ID                    int64      `json:"id" db:"id"`
	Name                  string     `json:"name" db:"name"`
	Year                  int        `json:"year" db:"year"`
	StartDate             time.Time  `json:"start_date" db:"start_date"`
	EndDate               time.Time  `json:"end_date" db:"end_date"`
	RegistrationOpenDate  *time.Time `json:"registration_open_date" db:"registration_open_date"`
	RegistrationCloseDate *time.Time `json:"registration_close_date" db:"registration_close_date"`
	Venue                 string     `json:"venue" db:"venue"`
	IsActive              bool       `json:"is_active" db:"is_active"`
	IsCurrent             bool       `json:"is_current" db:"is_current"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// RegistrationOpen reports whether public registration is open at now.
func (e *Event) RegistrationOpen(now time.Time) bool {
	if !e.IsActive {
		return false
	}
	if e.RegistrationOpenDate != nil && now.Before(*e.RegistrationOpenDate) {
		return false
	}
	if e.RegistrationCloseDate != nil && now.After(*e.RegistrationCloseDate) {
		return false
	}
	return true
}

// GalaTable represents a gala dinner table with an optional early-bird window
type GalaTable struct {
	TableNumber      int        `json:"table_number" db:"table_number"`
	Price            int64      `json:"price" db:"price"`
	EarlyBirdPrice   int64      `json:"early_bird_price" db:"early_bird_price"`
	EarlyBirdEndDate *time.Time `json:"early_bird_end_date" db:"early_bird_end_date"`
	Seats            int        `json:"seats" db:"seats"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Addon represents a purchasable extra. Kind is the explicit variant tag
// (simple | sized | transport); Sizes is only set for sized addons.
type Addon struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Price       int64     `json:"price" db:"price"`
	Description *string   `json:"description" db:"description"`
	Kind        string    `json:"kind" db:"kind"`
	Sizes       []string  `json:"sizes,omitempty" db:"sizes"`
	Icon        *string   `json:"icon,omitempty" db:"icon"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Workshop represents a workshop with capacity tracking
type Workshop struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Level     string    `json:"level" db:"level"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Enrolled  int       `json:"enrolled" db:"enrolled"`
	Price     int64     `json:"price" db:"price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PersonInfo is the personal data block for one registrant
type PersonInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Country   string `json:"country,omitempty"`
}

// AddonLine is one persisted simple/transport addon selection
type AddonLine struct {
	AddonID  string            `json:"addon_id"`
	Quantity int               `json:"quantity"`
	Options  map[string]string `json:"options,omitempty"`
}

// SizedAddonLine is one persisted (addon, size) selection
type SizedAddonLine struct {
	AddonID  string `json:"addon_id"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// Registration is the frozen copy of a submitted selection. Immutable after
// submission except for payment status transitions.
type Registration struct {
	ID             int64            `json:"id" db:"id"`
	Reference      string           `json:"reference" db:"reference"`
	EventID        int64            `json:"event_id" db:"event_id"`
	Role           string           `json:"role" db:"role"`
	PackageType    string           `json:"package_type" db:"package_type"`
	LeaderInfo     *PersonInfo      `json:"leader_info,omitempty" db:"leader_info"`
	FollowerInfo   *PersonInfo      `json:"follower_info,omitempty" db:"follower_info"`
	Addons         []AddonLine      `json:"addons" db:"addons"`
	SizedAddons    []SizedAddonLine `json:"sized_addons" db:"sized_addons"`
	TableNumber    *int             `json:"table_number" db:"table_number"`
	WantsWorkshops *bool            `json:"wants_workshops" db:"wants_workshops"`
	WorkshopIDs    []string         `json:"workshop_ids" db:"workshop_ids"`
	AddonsTotal    int64            `json:"addons_total" db:"addons_total"`
	SeatCharge     int64            `json:"seat_charge" db:"seat_charge"`
	TotalAmount    int64            `json:"total_amount" db:"total_amount"`
	PaymentStatus  string           `json:"payment_status" db:"payment_status"`
	PaymentMethod  *string          `json:"payment_method" db:"payment_method"`
	PaymentID      *string          `json:"payment_id,omitempty" db:"payment_id"`
	OrderID        *string          `json:"order_id,omitempty" db:"order_id"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// SeatingLayout stores the admin canvas document for an event. The document
// is opaque to the API; only the layout editor interprets it.
type SeatingLayout struct {
	EventID   int64     `json:"event_id" db:"event_id"`
	Document  []byte    `json:"document" db:"document"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AdminUser represents a dashboard operator. Tokens are issued by the
// identity provider; a token is only accepted if its subject resolves to an
// active row here.
type AdminUser struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
