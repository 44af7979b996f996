package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dunefest/internal/pricing"
)

// FlexibleBool accepts boolean values encoded as bool, string or number,
// which the dashboard and older wizard builds send interchangeably.
type FlexibleBool bool

// UnmarshalJSON supports parsing booleans from strings, numbers and booleans
func (fb *FlexibleBool) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)

	switch strings.ToLower(str) {
	case "true", "1", "yes", "on":
		*fb = true
	case "false", "0", "no", "off":
		*fb = false
	default:
		return fmt.Errorf("invalid boolean value: %s", str)
	}
	return nil
}

// Bool returns the bool value
func (fb FlexibleBool) Bool() bool {
	return bool(fb)
}

// Package is a catalog row carrying the base price for a package type
type Package struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Price       int64     `json:"price" db:"price"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// WorkshopResponse is a workshop with its derived availability
type WorkshopResponse struct {
	Workshop
	SpotsLeft  int  `json:"spots_left"`
	Selectable bool `json:"selectable"`
}

// NewWorkshopResponse derives availability from the entity
func NewWorkshopResponse(w Workshop) WorkshopResponse {
	pw := pricing.Workshop{Capacity: w.Capacity, Enrolled: w.Enrolled}
	return WorkshopResponse{
		Workshop:   w,
		SpotsLeft:  pw.SpotsLeft(),
		Selectable: pw.Selectable(),
	}
}

// CatalogResponse is the public catalog document the wizard fetches once per
// session and then refreshes on an interval.
type CatalogResponse struct {
	Event     *Event             `json:"event"`
	Packages  []Package          `json:"packages"`
	Tables    []GalaTable        `json:"tables"`
	Addons    []Addon            `json:"addons"`
	Workshops []WorkshopResponse `json:"workshops"`
	TakenAt   time.Time          `json:"taken_at"`
}

// QuoteRequest is the wizard's in-progress selection sent for pricing
type QuoteRequest struct {
	Role           string            `json:"role" binding:"required"`
	PackageType    string            `json:"package_type" binding:"required"`
	Addons         []AddonLine       `json:"addons"`
	SizedAddons    []SizedAddonLine  `json:"sized_addons"`
	TableNumber    *int              `json:"table_number"`
	WantsWorkshops *FlexibleBool     `json:"wants_workshops"`
	WorkshopIDs    []string          `json:"workshop_ids"`
	Options        map[string]string `json:"options,omitempty"`
}

// Selection converts the request into the engine's selection state. Sized
// entries are folded through the merge/clamp rules so duplicate or
// non-positive rows coming off the wire can never survive into pricing.
func (r *QuoteRequest) Selection() *pricing.Selection {
	sel := &pricing.Selection{
		Role:        pricing.Role(r.Role),
		PackageType: pricing.PackageType(r.PackageType),
		TableNumber: r.TableNumber,
	}
	for _, a := range r.Addons {
		sel.SetSimpleQuantity(a.AddonID, a.Quantity)
		if len(a.Options) > 0 {
			for i := range sel.Addons {
				if sel.Addons[i].AddonID == a.AddonID {
					sel.Addons[i].Options = a.Options
				}
			}
		}
	}
	for _, s := range r.SizedAddons {
		sel.AdjustSized(s.AddonID, s.Size, s.Quantity)
	}
	if r.WantsWorkshops != nil {
		if r.WantsWorkshops.Bool() {
			sel.Workshops = pricing.ChoiceWants
		} else {
			sel.Workshops = pricing.ChoiceDeclines
		}
	}
	for _, id := range r.WorkshopIDs {
		sel.AddWorkshop(id)
	}
	return sel
}

// QuoteResponse wraps the computed quote with the snapshot timestamp so
// clients can tell which catalog state priced it.
type QuoteResponse struct {
	Quote      pricing.Quote `json:"quote"`
	CanAdvance bool          `json:"can_advance"`
	TakenAt    time.Time     `json:"taken_at"`
}

// SubmitRegistrationRequest is the final wizard submission. Any totals the
// client computed along the way are deliberately absent: the server
// recomputes from the live catalog.
type SubmitRegistrationRequest struct {
	QuoteRequest
	LeaderInfo    *PersonInfo `json:"leader_info"`
	FollowerInfo  *PersonInfo `json:"follower_info"`
	PaymentMethod string      `json:"payment_method"`
}

// SubmitRegistrationResponse returns the assigned id plus the authoritative
// quote the server charged.
type SubmitRegistrationResponse struct {
	ID        int64         `json:"id"`
	Reference string        `json:"reference"`
	Quote     pricing.Quote `json:"quote"`
}

// CreateEventRequest - model for creating a festival edition
type CreateEventRequest struct {
	Name                  string     `json:"name" binding:"required"`
	Year                  int        `json:"year" binding:"required"`
	StartDate             time.Time  `json:"start_date" binding:"required"`
	EndDate               time.Time  `json:"end_date" binding:"required"`
	RegistrationOpenDate  *time.Time `json:"registration_open_date"`
	RegistrationCloseDate *time.Time `json:"registration_close_date"`
	Venue                 string     `json:"venue"`
	IsActive              *FlexibleBool `json:"is_active"`
}

// CreateEventResponse - response model for event creation
type CreateEventResponse struct {
	ID int64 `json:"id"`
}

// UpsertTableRequest - model for creating or updating a gala table
type UpsertTableRequest struct {
	TableNumber      int        `json:"table_number" binding:"required"`
	Price            int64      `json:"price" binding:"required"`
	EarlyBirdPrice   int64      `json:"early_bird_price"`
	EarlyBirdEndDate *time.Time `json:"early_bird_end_date"`
	Seats            int        `json:"seats"`
}

// UpsertAddonRequest - model for creating or updating an addon
type UpsertAddonRequest struct {
	ID          string   `json:"id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Price       int64    `json:"price"`
	Description *string  `json:"description"`
	Kind        string   `json:"kind"`
	Sizes       []string `json:"sizes"`
	Icon        *string  `json:"icon"`
}

// UpsertWorkshopRequest - model for creating or updating a workshop
type UpsertWorkshopRequest struct {
	ID       string `json:"id" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Level    string `json:"level"`
	Capacity int    `json:"capacity" binding:"required"`
	Price    int64  `json:"price"`
}

// UpdatePackageRequest - model for repricing a package
type UpdatePackageRequest struct {
	Name        string  `json:"name"`
	Price       int64   `json:"price" binding:"required"`
	Description *string `json:"description"`
}

// SeatingLayoutRequest carries the opaque canvas document. The server only
// checks it is valid JSON before storing it.
type SeatingLayoutRequest struct {
	Document json.RawMessage `json:"document" binding:"required"`
}

// RegistrationSearchItem is one row of the admin registration search
type RegistrationSearchItem struct {
	ID            int64     `json:"id"`
	Reference     string    `json:"reference"`
	Role          string    `json:"role"`
	PackageType   string    `json:"package_type"`
	LeaderName    string    `json:"leader_name,omitempty"`
	FollowerName  string    `json:"follower_name,omitempty"`
	Email         string    `json:"email,omitempty"`
	TotalAmount   int64     `json:"total_amount"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// RegistrationSearchResponse - admin search result page
type RegistrationSearchResponse struct {
	Total int64                    `json:"total"`
	Items []RegistrationSearchItem `json:"items"`
}

// PaymentNotificationPayload - webhook payload from the payment gateway
type PaymentNotificationPayload struct {
	PaymentID string                 `json:"paymentId"`
	Status    string                 `json:"status"`
	OrderID   string                 `json:"orderId"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}
