package models

import "time"

// NATS subjects
const (
	SubjectRegistrationCreated   = "registration.created"
	SubjectRegistrationCancelled = "registration.cancelled"
	SubjectPaymentInitiated      = "payment.initiated"
	SubjectPaymentCompleted      = "payment.completed"
	SubjectPaymentFailed         = "payment.failed"
	SubjectEventCurrentChanged   = "event.current_changed"
	SubjectCatalogUpdated        = "catalog.updated"
)

// RegistrationCreatedEvent is published after a registration is persisted
type RegistrationCreatedEvent struct {
	RegistrationID int64     `json:"registration_id"`
	Reference      string    `json:"reference"`
	EventID        int64     `json:"event_id"`
	PackageType    string    `json:"package_type"`
	Role           string    `json:"role"`
	TotalAmount    int64     `json:"total_amount"`
	Timestamp      time.Time `json:"timestamp"`
}

// RegistrationCancelledEvent is published when a registration is cancelled
// (expired payment or admin action)
type RegistrationCancelledEvent struct {
	RegistrationID int64     `json:"registration_id"`
	EventID        int64     `json:"event_id"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}

// PaymentInitiatedEvent is published when a payment is started at the gateway
type PaymentInitiatedEvent struct {
	RegistrationID int64     `json:"registration_id"`
	TotalAmount    int64     `json:"total_amount"`
	PaymentID      string    `json:"payment_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// PaymentCompletedEvent is published on a confirmed gateway payment
type PaymentCompletedEvent struct {
	RegistrationID int64     `json:"registration_id"`
	PaymentID      string    `json:"payment_id"`
	OrderID        string    `json:"order_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// PaymentFailedEvent is published on a rejected or cancelled gateway payment
type PaymentFailedEvent struct {
	RegistrationID int64     `json:"registration_id"`
	PaymentID      string    `json:"payment_id"`
	OrderID        string    `json:"order_id"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventCurrentChangedEvent is published when the admin flips the current flag
type EventCurrentChangedEvent struct {
	EventID   int64     `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CatalogUpdatedEvent is published when any catalog entity is mutated.
// Nothing refreshes on receipt; the mutating process rebuilds its own
// snapshot synchronously and every other replica converges on its next
// poll tick. The event is an audit trail of what changed and when.
type CatalogUpdatedEvent struct {
	Entity    string    `json:"entity"` // tables | addons | workshops | packages | events
	Timestamp time.Time `json:"timestamp"`
}
