package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"dunefest/internal/repository"
	"dunefest/internal/search"
)

type Handlers struct {
	repos    *repository.Repositories
	esClient *search.ElasticsearchClient
}

func NewHandlers(repos *repository.Repositories, esClient *search.ElasticsearchClient) *Handlers {
	return &Handlers{
		repos:    repos,
		esClient: esClient,
	}
}

// registrationRef is the shared shape of every registration lifecycle
// event; only the id matters here.
type registrationRef struct {
	RegistrationID int64 `json:"registration_id"`
}

// reindexRegistration re-reads the row and overwrites its search document.
// Loading from Postgres rather than trusting the event payload means a
// replayed or out-of-order message still converges on the row's real state.
func (h *Handlers) reindexRegistration(registrationID int64) {
	ctx := context.Background()

	reg, err := h.repos.Registrations.GetByID(ctx, registrationID)
	if err != nil {
		slog.Error("Failed to load registration for indexing",
			"registration_id", registrationID, "error", err)
		return
	}
	if reg == nil {
		slog.Warn("Registration vanished before indexing", "registration_id", registrationID)
		return
	}

	doc := search.NewRegistrationDocument(reg)
	if err := h.esClient.IndexRegistration(ctx, doc); err != nil {
		slog.Error("Failed to index registration",
			"registration_id", registrationID, "error", err)
		return
	}

	slog.Info("Indexed registration", "registration_id", registrationID)
}

func (h *Handlers) handleLifecycleEvent(m *stan.Msg, eventName string) {
	var ref registrationRef
	if err := json.Unmarshal(m.Data, &ref); err != nil {
		slog.Error("Failed to unmarshal event", "subject", eventName, "error", err)
		return
	}

	h.reindexRegistration(ref.RegistrationID)
	m.Ack()
}

func (h *Handlers) HandleRegistrationCreated(m *stan.Msg) {
	h.handleLifecycleEvent(m, "registration.created")
}

func (h *Handlers) HandleRegistrationCancelled(m *stan.Msg) {
	h.handleLifecycleEvent(m, "registration.cancelled")
}

func (h *Handlers) HandlePaymentCompleted(m *stan.Msg) {
	h.handleLifecycleEvent(m, "payment.completed")
}

func (h *Handlers) HandlePaymentFailed(m *stan.Msg) {
	h.handleLifecycleEvent(m, "payment.failed")
}
