package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dunefest/internal/models"
	"dunefest/internal/pricing"
	"dunefest/internal/repository"
)

// quoteTestService builds a registration service over a pre-loaded snapshot
// and no database. Quoting never leaves the snapshot, so this exercises the
// real request-to-quote path.
func quoteTestService(snap *pricing.Snapshot) *RegistrationService {
	repos := &repository.Repositories{}
	catalog := NewCatalogService(repos, nil, nil, nil, time.Second)
	catalog.snapshot.Store(snap)
	return NewRegistrationService(repos, catalog, nil, nil, nil)
}

func quoteTestSnapshot(now time.Time) *pricing.Snapshot {
	addons := []pricing.Addon{
		{ID: "desert-transport", Name: "Desert Transport", Price: 120, Kind: pricing.AddonTransport},
		{ID: "video", Name: "Video Package", Price: 150, Kind: pricing.AddonSimple},
	}
	packagePrices := map[pricing.PackageType]int64{
		pricing.PackageFull: 1200,
	}
	return pricing.NewSnapshot(now, nil, addons, nil, packagePrices)
}

func TestQuoteDerivesTransportQuantityFromRole(t *testing.T) {
	svc := quoteTestService(quoteTestSnapshot(time.Now()))

	// The wire quantity is untrusted for transport addons; any positive
	// value means checked and the charged quantity follows the role.
	req := &models.QuoteRequest{
		Role:        "couple",
		PackageType: "full",
		Addons:      []models.AddonLine{{AddonID: "desert-transport", Quantity: 5}},
	}

	resp, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(240), resp.Quote.AddonsTotal, "couple pays for two seats, not five")
	assert.Equal(t, int64(1440), resp.Quote.Total)

	req.Role = "leader"
	resp, err = svc.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(120), resp.Quote.AddonsTotal)
}

func TestQuoteLeavesSimpleQuantitiesAlone(t *testing.T) {
	svc := quoteTestService(quoteTestSnapshot(time.Now()))

	req := &models.QuoteRequest{
		Role:        "leader",
		PackageType: "full",
		Addons:      []models.AddonLine{{AddonID: "video", Quantity: 3}},
	}

	resp, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(450), resp.Quote.AddonsTotal)
}

func TestQuoteRejectsUnknownRole(t *testing.T) {
	svc := quoteTestService(quoteTestSnapshot(time.Now()))

	_, err := svc.Quote(context.Background(), &models.QuoteRequest{
		Role:        "spectator",
		PackageType: "full",
	})
	assert.Error(t, err)
}
