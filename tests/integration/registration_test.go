//go:build integration

package integration

import (
	"bytes"
	"testing"

	"dunefest/internal/models"
)

func TestQuoteFullPassLeader(t *testing.T) {
	client := newClientOrSkip(t)
	catalog := client.GetCatalog(t)

	full := findPackage(catalog, "full")
	if full == nil {
		t.Fatal("Catalog should list the full package")
	}

	quote := client.Quote(t, &models.QuoteRequest{
		Role:        "leader",
		PackageType: "full",
	})

	if quote.Quote.BasePrice != full.Price {
		t.Fatalf("Expected base price %d, got %d", full.Price, quote.Quote.BasePrice)
	}
	if quote.Quote.Total != full.Price {
		t.Fatalf("Expected total %d, got %d", full.Price, quote.Quote.Total)
	}
	if !quote.CanAdvance {
		t.Fatal("A bare full pass should clear the seating step")
	}
}

func TestQuoteAddonsRaiseTotal(t *testing.T) {
	client := newClientOrSkip(t)
	catalog := client.GetCatalog(t)

	full := findPackage(catalog, "full")
	video := findAddon(catalog, "video")
	if full == nil || video == nil {
		t.Skip("Seed catalog does not carry the full package and video addon")
	}

	quote := client.Quote(t, &models.QuoteRequest{
		Role:        "leader",
		PackageType: "full",
		Addons:      []models.AddonLine{{AddonID: video.ID, Quantity: 1}},
	})

	want := full.Price + video.Price
	if quote.Quote.Total != want {
		t.Fatalf("Expected total %d, got %d", want, quote.Quote.Total)
	}
}

func TestEveningPassWorkshopGate(t *testing.T) {
	client := newClientOrSkip(t)
	catalog := client.GetCatalog(t)

	if findPackage(catalog, "evening") == nil {
		t.Fatal("Catalog should list the evening package")
	}
	if len(catalog.Tables) == 0 {
		t.Fatal("Catalog should list gala tables")
	}

	// No table, no workshop decision: the wizard stays on the seating step.
	pending := client.Quote(t, &models.QuoteRequest{
		Role:        "follower",
		PackageType: "evening",
	})
	if pending.CanAdvance {
		t.Fatal("Evening pass without a table should not advance")
	}

	// Table plus an explicit decline clears the gate.
	decided := client.Quote(t, &models.QuoteRequest{
		Role:           "follower",
		PackageType:    "evening",
		TableNumber:    intPtr(catalog.Tables[0].TableNumber),
		WantsWorkshops: flexBoolPtr(false),
	})
	if !decided.CanAdvance {
		t.Fatal("Evening pass with a table and a workshop decision should advance")
	}
}

func TestRegistrationFlow(t *testing.T) {
	client := newClientOrSkip(t)
	catalog := client.GetCatalog(t)

	full := findPackage(catalog, "full")
	if full == nil {
		t.Fatal("Catalog should list the full package")
	}

	submitReq := &models.SubmitRegistrationRequest{
		QuoteRequest: models.QuoteRequest{
			Role:        "leader",
			PackageType: "full",
		},
		LeaderInfo: &models.PersonInfo{
			FirstName: "Aisha",
			LastName:  "Rahman",
			Email:     "aisha.rahman@example.com",
			Country:   "AE",
		},
	}

	quote := client.Quote(t, &submitReq.QuoteRequest)
	created := client.SubmitRegistration(t, submitReq)

	if created.Reference == "" {
		t.Fatal("Submission should assign a reference")
	}
	if created.Quote.Total != quote.Quote.Total {
		t.Fatalf("Submission total %d should match the quoted total %d", created.Quote.Total, quote.Quote.Total)
	}

	reg := client.GetRegistration(t, created.ID)
	if reg.Reference != created.Reference {
		t.Fatalf("Expected reference %s, got %s", created.Reference, reg.Reference)
	}
	if reg.TotalAmount != created.Quote.Total {
		t.Fatalf("Stored total %d should match the charged total %d", reg.TotalAmount, created.Quote.Total)
	}
	if reg.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("Fresh registration should be pending payment, got %s", reg.PaymentStatus)
	}

	png := client.GetRegistrationQR(t, created.ID)
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("QR endpoint should return a PNG image")
	}
}
