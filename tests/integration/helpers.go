//go:build integration

package integration

import (
	"os"
	"testing"

	"dunefest/internal/models"
)

// APIBaseURL is where the API under test is expected to run. Override with
// the API_BASE_URL environment variable when testing a remote deployment.
const APIBaseURL = "http://localhost:8080"

func newClientOrSkip(t *testing.T) *TestClient {
	t.Helper()

	baseURL := APIBaseURL
	if override := os.Getenv("API_BASE_URL"); override != "" {
		baseURL = override
	}

	client := NewTestClient(baseURL)
	if !client.Healthy() {
		t.Skipf("API is not reachable at %s, skipping integration test", baseURL)
	}
	return client
}

func findPackage(catalog *models.CatalogResponse, id string) *models.Package {
	for i := range catalog.Packages {
		if catalog.Packages[i].ID == id {
			return &catalog.Packages[i]
		}
	}
	return nil
}

func findAddon(catalog *models.CatalogResponse, id string) *models.Addon {
	for i := range catalog.Addons {
		if catalog.Addons[i].ID == id {
			return &catalog.Addons[i]
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

func flexBoolPtr(v bool) *models.FlexibleBool {
	fb := models.FlexibleBool(v)
	return &fb
}
