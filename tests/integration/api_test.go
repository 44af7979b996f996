//go:build integration

package integration

import "testing"

func TestHealthCheck(t *testing.T) {
	client := newClientOrSkip(t)

	resp := client.makeRequest(t, "GET", "/health", nil)
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestCatalogHasCurrentEvent(t *testing.T) {
	client := newClientOrSkip(t)

	catalog := client.GetCatalog(t)

	if catalog.Event == nil {
		t.Fatal("Catalog should carry the current event")
	}
	if len(catalog.Packages) == 0 {
		t.Fatal("Catalog should list at least one package")
	}
	if findPackage(catalog, "full") == nil {
		t.Fatal("Catalog should list the full package")
	}
	if findPackage(catalog, "evening") == nil {
		t.Fatal("Catalog should list the evening package")
	}
	if findPackage(catalog, "custom") == nil {
		t.Fatal("Catalog should list the custom package")
	}
}
