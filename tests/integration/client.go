//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"dunefest/internal/models"
)

// TestClient provides methods for testing the API
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// Healthy reports whether the API under test is reachable.
func (c *TestClient) Healthy() bool {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// GetCatalog fetches the public catalog document
func (c *TestClient) GetCatalog(t *testing.T) *models.CatalogResponse {
	resp := c.makeRequest(t, "GET", "/api/catalog", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var catalog models.CatalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		t.Fatalf("Failed to decode catalog response: %v", err)
	}

	return &catalog
}

// Quote prices an in-progress selection
func (c *TestClient) Quote(t *testing.T, req *models.QuoteRequest) *models.QuoteResponse {
	resp := c.makeRequest(t, "POST", "/api/registrations/quote", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var quote models.QuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		t.Fatalf("Failed to decode quote response: %v", err)
	}

	return &quote
}

// SubmitRegistration submits a final registration
func (c *TestClient) SubmitRegistration(t *testing.T, req *models.SubmitRegistrationRequest) *models.SubmitRegistrationResponse {
	resp := c.makeRequest(t, "POST", "/api/registrations", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 201, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var created models.SubmitRegistrationResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode registration response: %v", err)
	}

	return &created
}

// GetRegistration fetches a registration by id
func (c *TestClient) GetRegistration(t *testing.T, id int64) *models.Registration {
	resp := c.makeRequest(t, "GET", fmt.Sprintf("/api/registrations/%d", id), nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var reg models.Registration
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil {
		t.Fatalf("Failed to decode registration: %v", err)
	}

	return &reg
}

// GetRegistrationQR fetches the check-in PNG for a registration
func (c *TestClient) GetRegistrationQR(t *testing.T, id int64) []byte {
	resp := c.makeRequest(t, "GET", fmt.Sprintf("/api/registrations/%d/qr", id), nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Expected image/png, got %s", ct)
	}

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read QR body: %v", err)
	}
	return png
}
