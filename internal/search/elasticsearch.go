package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"dunefest/internal/config"
	"dunefest/internal/models"
)

// ElasticsearchClient indexes submitted registrations for the admin
// dashboard search. Postgres stays the source of truth; the index is fed
// asynchronously by the consumers binary and rebuilt with cmd/reindex.
type ElasticsearchClient struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{
		client: es,
		config: cfg,
	}

	if err := client.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

// ensureIndex creates the registrations index if it does not exist
func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{c.config.Index},
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":        map[string]interface{}{"type": "long"},
				"reference": map[string]interface{}{"type": "keyword"},
				"role":      map[string]interface{}{"type": "keyword"},
				"package_type": map[string]interface{}{
					"type": "keyword",
				},
				"leader_name": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256},
					},
				},
				"follower_name": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256},
					},
				},
				"email":          map[string]interface{}{"type": "keyword"},
				"payment_status": map[string]interface{}{"type": "keyword"},
				"total_amount":   map[string]interface{}{"type": "long"},
				"created_at": map[string]interface{}{
					"type":   "date",
					"format": "strict_date_optional_time||epoch_millis",
				},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: c.config.Index,
		Body:  strings.NewReader(string(mappingJSON)),
	}

	createRes, err := createReq.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.config.Index)
	return nil
}

// RegistrationDocument is the indexed projection of a registration
type RegistrationDocument struct {
	ID            int64     `json:"id"`
	Reference     string    `json:"reference"`
	Role          string    `json:"role"`
	PackageType   string    `json:"package_type"`
	LeaderName    string    `json:"leader_name,omitempty"`
	FollowerName  string    `json:"follower_name,omitempty"`
	Email         string    `json:"email,omitempty"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   int64     `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewRegistrationDocument projects the entity into its searchable fields
func NewRegistrationDocument(reg *models.Registration) RegistrationDocument {
	doc := RegistrationDocument{
		ID:            reg.ID,
		Reference:     reg.Reference,
		Role:          reg.Role,
		PackageType:   reg.PackageType,
		PaymentStatus: reg.PaymentStatus,
		TotalAmount:   reg.TotalAmount,
		CreatedAt:     reg.CreatedAt,
	}
	if reg.LeaderInfo != nil {
		doc.LeaderName = strings.TrimSpace(reg.LeaderInfo.FirstName + " " + reg.LeaderInfo.LastName)
		doc.Email = reg.LeaderInfo.Email
	}
	if reg.FollowerInfo != nil {
		doc.FollowerName = strings.TrimSpace(reg.FollowerInfo.FirstName + " " + reg.FollowerInfo.LastName)
		if doc.Email == "" {
			doc.Email = reg.FollowerInfo.Email
		}
	}
	return doc
}

// IndexRegistration writes (or overwrites) one registration document
func (c *ElasticsearchClient) IndexRegistration(ctx context.Context, doc RegistrationDocument) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal registration document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.config.Index,
		DocumentID: strconv.FormatInt(doc.ID, 10),
		Body:       strings.NewReader(string(docJSON)),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index registration: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

// Search runs the admin dashboard query: free text over names/email plus
// keyword filters, newest first.
func (c *ElasticsearchClient) Search(ctx context.Context, query, packageType, paymentStatus string, page, pageSize int) (int64, []RegistrationDocument, error) {
	from := 0
	if page > 0 && pageSize > 0 {
		from = (page - 1) * pageSize
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	searchRequest := map[string]interface{}{
		"query":            c.buildSearchQuery(query, packageType, paymentStatus),
		"sort":             []map[string]interface{}{{"created_at": map[string]interface{}{"order": "desc"}}},
		"from":             from,
		"size":             pageSize,
		"track_total_hits": true,
	}

	searchJSON, err := json.Marshal(searchRequest)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.config.Index},
		Body:  strings.NewReader(string(searchJSON)),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source RegistrationDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return 0, nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs := make([]RegistrationDocument, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		docs[i] = hit.Source
	}

	return response.Hits.Total.Value, docs, nil
}

// buildSearchQuery assembles the bool query from the optional filters
func (c *ElasticsearchClient) buildSearchQuery(query, packageType, paymentStatus string) map[string]interface{} {
	mustQueries := []map[string]interface{}{}

	if query != "" {
		mustQueries = append(mustQueries, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"leader_name^2", "follower_name^2", "email", "reference"},
				"fuzziness": "AUTO",
			},
		})
	}
	if packageType != "" {
		mustQueries = append(mustQueries, map[string]interface{}{
			"term": map[string]interface{}{"package_type": packageType},
		})
	}
	if paymentStatus != "" {
		mustQueries = append(mustQueries, map[string]interface{}{
			"term": map[string]interface{}{"payment_status": paymentStatus},
		})
	}

	if len(mustQueries) == 0 {
		return map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": mustQueries,
		},
	}
}

// HealthCheck verifies the cluster is reachable
func (c *ElasticsearchClient) HealthCheck(ctx context.Context) error {
	req := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}

	return nil
}
