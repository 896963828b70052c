// Package search runs keyword searches over the policy index in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/goccy/go-json"

	"insurance-workers/internal/models"
)

var (
	ErrIndexNotFound = errors.New("index not found")
	ErrSearchFailed  = errors.New("search failed")
)

const MaxPageSize = 50

// Query describes one catalog search. Zero Size means DefaultSize.
type Query struct {
	Keywords string
	Category models.Category
	From     int
	Size     int
}

type Result struct {
	Policies []models.PolicyRecord `json:"policies"`
	Total    int64                 `json:"total"`
	Took     int                   `json:"took"`
}

type Client struct {
	es          *elasticsearch.Client
	index       string
	defaultSize int
}

func NewClient(es *elasticsearch.Client, index string, defaultSize int) *Client {
	if defaultSize <= 0 {
		defaultSize = 10
	}
	return &Client{es: es, index: index, defaultSize: defaultSize}
}

// BuildQuery renders q as an Elasticsearch request body.
func BuildQuery(q Query, defaultSize int) map[string]interface{} {
	var must []interface{}
	if kw := strings.TrimSpace(q.Keywords); kw != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     kw,
				"fields":    []string{"name^3", "company^2", "features", "tags"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if q.Category != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"category": string(q.Category)}},
		}
	}

	size := q.Size
	if size <= 0 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	from := q.From
	if from < 0 {
		from = 0
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  from,
		"size":  size,
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"rating": map[string]interface{}{"order": "desc"}},
		},
	}
}

type searchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source models.PolicyRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (c *Client) Search(ctx context.Context, q Query) (*Result, error) {
	body, err := json.Marshal(BuildQuery(q, c.defaultSize))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrSearchFailed, err)
	}

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, c.index)
	}
	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("%w: %s: %s", ErrSearchFailed, res.Status(), msg)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}

	out := &Result{
		Policies: make([]models.PolicyRecord, 0, len(parsed.Hits.Hits)),
		Total:    parsed.Hits.Total.Value,
		Took:     parsed.Took,
	}
	for _, h := range parsed.Hits.Hits {
		out.Policies = append(out.Policies, h.Source)
	}
	return out, nil
}

// IndexMapping keeps category and tags as exact keyword fields so the category
// term filter in BuildQuery matches the stored value.
var IndexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"id":       map[string]interface{}{"type": "keyword"},
			"name":     map[string]interface{}{"type": "text"},
			"company":  map[string]interface{}{"type": "text", "fields": map[string]interface{}{"raw": map[string]interface{}{"type": "keyword"}}},
			"category": map[string]interface{}{"type": "keyword"},
			"premium":  map[string]interface{}{"type": "keyword"},
			"coverage": map[string]interface{}{"type": "keyword"},
			"features": map[string]interface{}{"type": "text"},
			"tags":     map[string]interface{}{"type": "keyword"},
			"rating":   map[string]interface{}{"type": "float"},
			"reviews":  map[string]interface{}{"type": "integer"},
		},
	},
}

// EnsureIndex creates the index with IndexMapping unless it already exists.
func (c *Client) EnsureIndex(ctx context.Context) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{c.index}}.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}
	if exists.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index: %s", exists.Status())
	}

	body, err := json.Marshal(IndexMapping)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	res, err := esapi.IndicesCreateRequest{Index: c.index, Body: bytes.NewReader(body)}.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index: %s", res.Status())
	}
	return nil
}

// IndexPolicies writes policies to the index keyed by policy id.
func (c *Client) IndexPolicies(ctx context.Context, policies []models.PolicyRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range policies {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": c.index, "_id": p.ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	if buf.Len() == 0 {
		return nil
	}

	req := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}
	res, err := req.Do(ctx, c.es)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk index: %s", res.Status())
	}

	var bulk struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return fmt.Errorf("bulk index: decode response: %w", err)
	}
	if bulk.Errors {
		return errors.New("bulk index: some documents were rejected")
	}
	return nil
}
