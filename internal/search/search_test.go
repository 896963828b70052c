package search

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-workers/internal/models"
)

// fakeES records requests and answers with a canned status and body. routes
// overrides the status per "METHOD /path".
type fakeES struct {
	mu      sync.Mutex
	status  int
	body    string
	routes  map[string]int
	methods []string
	paths   []string
	bodies  []string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.methods = append(f.methods, r.Method)
	f.paths = append(f.paths, r.URL.Path)
	f.bodies = append(f.bodies, string(data))
	status, body := f.status, f.body
	if code, ok := f.routes[r.Method+" "+r.URL.Path]; ok {
		status = code
	}
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (f *fakeES) requests() (paths, bodies []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...), append([]string(nil), f.bodies...)
}

func newTestClient(t *testing.T, fake *fakeES) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{srv.URL},
		DisableRetry:  true,
		RetryOnStatus: []int{},
	})
	require.NoError(t, err)
	return NewClient(es, "policies", 10)
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    Query
		validate func(t *testing.T, body map[string]interface{})
	}{
		{
			name:  "keywords with category",
			query: Query{Keywords: " maternity ", Category: models.CategoryFamily, From: 10, Size: 5},
			validate: func(t *testing.T, body map[string]interface{}) {
				boolQ := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
				must := boolQ["must"].([]interface{})
				mm := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
				assert.Equal(t, "maternity", mm["query"])
				filter := boolQ["filter"].([]interface{})
				assert.Equal(t, map[string]interface{}{"term": map[string]interface{}{"category": "Family"}}, filter[0])
				assert.Equal(t, 10, body["from"])
				assert.Equal(t, 5, body["size"])
			},
		},
		{
			name:  "empty query matches all with default size",
			query: Query{From: -3},
			validate: func(t *testing.T, body map[string]interface{}) {
				boolQ := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
				assert.Contains(t, boolQ["must"].([]interface{})[0], "match_all")
				assert.NotContains(t, boolQ, "filter")
				assert.Equal(t, 0, body["from"])
				assert.Equal(t, 10, body["size"])
			},
		},
		{
			name:  "page size is capped",
			query: Query{Size: 500},
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, MaxPageSize, body["size"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, BuildQuery(tt.query, 10))
		})
	}
}

func TestClient_Search(t *testing.T) {
	fake := &fakeES{status: http.StatusOK, body: `{
		"took": 7,
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_source": {"id": "care-supreme", "name": "Care Supreme", "category": "Family", "premium": "₹22,000"}},
				{"_source": {"id": "star-fho", "name": "Family Health Optima", "category": "Family", "premium": "₹18,500"}}
			]
		}
	}`}
	client := newTestClient(t, fake)

	res, err := client.Search(context.Background(), Query{Keywords: "family", Category: models.CategoryFamily})
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, 7, res.Took)
	require.Len(t, res.Policies, 2)
	assert.Equal(t, "Care Supreme", res.Policies[0].Name)
	assert.Equal(t, models.CategoryFamily, res.Policies[1].Category)

	paths, bodies := fake.requests()
	require.Len(t, paths, 1)
	assert.Equal(t, "/policies/_search", paths[0])
	assert.Contains(t, bodies[0], `"multi_match"`)
}

func TestClient_Search_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"missing index", http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`, ErrIndexNotFound},
		{"bad request", http.StatusBadRequest, `{"error":{"type":"parsing_exception"}}`, ErrSearchFailed},
		{"undecodable body", http.StatusOK, `not json`, ErrSearchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &fakeES{status: tt.status, body: tt.body})
			_, err := client.Search(context.Background(), Query{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_IndexPolicies(t *testing.T) {
	fake := &fakeES{status: http.StatusOK, body: `{"took": 3, "errors": false, "items": []}`}
	client := newTestClient(t, fake)

	policies := []models.PolicyRecord{
		{ID: "a", Name: "Plan A", Category: models.CategoryIndividual},
		{ID: "b", Name: "Plan B", Category: models.CategorySenior},
	}
	require.NoError(t, client.IndexPolicies(context.Background(), policies))

	paths, bodies := fake.requests()
	require.Len(t, bodies, 1)
	assert.Equal(t, "/_bulk", paths[0])

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(bodies[0]))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 4)

	var meta map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &meta))
	assert.Equal(t, "b", meta["index"]["_id"])
	assert.Equal(t, "policies", meta["index"]["_index"])

	assert.NoError(t, client.IndexPolicies(context.Background(), nil))
	_, bodies = fake.requests()
	assert.Len(t, bodies, 1, "nothing to index sends nothing")
}

func TestClient_IndexPolicies_Rejected(t *testing.T) {
	client := newTestClient(t, &fakeES{status: http.StatusOK, body: `{"errors": true}`})

	err := client.IndexPolicies(context.Background(), []models.PolicyRecord{{ID: "a"}})
	assert.ErrorContains(t, err, "rejected")
}

func TestClient_EnsureIndex_CreatesKeywordMapping(t *testing.T) {
	fake := &fakeES{
		status: http.StatusOK,
		body:   `{"acknowledged": true}`,
		routes: map[string]int{"HEAD /policies": http.StatusNotFound},
	}
	client := newTestClient(t, fake)

	require.NoError(t, client.EnsureIndex(context.Background()))

	paths, bodies := fake.requests()
	require.Len(t, paths, 2)
	assert.Equal(t, []string{http.MethodHead, http.MethodPut}, fake.methods)
	assert.Equal(t, "/policies", paths[1])

	var created struct {
		Mappings struct {
			Properties map[string]struct {
				Type string `json:"type"`
			} `json:"properties"`
		} `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodies[1]), &created))
	assert.Equal(t, "keyword", created.Mappings.Properties["category"].Type)
	assert.Equal(t, "keyword", created.Mappings.Properties["tags"].Type)

	// the category filter targets the field the mapping keeps exact
	boolQ := BuildQuery(Query{Category: models.CategoryFamily}, 10)["query"].(map[string]interface{})["bool"].(map[string]interface{})
	term := boolQ["filter"].([]interface{})[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "Family", term["category"])
}

func TestClient_EnsureIndex_ExistingIndexIsLeftAlone(t *testing.T) {
	fake := &fakeES{status: http.StatusOK, body: `{}`}
	client := newTestClient(t, fake)

	require.NoError(t, client.EnsureIndex(context.Background()))
	paths, _ := fake.requests()
	assert.Equal(t, []string{"/policies"}, paths)
	assert.Equal(t, []string{http.MethodHead}, fake.methods)
}

func TestClient_EnsureIndex_CreateFails(t *testing.T) {
	fake := &fakeES{
		status: http.StatusBadRequest,
		body:   `{"error": "bad mapping"}`,
		routes: map[string]int{"HEAD /policies": http.StatusNotFound},
	}
	client := newTestClient(t, fake)

	assert.ErrorContains(t, client.EnsureIndex(context.Background()), "create index")
}
