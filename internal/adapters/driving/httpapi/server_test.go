package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/templar-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/templar-cli/internal/core/domain"
	"github.com/custodia-labs/templar-cli/internal/core/services"
)

type mockSearchService struct {
	results   []domain.RankedTemplate
	err       error
	lastQuery string
	lastK     int
}

func (m *mockSearchService) SearchTemplates(_ context.Context, query string, k int) ([]domain.RankedTemplate, error) {
	m.lastQuery = query
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_SearchTemplates(t *testing.T) {
	mock := &mockSearchService{
		results: []domain.RankedTemplate{
			{
				TemplateRecord: domain.TemplateRecord{ID: "nda", Name: "NDA"},
				Similarity:     0.93,
			},
		},
	}
	server := NewServer(mock)

	rec := doRequest(t, server, http.MethodPost, "/api/search-templates", `{"query":"confidentiality"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confidentiality", mock.lastQuery)

	var resp struct {
		Results []domain.RankedTemplate `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "nda", resp.Results[0].ID)
	assert.InDelta(t, 0.93, resp.Results[0].Similarity, 1e-9)
}

func TestServer_SearchTemplates_ClientCannotRaiseLimit(t *testing.T) {
	mock := &mockSearchService{}
	server := NewServer(mock)

	rec := doRequest(t, server, http.MethodPost, "/api/search-templates",
		`{"query":"any contract","limit":7}`)

	require.Equal(t, http.StatusOK, rec.Code)
	// Unknown fields are ignored; the service always receives k=0 and
	// applies its default of 5.
	assert.Equal(t, 0, mock.lastK)
}

func TestServer_SearchTemplates_CapsAtFiveResults(t *testing.T) {
	store := memory.NewTemplateStore()
	ctx := context.Background()
	for _, id := range []string{"nda", "lease", "employment", "invoice", "will", "loan", "sublet"} {
		require.NoError(t, store.Upsert(ctx, &domain.TemplateRecord{
			ID:        id,
			Name:      id,
			Embedding: []float32{1, 0},
		}))
	}
	service := services.NewSearchService(store, &stubEmbedder{vector: []float32{1, 0}})
	server := NewServer(service)

	rec := doRequest(t, server, http.MethodPost, "/api/search-templates",
		`{"query":"any contract","limit":7}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Results []domain.RankedTemplate `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.LessOrEqual(t, len(resp.Results), 5)
}

type stubEmbedder struct {
	vector []float32
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return s.vector, nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.vector
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int            { return len(s.vector) }
func (s *stubEmbedder) ModelName() string          { return "stub-embed" }
func (s *stubEmbedder) Ping(context.Context) error { return nil }
func (s *stubEmbedder) Close() error               { return nil }

func TestServer_SearchTemplates_EmptyQuery(t *testing.T) {
	server := NewServer(&mockSearchService{err: domain.ErrEmptyQuery})

	rec := doRequest(t, server, http.MethodPost, "/api/search-templates", `{"query":""}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing query"}`, rec.Body.String())
}

func TestServer_SearchTemplates_MalformedBody(t *testing.T) {
	server := NewServer(&mockSearchService{})

	rec := doRequest(t, server, http.MethodPost, "/api/search-templates", `{"query":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing query"}`, rec.Body.String())
}

func TestServer_SearchTemplates_ServiceError(t *testing.T) {
	server := NewServer(&mockSearchService{err: domain.ErrEmbeddingUnavailable})

	rec := doRequest(t, server, http.MethodPost, "/api/search-templates", `{"query":"lease"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_SearchTemplates_EmptyResults(t *testing.T) {
	server := NewServer(&mockSearchService{})

	rec := doRequest(t, server, http.MethodPost, "/api/search-templates", `{"query":"lease"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestServer_CORSPreflight(t *testing.T) {
	server := NewServer(&mockSearchService{})

	rec := doRequest(t, server, http.MethodOptions, "/api/search-templates", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestServer_Healthz(t *testing.T) {
	server := NewServer(&mockSearchService{})

	rec := doRequest(t, server, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
