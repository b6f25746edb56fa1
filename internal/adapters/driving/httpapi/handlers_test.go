package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medalpine/medrag/internal/core/domain"
)

// stubQueries implements driving.QueryService.
type stubQueries struct {
	answer   *domain.Answer
	err      error
	lastSpec []string
}

func (s *stubQueries) Answer(_ context.Context, query string) (*domain.Answer, error) {
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	return s.answer, s.err
}

func (s *stubQueries) AnalyzeCase(_ context.Context, _ domain.CaseStudy, specialties []string) (*domain.Answer, error) {
	s.lastSpec = specialties
	return s.answer, s.err
}

// stubIndexer implements driving.Indexer.
type stubIndexer struct {
	count      int
	err        error
	lastNiche  string
	lastTarget int
}

func (s *stubIndexer) IndexPapers(_ context.Context, niche string, target int) (int, error) {
	s.lastNiche = niche
	s.lastTarget = target
	return s.count, s.err
}

// stubFeed implements driving.NewsfeedService.
type stubFeed struct {
	papers     []domain.PaperSummary
	err        error
	lastMonths int
}

func (s *stubFeed) Papers(_ context.Context, _ string, months int) ([]domain.PaperSummary, error) {
	s.lastMonths = months
	return s.papers, s.err
}

type fixture struct {
	srv     *Server
	queries *stubQueries
	indexer *stubIndexer
	feed    *stubFeed
}

func newFixture() *fixture {
	f := &fixture{
		queries: &stubQueries{answer: &domain.Answer{
			Text:    "Answer text.",
			Sources: []string{"PMC1 - Title"},
		}},
		indexer: &stubIndexer{count: 7},
		feed:    &stubFeed{papers: []domain.PaperSummary{{PMCID: "PMC1"}}},
	}
	f.srv = NewServer(":0", f.queries, f.indexer, f.feed)
	return f
}

func (f *fixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRagQuery_OK(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/rag-query", map[string]string{"query": "what treats hypertension?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ragQueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Answer text.", resp.Answer)
	assert.Equal(t, []string{"PMC1 - Title"}, resp.Sources)
}

func TestRagQuery_EmptyQueryIs400(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/rag-query", map[string]string{"query": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRagQuery_DownstreamFailureIs500(t *testing.T) {
	f := newFixture()
	f.queries.err = errors.New("generator unavailable: model overloaded")

	rec := f.post(t, "/rag-query", map[string]string{"query": "q"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "model overloaded")
}

func TestAnalyzeCase_DefaultsToGeneral(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/analyze-case", map[string]any{
		"patient_history":  "hypertension",
		"current_symptoms": "palpitations",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{domain.GeneralSpecialty}, f.queries.lastSpec)

	var resp analyzeCaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Answer text.", resp.Analysis)
}

func TestAnalyzeCase_PassesSpecialties(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/analyze-case", map[string]any{
		"current_symptoms": "palpitations",
		"specialties":      []string{"cardiology"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"cardiology"}, f.queries.lastSpec)
}

func TestIndexPapers_DefaultTarget(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/index-papers", map[string]any{"niche": "neurology"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "neurology", f.indexer.lastNiche)
	assert.Equal(t, 30, f.indexer.lastTarget)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf("Indexed %d papers for neurology", 7))
}

func TestIndexPapers_MissingNicheIs400(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/index-papers", map[string]any{"num_papers": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewsfeed_DefaultsAndShape(t *testing.T) {
	f := newFixture()

	rec := f.post(t, "/newsfeed", map[string]any{"niche": "neurology"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 6, f.feed.lastMonths)

	var resp newsfeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Papers, 1)
	assert.Equal(t, "PMC1", resp.Papers[0].PMCID)
}

func TestNewsfeed_EmptyListNotNull(t *testing.T) {
	f := newFixture()
	f.feed.papers = nil

	rec := f.post(t, "/newsfeed", map[string]any{"niche": "neurology"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"papers":[]`)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodOptions, "/rag-query", nil)
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
