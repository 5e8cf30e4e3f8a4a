package results

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felttable/blackjack/pkg/entities"
)

// mockBaseRepository is a mock implementation of the Repository interface
type mockBaseRepository struct {
	mock.Mock
}

func (m *mockBaseRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *mockBaseRepository) GetSessionResults(ctx context.Context, sessionID string, limit int) ([]*entities.RoundResult, error) {
	args := m.Called(ctx, sessionID, limit)
	return args.Get(0).([]*entities.RoundResult), args.Error(1)
}

func (m *mockBaseRepository) GetPlayerResults(ctx context.Context, name string) ([]*entities.RoundResult, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]*entities.RoundResult), args.Error(1)
}

func (m *mockBaseRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// newFakeElasticsearch stands up an HTTP server that accepts index requests
// and records the document bodies it receives
func newFakeElasticsearch(t *testing.T, status int) (*httptest.Server, *[][]byte) {
	t.Helper()

	var bodies [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			bodies = append(bodies, body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &bodies
}

func TestElasticsearchRepositorySaveIndexesDocument(t *testing.T) {
	srv, bodies := newFakeElasticsearch(t, http.StatusCreated)

	base := &mockBaseRepository{}
	base.On("SaveRoundResult", mock.Anything, mock.AnythingOfType("*entities.RoundResult")).Return(nil)

	repo, err := NewElasticsearchRepository(base, &ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	saved := makeResult("s1", 19, "Alice")
	require.NoError(t, repo.SaveRoundResult(context.Background(), saved))

	base.AssertExpectations(t)
	require.Len(t, *bodies, 1, "one document should have been indexed")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal((*bodies)[0], &doc))
	assert.Equal(t, "s1", doc["session_id"])
	assert.Equal(t, float64(19), doc["dealer_total"])
	players, ok := doc["players"].([]interface{})
	require.True(t, ok)
	assert.Len(t, players, 1)
}

func TestElasticsearchRepositoryBaseFailureStopsIndexing(t *testing.T) {
	srv, bodies := newFakeElasticsearch(t, http.StatusCreated)

	base := &mockBaseRepository{}
	base.On("SaveRoundResult", mock.Anything, mock.AnythingOfType("*entities.RoundResult")).
		Return(errors.New("disk full"))

	repo, err := NewElasticsearchRepository(base, &ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	err = repo.SaveRoundResult(context.Background(), makeResult("s1", 19, "Alice"))
	assert.Error(t, err, "a base failure must surface")
	assert.Empty(t, *bodies, "nothing should be indexed when the base save fails")
}

func TestElasticsearchRepositoryIndexFailureNotSurfaced(t *testing.T) {
	srv, _ := newFakeElasticsearch(t, http.StatusInternalServerError)

	base := &mockBaseRepository{}
	base.On("SaveRoundResult", mock.Anything, mock.AnythingOfType("*entities.RoundResult")).Return(nil)

	repo, err := NewElasticsearchRepository(base, &ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	err = repo.SaveRoundResult(context.Background(), makeResult("s1", 19, "Alice"))
	assert.NoError(t, err, "the base repository stays the source of truth")
}

func TestElasticsearchRepositoryReadsDelegate(t *testing.T) {
	srv, _ := newFakeElasticsearch(t, http.StatusOK)

	stored := []*entities.RoundResult{makeResult("s1", 19, "Alice")}
	base := &mockBaseRepository{}
	base.On("GetSessionResults", mock.Anything, "s1", 10).Return(stored, nil)
	base.On("GetPlayerResults", mock.Anything, "alice").Return(stored, nil)
	base.On("Close").Return(nil)

	repo, err := NewElasticsearchRepository(base, &ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	got, err := repo.GetSessionResults(context.Background(), "s1", 10)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	got, err = repo.GetPlayerResults(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	assert.NoError(t, repo.Close())
	base.AssertExpectations(t)
}
