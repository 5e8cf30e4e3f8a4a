package blackjack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felttable/blackjack/internal/types"
	"github.com/felttable/blackjack/pkg/entities"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *mockRepository) GetSessionResults(ctx context.Context, sessionID string, limit int) ([]*entities.RoundResult, error) {
	args := m.Called(ctx, sessionID, limit)
	if rr := args.Get(0); rr != nil {
		return rr.([]*entities.RoundResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) GetPlayerResults(ctx context.Context, name string) ([]*entities.RoundResult, error) {
	args := m.Called(ctx, name)
	if rr := args.Get(0); rr != nil {
		return rr.([]*entities.RoundResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestManager() (*Manager, *mockRepository) {
	repo := &mockRepository{}
	m := NewManager(repo, ManagerConfig{})
	return m, repo
}

// rigSession stacks the session's deck so a single stand by the creator plays
// the round out to a deterministic win (player 20 against dealer 19).
func rigSession(t *testing.T, m *Manager, id string) {
	t.Helper()

	round, err := m.GetSession(id)
	require.NoError(t, err)
	stackDeck(round,
		card(entities.Ten, entities.Spades), card(entities.Ten, entities.Hearts),
		card(entities.Queen, entities.Spades), card(entities.Nine, entities.Hearts),
	)
}

func TestNewManagerPanicsOnNilRepository(t *testing.T) {
	assert.Panics(t, func() {
		NewManager(nil, ManagerConfig{})
	})
}

func TestCreateSession(t *testing.T) {
	m, _ := newTestManager()

	round, err := m.CreateSession("  Alice  ", 3)
	require.NoError(t, err)

	assert.Equal(t, "Alice", round.Creator, "names are trimmed")
	assert.Equal(t, 3, round.MaxPlayers)
	assert.Equal(t, StateWaiting, round.State)
	require.Len(t, round.Players, 1, "the creator is seated immediately")
	assert.Equal(t, "Alice", round.Players[0].Name)
	assert.Equal(t, DefaultChips, round.Players[0].Chips)
	assert.Equal(t, 1, m.SessionCount())
}

func TestCreateSessionRequiresName(t *testing.T) {
	m, _ := newTestManager()

	_, err := m.CreateSession("   ", 3)
	assert.True(t, types.IsGameError(err, types.ErrInvalidArgument))
	assert.Zero(t, m.SessionCount())
}

func TestCreateSessionClampsMaxPlayers(t *testing.T) {
	m, _ := newTestManager()

	round, err := m.CreateSession("Alice", 99)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPlayers, round.MaxPlayers)

	round, err = m.CreateSession("Bob", -1)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPlayers, round.MaxPlayers)
}

func TestGetSessionNotFound(t *testing.T) {
	m, _ := newTestManager()

	_, err := m.GetSession("nope")
	assert.True(t, types.IsGameError(err, types.ErrSessionNotFound))
}

func TestJoinAndLeave(t *testing.T) {
	m, _ := newTestManager()
	round, err := m.CreateSession("Alice", 5)
	require.NoError(t, err)

	snap, err := m.Join(round.ID, "Bob")
	require.NoError(t, err)
	assert.Len(t, snap.Players, 2)

	_, err = m.Join(round.ID, "bob")
	assert.True(t, types.IsGameError(err, types.ErrAlreadyJoined))

	_, err = m.Join(round.ID, "  ")
	assert.True(t, types.IsGameError(err, types.ErrInvalidArgument))

	snap, err = m.Leave(round.ID, "Bob")
	require.NoError(t, err)
	assert.Len(t, snap.Players, 1)

	_, err = m.Leave(round.ID, "Bob")
	assert.True(t, types.IsGameError(err, types.ErrPlayerNotFound))
}

func TestStandSavesResultExactlyOnce(t *testing.T) {
	m, repo := newTestManager()
	round, err := m.CreateSession("Alice", 5)
	require.NoError(t, err)
	rigSession(t, m, round.ID)

	repo.On("SaveRoundResult", mock.Anything, mock.AnythingOfType("*entities.RoundResult")).Return(nil)

	_, err = m.Start(round.ID)
	require.NoError(t, err)

	snap, err := m.Stand(context.Background(), round.ID, "Alice")
	require.NoError(t, err)
	assert.Equal(t, StateFinished, snap.Status)

	// Nothing after the finish may persist a second result
	_, err = m.Snapshot(round.ID)
	require.NoError(t, err)
	_, err = m.NextRound(round.ID)
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "SaveRoundResult", 1)
}

func TestStandSaveFailureIsNotSurfaced(t *testing.T) {
	m, repo := newTestManager()
	round, err := m.CreateSession("Alice", 5)
	require.NoError(t, err)
	rigSession(t, m, round.ID)

	repo.On("SaveRoundResult", mock.Anything, mock.AnythingOfType("*entities.RoundResult")).
		Return(errors.New("disk full"))

	_, err = m.Start(round.ID)
	require.NoError(t, err)

	snap, err := m.Stand(context.Background(), round.ID, "Alice")
	require.NoError(t, err, "a storage failure must not fail the action")
	assert.Equal(t, StateFinished, snap.Status)
}

func TestHitReturnsCardAndSnapshot(t *testing.T) {
	m, _ := newTestManager()
	round, err := m.CreateSession("Alice", 5)
	require.NoError(t, err)

	r, err := m.GetSession(round.ID)
	require.NoError(t, err)
	stackDeck(r,
		card(entities.Two, entities.Spades), card(entities.Ten, entities.Hearts),
		card(entities.Three, entities.Spades), card(entities.Seven, entities.Hearts),
		card(entities.Five, entities.Clubs),
	)

	_, err = m.Start(round.ID)
	require.NoError(t, err)

	dealt, snap, err := m.Hit(context.Background(), round.ID, "Alice")
	require.NoError(t, err)
	require.NotNil(t, dealt)
	assert.Equal(t, "5C", dealt.String())
	assert.Equal(t, 10, snap.Players[0].Total)
	assert.Equal(t, StateInProgress, snap.Status)
}

func TestNextRoundSwapsSession(t *testing.T) {
	m, repo := newTestManager()
	round, err := m.CreateSession("Alice", 5)
	require.NoError(t, err)
	rigSession(t, m, round.ID)

	repo.On("SaveRoundResult", mock.Anything, mock.AnythingOfType("*entities.RoundResult")).Return(nil)

	_, err = m.Start(round.ID)
	require.NoError(t, err)
	_, err = m.Stand(context.Background(), round.ID, "Alice")
	require.NoError(t, err)

	snap, err := m.NextRound(round.ID)
	require.NoError(t, err)
	assert.Equal(t, round.ID, snap.SessionID)
	assert.Equal(t, StateWaiting, snap.Status)
	assert.Equal(t, 110, snap.Players[0].Chips, "winnings carry into the next round")

	fresh, err := m.GetSession(round.ID)
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, fresh.State)
	assert.Equal(t, 1, m.SessionCount(), "the swap replaces, never duplicates")
}

func TestRemoveSession(t *testing.T) {
	m, _ := newTestManager()
	round, err := m.CreateSession("Alice", 5)
	require.NoError(t, err)

	m.RemoveSession(round.ID)
	assert.Zero(t, m.SessionCount())

	_, err = m.GetSession(round.ID)
	assert.True(t, types.IsGameError(err, types.ErrSessionNotFound))
}

func TestCleanupIdle(t *testing.T) {
	m, _ := newTestManager()

	stale, err := m.CreateSession("Alice", 5)
	require.NoError(t, err)
	_, err = m.CreateSession("Bob", 5)
	require.NoError(t, err)

	staleRound, err := m.GetSession(stale.ID)
	require.NoError(t, err)
	staleRound.lastActivity = time.Now().Add(-25 * time.Hour)

	require.NoError(t, m.CleanupIdle(context.Background()))

	assert.Equal(t, 1, m.SessionCount())
	_, err = m.GetSession(stale.ID)
	assert.True(t, types.IsGameError(err, types.ErrSessionNotFound))
}

func TestSessionResultsDelegatesToRepository(t *testing.T) {
	m, repo := newTestManager()

	stored := []*entities.RoundResult{{SessionID: "s1", DealerTotal: 19}}
	repo.On("GetSessionResults", mock.Anything, "s1", 10).Return(stored, nil)
	repo.On("GetPlayerResults", mock.Anything, "alice").Return(stored, nil)

	got, err := m.SessionResults(context.Background(), "s1", 10)
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	got, err = m.PlayerResults(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	repo.AssertExpectations(t)
}
