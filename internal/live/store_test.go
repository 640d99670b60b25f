package live

import (
	"sync"
	"testing"
	"tennis-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedStoreSnapshot(t *testing.T) {
	store := NewSeedStore()

	got := store.Snapshot()

	assert.Equal(t, "Carlos Alcaraz", got.Player1.Name)
	assert.Equal(t, "Novak Djokovic", got.Player2.Name)
	assert.Equal(t, []int{6, 4, 3}, got.Score1.Sets)
	assert.Equal(t, []int{4, 6, 2}, got.Score2.Sets)
	assert.Equal(t, "30", got.Score1.Points)
	assert.Equal(t, "40", got.Score2.Points)
	assert.Equal(t, 8234, got.MatchTime)
	assert.Equal(t, domain.WinProbability{Player1: 62, Player2: 38}, got.WinProbability)
	assert.Empty(t, got.Events)
	require.NoError(t, got.Validate())
}

func TestSnapshotIsDetached(t *testing.T) {
	store := NewSeedStore()

	snap := store.Snapshot()
	snap.Score1.Sets[0] = 0
	snap.Stats1.Aces = 100
	snap.Events = append(snap.Events, domain.MatchEvent{ID: "x"})
	snap.MatchTime = 0

	again := store.Snapshot()
	assert.Equal(t, 6, again.Score1.Sets[0])
	assert.Equal(t, 12, again.Stats1.Aces)
	assert.Empty(t, again.Events)
	assert.Equal(t, 8234, again.MatchTime)
}

func TestNewStoreCopiesInitial(t *testing.T) {
	initial := domain.NewSeedMatch()
	store := NewStore(initial)

	initial.Score2.Sets[1] = 0

	assert.Equal(t, 6, store.Snapshot().Score2.Sets[1])
}

func TestStoreUpdateReturnsCopy(t *testing.T) {
	store := NewSeedStore()

	out := store.update(func(m *domain.Match) { m.MatchTime = 9000 })
	out.MatchTime = 1

	assert.Equal(t, 9000, store.Snapshot().MatchTime)
}

func TestStoreConcurrentReaders(t *testing.T) {
	store := NewSeedStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m := store.Snapshot()
				assert.GreaterOrEqual(t, m.MatchTime, 8234)
			}
		}()
	}
	for j := 0; j < 100; j++ {
		store.update(func(m *domain.Match) { m.MatchTime++ })
	}
	wg.Wait()

	assert.Equal(t, 8334, store.Snapshot().MatchTime)
}
