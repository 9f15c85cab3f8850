package workers

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/histodesop/story-interactions/domain"
)

type fakeDBRepo struct {
	domain.InteractionDBRepository

	mu      sync.Mutex
	applied []domain.LikeStateChanges
}

func (f *fakeDBRepo) ApplyLikeChanges(_ context.Context, changes domain.LikeStateChanges) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, changes)
	return nil
}

func (f *fakeDBRepo) calls() []domain.LikeStateChanges {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.LikeStateChanges, len(f.applied))
	copy(out, f.applied)
	return out
}

func TestFlushDeduplicatesLastActionWins(t *testing.T) {
	repo := &fakeDBRepo{}
	w := NewSyncLikesWorker(repo)

	w.flush(context.Background(), []LikeTask{
		{StoryID: 7, Fingerprint: "203.0.113.9", Action: domain.Like},
		{StoryID: 7, Fingerprint: "203.0.113.9", Action: domain.Unlike},
		{StoryID: 8, Fingerprint: "203.0.113.9", Action: domain.Like},
	})

	calls := repo.calls()
	require.Len(t, calls, 1)
	changes := calls[0]

	require.Len(t, changes.ToRemove, 1)
	assert.EqualValues(t, 7, changes.ToRemove[0].StoryID)

	require.Len(t, changes.ToAdd, 1)
	assert.EqualValues(t, 8, changes.ToAdd[0].StoryID)
}

func TestFlushSkipsEmptyBatch(t *testing.T) {
	repo := &fakeDBRepo{}
	w := NewSyncLikesWorker(repo)

	w.flush(context.Background(), nil)

	assert.Empty(t, repo.calls())
}

func TestShutdownDrainsQueuedTasks(t *testing.T) {
	repo := &fakeDBRepo{}
	w := NewSyncLikesWorker(repo)

	w.Send(domain.LikeRecord{StoryID: 7, Fingerprint: "203.0.113.9"}, domain.Like)
	w.Send(domain.LikeRecord{StoryID: 8, Fingerprint: "198.51.100.4"}, domain.Like)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	var added int
	for _, changes := range repo.calls() {
		added += len(changes.ToAdd)
	}
	assert.Equal(t, 2, added, "queued toggles must survive shutdown")
}
