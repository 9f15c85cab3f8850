package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/histodesop/story-interactions/domain"
)

type LikeTask struct {
	StoryID     int64
	Fingerprint string
	Action      domain.LikeAction
}

// syncLikesWorker drains like toggles applied to the cache and persists them
// to mysql in batches, deduplicated per (story, fingerprint) with the latest
// action winning inside a flush window.
type syncLikesWorker struct {
	dbRepo domain.InteractionDBRepository
	ch     chan LikeTask
}

var _ domain.SyncLikesWorker = (*syncLikesWorker)(nil)

func NewSyncLikesWorker(dbRepo domain.InteractionDBRepository) *syncLikesWorker {
	return &syncLikesWorker{
		dbRepo: dbRepo,
		ch:     make(chan LikeTask, 1024),
	}
}

// Send adds a like record if action == Like, and removes a like record if action == Unlike
func (s *syncLikesWorker) Send(likeRecord domain.LikeRecord, action domain.LikeAction) {
	select {
	case s.ch <- LikeTask{likeRecord.StoryID, likeRecord.Fingerprint, action}:
	default:
		logrus.Info("SyncLikesWorker's channel is full, task dropped")
	}
}

func (s *syncLikesWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	const batchSize = 100
	batch := make([]LikeTask, 0, batchSize)
	for {
		select {
		case task := <-s.ch:
			batch = append(batch, task)
			if len(batch) == batchSize {
				s.flush(ctx, batch)
				batch = make([]LikeTask, 0, batchSize)
			}
		case <-ticker.C:
			s.flush(ctx, batch)
			batch = make([]LikeTask, 0, batchSize)
		case <-ctx.Done():
			logrus.Info("shutting down SyncLikesWorker, flushing remaining tasks...")
			s.drain(&batch)
			s.flush(context.Background(), batch)
			return
		}
	}
}

// drain collects whatever is still queued so shutdown does not lose toggles.
func (s *syncLikesWorker) drain(batch *[]LikeTask) {
	for {
		select {
		case task := <-s.ch:
			*batch = append(*batch, task)
		default:
			return
		}
	}
}

type taskKey struct {
	storyID     int64
	fingerprint string
}

func (s *syncLikesWorker) flush(ctx context.Context, batch []LikeTask) {
	if len(batch) == 0 {
		return
	}

	tasks := make(map[taskKey]domain.LikeAction)
	for i := range batch {
		key := taskKey{
			storyID:     batch[i].StoryID,
			fingerprint: batch[i].Fingerprint,
		}
		tasks[key] = batch[i].Action
	}

	var changes domain.LikeStateChanges
	for key, action := range tasks {
		rec := domain.LikeRecord{
			StoryID:     key.storyID,
			Fingerprint: key.fingerprint,
			CreatedAt:   time.Now(),
		}
		switch action {
		case domain.Like:
			changes.ToAdd = append(changes.ToAdd, rec)
		case domain.Unlike:
			changes.ToRemove = append(changes.ToRemove, rec)
		default:
			logrus.Errorf("unsupported action: %v", action)
		}
	}

	if err := s.dbRepo.ApplyLikeChanges(ctx, changes); err != nil {
		logrus.Errorf("failed to flush like changes: %v", err)
	}
}
