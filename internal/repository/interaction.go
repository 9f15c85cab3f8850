package repository

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/histodesop/story-interactions/domain"
)

// interactionRepository coordinates the redis liked-set cache, the mysql store
// and the write-behind worker. Mutations are serialized per story so concurrent
// toggles or appends on the same story cannot lose updates; different stories
// do not contend.
type interactionRepository struct {
	db         domain.InteractionDBRepository
	cache      domain.LikeCache
	syncWorker domain.SyncLikesWorker

	rebuildGroup singleflight.Group

	mu         sync.Mutex
	storyLocks map[int64]*sync.Mutex
}

var _ domain.InteractionRepository = (*interactionRepository)(nil)

func NewInteractionRepository(db domain.InteractionDBRepository, cache domain.LikeCache, w domain.SyncLikesWorker) *interactionRepository {
	return &interactionRepository{
		db:         db,
		cache:      cache,
		syncWorker: w,
		storyLocks: make(map[int64]*sync.Mutex),
	}
}

func (r *interactionRepository) storyLock(storyID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.storyLocks[storyID]
	if !ok {
		l = &sync.Mutex{}
		r.storyLocks[storyID] = l
	}
	return l
}

func storeErr(op string, err error) error {
	logrus.Errorf("interaction store: %s: %v", op, err)
	return domain.ErrStoreUnavailable
}

func (r *interactionRepository) LikeState(ctx context.Context, storyID int64, identity string) (domain.LikeState, error) {
	state, err := r.cache.LikeState(ctx, storyID, identity)
	if err == nil {
		return state, nil
	}

	if errors.Is(err, domain.ErrCacheMiss) {
		if rebuildErr := r.rebuildLikedSet(ctx, storyID); rebuildErr == nil {
			state, err = r.cache.LikeState(ctx, storyID, identity)
			if err == nil {
				return state, nil
			}
		}
	}
	logrus.Warnf("like cache unavailable for story %d, reading from db: %v", storyID, err)

	return r.likeStateFromDB(ctx, storyID, identity)
}

func (r *interactionRepository) ApplyLikeToggle(ctx context.Context, storyID int64, identity string, wantLiked bool) (domain.LikeState, error) {
	lock := r.storyLock(storyID)
	lock.Lock()
	defer lock.Unlock()

	changed, count, err := r.cache.ToggleLike(ctx, storyID, identity, wantLiked)
	if errors.Is(err, domain.ErrCacheMiss) {
		if rebuildErr := r.rebuildLikedSet(ctx, storyID); rebuildErr != nil {
			logrus.Warnf("failed to rebuild liked set for story %d: %v", storyID, rebuildErr)
			return r.toggleDirect(ctx, storyID, identity, wantLiked)
		}
		changed, count, err = r.cache.ToggleLike(ctx, storyID, identity, wantLiked)
	}
	if err != nil {
		logrus.Warnf("like cache toggle failed for story %d, falling back to db: %v", storyID, err)
		return r.toggleDirect(ctx, storyID, identity, wantLiked)
	}

	if changed {
		action := domain.Unlike
		if wantLiked {
			action = domain.Like
		}
		r.syncWorker.Send(domain.LikeRecord{
			StoryID:     storyID,
			Fingerprint: identity,
			CreatedAt:   time.Now(),
		}, action)
	}

	return domain.LikeState{
		StoryID:  storyID,
		Count:    count,
		HasLiked: wantLiked,
	}, nil
}

// toggleDirect mutates mysql synchronously. Used when redis is unreachable so
// likes keep working, at the cost of the hot path.
func (r *interactionRepository) toggleDirect(ctx context.Context, storyID int64, identity string, wantLiked bool) (domain.LikeState, error) {
	has, err := r.db.HasLiked(ctx, storyID, identity)
	if err != nil {
		return domain.LikeState{}, storeErr("has liked", err)
	}

	if wantLiked != has {
		rec := domain.LikeRecord{StoryID: storyID, Fingerprint: identity, CreatedAt: time.Now()}
		changes := domain.LikeStateChanges{}
		if wantLiked {
			changes.ToAdd = append(changes.ToAdd, rec)
		} else {
			changes.ToRemove = append(changes.ToRemove, rec)
		}
		if err := r.db.ApplyLikeChanges(ctx, changes); err != nil {
			return domain.LikeState{}, storeErr("apply like changes", err)
		}
	}

	count, err := r.db.CountLikes(ctx, storyID)
	if err != nil {
		return domain.LikeState{}, storeErr("count likes", err)
	}

	return domain.LikeState{
		StoryID:  storyID,
		Count:    count,
		HasLiked: wantLiked,
	}, nil
}

func (r *interactionRepository) likeStateFromDB(ctx context.Context, storyID int64, identity string) (domain.LikeState, error) {
	count, err := r.db.CountLikes(ctx, storyID)
	if err != nil {
		return domain.LikeState{}, storeErr("count likes", err)
	}
	has, err := r.db.HasLiked(ctx, storyID, identity)
	if err != nil {
		return domain.LikeState{}, storeErr("has liked", err)
	}
	return domain.LikeState{StoryID: storyID, Count: count, HasLiked: has}, nil
}

func (r *interactionRepository) rebuildLikedSet(ctx context.Context, storyID int64) error {
	key := strconv.FormatInt(storyID, 10)
	_, err, _ := r.rebuildGroup.Do(key, func() (any, error) {
		fingerprints, err := r.db.LikedFingerprints(ctx, storyID)
		if err != nil {
			return nil, err
		}
		return nil, r.cache.SeedLikedSet(ctx, storyID, fingerprints)
	})
	return err
}

func (r *interactionRepository) AppendComment(ctx context.Context, c *domain.Comment, since time.Time, maxInWindow int64) (bool, error) {
	lock := r.storyLock(c.StoryID)
	lock.Lock()
	defer lock.Unlock()

	recent, err := r.db.CountRecentByIdentity(ctx, c.StoryID, c.OriginIdentity, since)
	if err != nil {
		return false, storeErr("count recent comments", err)
	}
	if recent >= maxInWindow {
		return false, nil
	}

	if err := r.db.StoreComment(ctx, c); err != nil {
		return false, storeErr("store comment", err)
	}
	return true, nil
}

func (r *interactionRepository) FetchComments(ctx context.Context, storyID int64) ([]domain.Comment, error) {
	res, err := r.db.FetchComments(ctx, storyID)
	if err != nil {
		return nil, storeErr("fetch comments", err)
	}
	return res, nil
}

func (r *interactionRepository) Stats(ctx context.Context, storyID int64) (domain.StoryStats, error) {
	likes, err := r.db.CountLikes(ctx, storyID)
	if err != nil {
		return domain.StoryStats{}, storeErr("count likes", err)
	}
	comments, err := r.db.CountComments(ctx, storyID)
	if err != nil {
		return domain.StoryStats{}, storeErr("count comments", err)
	}
	last, err := r.db.LastActivity(ctx, storyID)
	if err != nil {
		return domain.StoryStats{}, storeErr("last activity", err)
	}

	return domain.StoryStats{
		Likes:        likes,
		Comments:     comments,
		LastActivity: last,
	}, nil
}

func (r *interactionRepository) TotalLikes(ctx context.Context) (int64, error) {
	count, err := r.db.TotalLikes(ctx)
	if err != nil {
		return 0, storeErr("total likes", err)
	}
	return count, nil
}

func (r *interactionRepository) TotalComments(ctx context.Context) (int64, error) {
	count, err := r.db.TotalComments(ctx)
	if err != nil {
		return 0, storeErr("total comments", err)
	}
	return count, nil
}

func (r *interactionRepository) StoriesWithInteractions(ctx context.Context) (int64, error) {
	count, err := r.db.StoriesWithInteractions(ctx)
	if err != nil {
		return 0, storeErr("stories with interactions", err)
	}
	return count, nil
}
