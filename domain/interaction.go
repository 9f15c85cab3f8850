package domain

import (
	"context"
	"time"
)

// StoryInteraction is the per-story aggregate: like state plus comment thread.
// LikeCount is derived from LikedBy; membership in LikedBy is the source of truth.
type StoryInteraction struct {
	StoryID   int64     // Owning story identifier (catalog key)
	LikeCount int64     // Always equals len(LikedBy)
	LikedBy   []string  // Fingerprints that have liked this story, set semantics
	Comments  []Comment // Insertion order as stored
	UpdatedAt time.Time // Last mutation timestamp
}

// Comment is a single reader comment on a story.
// OriginIdentity is kept server-side for rate limiting and never leaves the service layer.
type Comment struct {
	ID             int64     `json:"id"`
	StoryID        int64     `json:"story_id"`
	Author         string    `json:"author"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
	OriginIdentity string    `json:"-"`
}

// LikeState is the authoritative answer to "how many likes, and did this identity like it".
type LikeState struct {
	StoryID  int64
	Count    int64
	HasLiked bool
}

// StoryStats summarizes one story's interaction record.
type StoryStats struct {
	Likes        int64
	Comments     int64
	LastActivity time.Time // zero when the story has no interactions yet
}

// SiteStats aggregates interaction totals across every story with a record.
type SiteStats struct {
	TotalLikes    int64
	TotalComments int64
	TotalStories  int64
	AvgLikes      float64
	AvgComments   float64
}

// InteractionRepository is the coordinating store contract consumed by the usecase
// layer. Mutating operations are serialized per story; a missing record behaves as
// the zero-value aggregate, never as an error.
type InteractionRepository interface {
	// LikeState returns the current like count and whether identity has liked the story.
	LikeState(ctx context.Context, storyID int64, identity string) (LikeState, error)

	// ApplyLikeToggle is an atomic read-modify-write: inserts identity when wantLiked
	// and absent, removes it when !wantLiked and present, no-ops otherwise.
	// Returns the post-mutation state.
	ApplyLikeToggle(ctx context.Context, storyID int64, identity string, wantLiked bool) (LikeState, error)

	// AppendComment stores c and backfills its assigned ID and CreatedAt,
	// unless c's identity already has maxInWindow comments on the story since
	// the given instant. The window count and the append share the story's
	// critical section, so concurrent submissions cannot exceed the window.
	// Returns false when the limit was hit.
	AppendComment(ctx context.Context, c *Comment, since time.Time, maxInWindow int64) (bool, error)

	// FetchComments returns every comment for the story in insertion order.
	FetchComments(ctx context.Context, storyID int64) ([]Comment, error)

	// Stats returns the per-story interaction summary.
	Stats(ctx context.Context, storyID int64) (StoryStats, error)

	// TotalLikes / TotalComments / StoriesWithInteractions back the site-wide stats.
	TotalLikes(ctx context.Context) (int64, error)
	TotalComments(ctx context.Context) (int64, error)
	StoriesWithInteractions(ctx context.Context) (int64, error)
}

// InteractionDBRepository is the persistence contract the coordinating layer
// delegates to. One row per like in story_likes, one per comment in comments;
// the aggregate is derived, so the count/membership invariant is structural.
type InteractionDBRepository interface {
	LikedFingerprints(ctx context.Context, storyID int64) ([]string, error)
	CountLikes(ctx context.Context, storyID int64) (int64, error)
	HasLiked(ctx context.Context, storyID int64, fingerprint string) (bool, error)

	// ApplyLikeChanges applies a batch of like/unlike records in one transaction.
	// Adds are idempotent; removes of absent rows are no-ops.
	ApplyLikeChanges(ctx context.Context, changes LikeStateChanges) error

	StoreComment(ctx context.Context, c *Comment) error
	FetchComments(ctx context.Context, storyID int64) ([]Comment, error)
	CountRecentByIdentity(ctx context.Context, storyID int64, identity string, since time.Time) (int64, error)
	CountComments(ctx context.Context, storyID int64) (int64, error)
	LastActivity(ctx context.Context, storyID int64) (time.Time, error)

	TotalLikes(ctx context.Context) (int64, error)
	TotalComments(ctx context.Context) (int64, error)
	StoriesWithInteractions(ctx context.Context) (int64, error)
}

// LikeCache is the hot-path liked-set store. Implementations must make ToggleLike
// atomic per story. ErrCacheMiss means the story's set has not been seeded yet and
// the caller should rebuild it from the database.
type LikeCache interface {
	// ToggleLike flips membership toward want. Returns whether anything changed
	// and the post-toggle count.
	ToggleLike(ctx context.Context, storyID int64, fingerprint string, want bool) (changed bool, count int64, err error)

	// LikeState reads count and membership without mutating.
	LikeState(ctx context.Context, storyID int64, fingerprint string) (LikeState, error)

	// SeedLikedSet replaces the story's liked set with the given fingerprints.
	SeedLikedSet(ctx context.Context, storyID int64, fingerprints []string) error

	// InvalidateStory drops the story's cached set.
	InvalidateStory(ctx context.Context, storyID int64) error
}

// InteractionUsecase is the business contract exposed to the REST layer.
type InteractionUsecase interface {
	Likes(ctx context.Context, storyID int64, identity string) (LikeState, error)
	ToggleLike(ctx context.Context, storyID int64, identity string, wantLiked bool) (LikeState, error)
	SubmitComment(ctx context.Context, storyID int64, author, body, identity string) (Comment, error)
	Comments(ctx context.Context, storyID int64) ([]Comment, error)
	Stats(ctx context.Context, storyID int64) (StoryStats, error)
	GeneralStats(ctx context.Context) (SiteStats, error)
}

// Verdict is a content-filter classification result.
type Verdict struct {
	Clean  bool
	Reason string
}

// ContentFilter flags comment text that looks like spam. Best effort, not a
// security boundary.
type ContentFilter interface {
	Classify(text string) Verdict
}
