package domain

import (
	"context"
	"time"
)

type LikeAction int8

const (
	Like   LikeAction = 1
	Unlike LikeAction = -1
)

func (l LikeAction) String() string {
	switch l {
	case Like:
		return "ADD"
	case Unlike:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// LikeRecord is one identity's like on one story.
type LikeRecord struct {
	StoryID     int64
	Fingerprint string
	CreatedAt   time.Time
}

// LikeStateChanges is a deduplicated batch of like mutations to persist.
type LikeStateChanges struct {
	ToAdd    []LikeRecord
	ToRemove []LikeRecord
}

type SyncLikesWorker interface {
	Start(ctx context.Context)

	// Send adds a like record if action == Like, and removes a like record if action == Unlike
	Send(likeRecord LikeRecord, action LikeAction)
}
