package client

import (
	"context"
	"sync"
)

// KnownStories is the set of story identifiers the backend supports. The API
// shim consults it to decide whether a request is worth sending at all.
type KnownStories struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewKnownStories(ids ...int64) *KnownStories {
	k := &KnownStories{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		k.ids[id] = struct{}{}
	}
	return k
}

func (k *KnownStories) Contains(storyID int64) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	_, ok := k.ids[storyID]
	return ok
}

// Replace swaps the whole set in one step.
func (k *KnownStories) Replace(ids []int64) {
	next := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	k.mu.Lock()
	k.ids = next
	k.mu.Unlock()
}

// RefreshFrom reloads the set from the catalog endpoint. On failure the
// previous set stays in place.
func (k *KnownStories) RefreshFrom(ctx context.Context, api *API) error {
	ids, err := api.StoryIDs(ctx)
	if err != nil {
		return err
	}
	k.Replace(ids)
	return nil
}
