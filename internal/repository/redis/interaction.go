package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/histodesop/story-interactions/domain"
)

const (
	KeyLikedBy = "interaction:story:%d:likedBy"

	// seedMember marks a set as loaded so an empty liked set is distinguishable
	// from a never-seeded one.
	seedMember = "__seed__"

	likedSetTTLSec = 1800
)

type likeCache struct {
	client *redis.Client
}

var _ domain.LikeCache = (*likeCache)(nil)

func NewLikeCache(client *redis.Client) *likeCache {
	return &likeCache{
		client,
	}
}

// toggleScript flips membership atomically and reports {changed, newCount}.
// {-1, -1} means the set has not been seeded and the caller must rebuild it.
var toggleScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return {-1, -1}
	end

	local changed
	if ARGV[2] == '1' then
		changed = redis.call('SADD', KEYS[1], ARGV[1])
	else
		changed = redis.call('SREM', KEYS[1], ARGV[1])
	end
	redis.call('EXPIRE', KEYS[1], ARGV[3])

	local count = redis.call('SCARD', KEYS[1]) - 1
	return {changed, count}
`)

func (c *likeCache) ToggleLike(ctx context.Context, storyID int64, fingerprint string, want bool) (bool, int64, error) {
	key := fmt.Sprintf(KeyLikedBy, storyID)
	wantArg := "0"
	if want {
		wantArg = "1"
	}

	res, err := toggleScript.Run(ctx, c.client, []string{key}, fingerprint, wantArg, likedSetTTLSec).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("unexpected toggle script reply: %v", res)
	}
	if res[0] == -1 {
		return false, 0, domain.ErrCacheMiss
	}

	return res[0] == 1, res[1], nil
}

func (c *likeCache) LikeState(ctx context.Context, storyID int64, fingerprint string) (domain.LikeState, error) {
	key := fmt.Sprintf(KeyLikedBy, storyID)

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return domain.LikeState{}, err
	}
	if exists == 0 {
		return domain.LikeState{}, domain.ErrCacheMiss
	}

	count, err := c.client.SCard(ctx, key).Result()
	if err != nil {
		return domain.LikeState{}, err
	}

	liked, err := c.client.SIsMember(ctx, key, fingerprint).Result()
	if err != nil {
		return domain.LikeState{}, err
	}

	return domain.LikeState{
		StoryID:  storyID,
		Count:    count - 1, // exclude the seed marker
		HasLiked: liked,
	}, nil
}

func (c *likeCache) SeedLikedSet(ctx context.Context, storyID int64, fingerprints []string) error {
	key := fmt.Sprintf(KeyLikedBy, storyID)

	members := make([]any, 0, len(fingerprints)+1)
	members = append(members, seedMember)
	for _, fp := range fingerprints {
		members = append(members, fp)
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SAdd(ctx, key, members...)
		pipe.Expire(ctx, key, time.Duration(likedSetTTLSec)*time.Second)
		return nil
	})
	return err
}

func (c *likeCache) InvalidateStory(ctx context.Context, storyID int64) error {
	return c.client.Del(ctx, fmt.Sprintf(KeyLikedBy, storyID)).Err()
}
