package client

import (
	"context"
	"sync"
	"time"
)

// Phase tracks where a card sits in the optimistic-update cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseCommitted
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseCommitted:
		return "committed"
	case PhaseRolledBack:
		return "rolled back"
	default:
		return "idle"
	}
}

// Notice is a dismissible message shown after a rollback. Correctable notices
// carry a reason the reader can act on (fix the comment, wait out the limit);
// the rest are generic infrastructure apologies.
type Notice struct {
	Reason      string
	Correctable bool
}

// CardState is a point-in-time copy of a card's rendered state.
type CardState struct {
	Likes    int64
	HasLiked bool
	Comments []Comment
	Phase    Phase
	Notice   *Notice
}

// Card reconciles one story's interaction state with the backend. Mutations
// update the local state immediately, then either commit the authoritative
// response or roll back to the pre-mutation values when the request fails.
// Responses are applied in arrival order; a response for a request older than
// the last applied one is discarded as stale.
type Card struct {
	api     *API
	storyID int64

	mu       sync.Mutex
	likes    int64
	hasLiked bool
	comments []Comment
	phase    Phase
	notice   *Notice

	seq      uint64
	applied  uint64
	inFlight int
	nextTemp int64
}

func NewCard(api *API, storyID int64) *Card {
	return &Card{api: api, storyID: storyID, nextTemp: -1}
}

// Load replaces the card's state with what the backend reports.
func (c *Card) Load(ctx context.Context) error {
	likes, err := c.api.Likes(ctx, c.storyID)
	if err != nil {
		return err
	}
	list, err := c.api.Comments(ctx, c.storyID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.likes = likes.Likes
	c.hasLiked = likes.HasLiked
	c.comments = list.Comments
	c.phase = PhaseIdle
	c.notice = nil
	return nil
}

// ToggleLike flips the like state optimistically and reconciles with the
// server's answer. The returned error mirrors what the notice records.
func (c *Card) ToggleLike(ctx context.Context) error {
	c.mu.Lock()
	prevLikes, prevLiked := c.likes, c.hasLiked
	c.hasLiked = !c.hasLiked
	if c.hasLiked {
		c.likes++
	} else if c.likes > 0 {
		c.likes--
	}
	want := c.hasLiked
	c.seq++
	mySeq := c.seq
	c.inFlight++
	c.phase = PhasePending
	c.notice = nil
	c.mu.Unlock()

	res, err := c.api.ToggleLike(ctx, c.storyID, want)
	c.finishToggle(mySeq, res, err, prevLikes, prevLiked)
	return err
}

// finishToggle applies one toggle response under the card lock. Stale
// responses (older than the last applied request) are dropped so late
// arrivals cannot overwrite newer state.
func (c *Card) finishToggle(mySeq uint64, res LikeState, err error, prevLikes int64, prevLiked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--

	if mySeq > c.applied {
		c.applied = mySeq
		if err != nil {
			c.likes = prevLikes
			c.hasLiked = prevLiked
			c.phase = PhaseRolledBack
			c.notice = noticeFor(err)
			return
		}
		c.likes = res.Likes
		c.hasLiked = res.HasLiked
	}

	if c.inFlight == 0 && c.phase == PhasePending {
		c.phase = PhaseCommitted
	}
}

// SubmitComment shows the comment immediately and swaps in the stored row
// once the backend accepts it. A rejection removes the provisional comment
// and surfaces the reason.
func (c *Card) SubmitComment(ctx context.Context, author, body string) error {
	c.mu.Lock()
	tempID := c.nextTemp
	c.nextTemp--
	provisional := Comment{
		ID:        tempID,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now().Format("2006-01-02 15:04:05"),
	}
	c.comments = append([]Comment{provisional}, c.comments...)
	c.phase = PhasePending
	c.notice = nil
	c.mu.Unlock()

	stored, err := c.api.SubmitComment(ctx, c.storyID, author, body)

	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.commentIndex(tempID)

	if err != nil {
		if idx >= 0 {
			c.comments = append(c.comments[:idx], c.comments[idx+1:]...)
		}
		c.phase = PhaseRolledBack
		c.notice = noticeFor(err)
		return err
	}

	if idx >= 0 {
		c.comments[idx] = stored
	}
	c.phase = PhaseCommitted
	return nil
}

func (c *Card) commentIndex(id int64) int {
	for i := range c.comments {
		if c.comments[i].ID == id {
			return i
		}
	}
	return -1
}

// State returns a copy safe to render from.
func (c *Card) State() CardState {
	c.mu.Lock()
	defer c.mu.Unlock()

	comments := make([]Comment, len(c.comments))
	copy(comments, c.comments)

	var notice *Notice
	if c.notice != nil {
		n := *c.notice
		notice = &n
	}
	return CardState{
		Likes:    c.likes,
		HasLiked: c.hasLiked,
		Comments: comments,
		Phase:    c.phase,
		Notice:   notice,
	}
}

// DismissNotice clears the rollback message once the reader has seen it.
func (c *Card) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
	if c.phase == PhaseRolledBack {
		c.phase = PhaseIdle
	}
}

func noticeFor(err error) *Notice {
	if reqErr, ok := err.(*RequestError); ok && reqErr.Correctable() {
		return &Notice{Reason: reqErr.Reason, Correctable: true}
	}
	return &Notice{Reason: "could not reach the server, please try again"}
}
