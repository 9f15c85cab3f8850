// Package client is the presentation-tier companion to the interaction API:
// a typed HTTP client wrapped by a reconciliation layer that keeps story cards
// visually consistent when the backend rejects, fails, or does not know a
// story yet.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type LikeState struct {
	StoryID  int64 `json:"storyId"`
	Likes    int64 `json:"likes"`
	HasLiked bool  `json:"hasLiked"`
}

type Comment struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

type CommentList struct {
	StoryID  int64     `json:"storyId"`
	Comments []Comment `json:"comments"`
	Total    int64     `json:"total"`
}

// RequestError is a non-success response. Reason carries the server's message
// when one was provided (rejection reasons pass through verbatim).
type RequestError struct {
	StatusCode int
	Reason     string
}

func (e *RequestError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Correctable reports whether the failure is something the reader can fix
// (validation, spam, rate limit) rather than an infrastructure fault.
func (e *RequestError) Correctable() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusTooManyRequests
}

// API is the typed client for the interaction endpoints. When a KnownStories
// set is attached, requests for identifiers outside it are short-circuited and
// answered with safe zero-value defaults instead of reaching the network.
// That is a stopgap for deployment skew, not a general error-hiding mechanism.
type API struct {
	base  string
	http  *http.Client
	known *KnownStories
}

func NewAPI(base string, known *KnownStories) *API {
	return &API{
		base:  base,
		http:  &http.Client{Timeout: 10 * time.Second},
		known: known,
	}
}

// suppressed reports whether the shim should answer for this story locally.
// Only identifiers already known to be unsupported are suppressed; genuine
// failures for known identifiers must surface.
func (a *API) suppressed(storyID int64) bool {
	return a.known != nil && !a.known.Contains(storyID)
}

func (a *API) Likes(ctx context.Context, storyID int64) (LikeState, error) {
	if a.suppressed(storyID) {
		return LikeState{StoryID: storyID}, nil
	}
	var res LikeState
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/stories/%d/likes", storyID), nil, &res)
	return res, err
}

func (a *API) ToggleLike(ctx context.Context, storyID int64, liked bool) (LikeState, error) {
	if a.suppressed(storyID) {
		return LikeState{StoryID: storyID}, nil
	}
	var res LikeState
	err := a.do(ctx, http.MethodPost, fmt.Sprintf("/stories/%d/likes", storyID),
		map[string]bool{"liked": liked}, &res)
	return res, err
}

func (a *API) Comments(ctx context.Context, storyID int64) (CommentList, error) {
	if a.suppressed(storyID) {
		return CommentList{StoryID: storyID, Comments: []Comment{}}, nil
	}
	var res CommentList
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/stories/%d/comments", storyID), nil, &res)
	return res, err
}

func (a *API) SubmitComment(ctx context.Context, storyID int64, author, body string) (Comment, error) {
	if a.suppressed(storyID) {
		// echo locally so the card stays consistent on skewed deployments
		return Comment{Author: author, Body: body, CreatedAt: time.Now().Format("2006-01-02 15:04:05")}, nil
	}
	var res Comment
	err := a.do(ctx, http.MethodPost, fmt.Sprintf("/stories/%d/comments", storyID),
		map[string]string{"author": author, "body": body}, &res)
	return res, err
}

func (a *API) StoryIDs(ctx context.Context) ([]int64, error) {
	var res struct {
		StoryIDs []int64 `json:"storyIds"`
	}
	if err := a.do(ctx, http.MethodGet, "/catalog/ids", nil, &res); err != nil {
		return nil, err
	}
	return res.StoryIDs, nil
}

func (a *API) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &RequestError{StatusCode: resp.StatusCode, Reason: errBody.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
