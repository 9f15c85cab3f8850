package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/histodesop/story-interactions/domain"
)

type stubUsecase struct {
	likeState  domain.LikeState
	comment    domain.Comment
	comments   []domain.Comment
	stats      domain.StoryStats
	site       domain.SiteStats
	submitErr  error
	toggleErr  error
	likesErr   error
	lastWanted bool
}

func (s *stubUsecase) Likes(_ context.Context, storyID int64, _ string) (domain.LikeState, error) {
	if s.likesErr != nil {
		return domain.LikeState{}, s.likesErr
	}
	st := s.likeState
	st.StoryID = storyID
	return st, nil
}

func (s *stubUsecase) ToggleLike(_ context.Context, storyID int64, _ string, wantLiked bool) (domain.LikeState, error) {
	if s.toggleErr != nil {
		return domain.LikeState{}, s.toggleErr
	}
	s.lastWanted = wantLiked
	st := s.likeState
	st.StoryID = storyID
	st.HasLiked = wantLiked
	return st, nil
}

func (s *stubUsecase) SubmitComment(_ context.Context, storyID int64, author, body, _ string) (domain.Comment, error) {
	if s.submitErr != nil {
		return domain.Comment{}, s.submitErr
	}
	c := s.comment
	c.StoryID = storyID
	c.Author = author
	c.Body = body
	return c, nil
}

func (s *stubUsecase) Comments(_ context.Context, _ int64) ([]domain.Comment, error) {
	return s.comments, nil
}

func (s *stubUsecase) Stats(_ context.Context, _ int64) (domain.StoryStats, error) {
	return s.stats, nil
}

func (s *stubUsecase) GeneralStats(_ context.Context) (domain.SiteStats, error) {
	return s.site, nil
}

type stubCatalog struct {
	ids []int64
}

func (c *stubCatalog) Exists(_ context.Context, storyID int64) (bool, error) {
	for _, id := range c.ids {
		if id == storyID {
			return true, nil
		}
	}
	return false, nil
}

func (c *stubCatalog) IDs(_ context.Context) ([]int64, error) {
	return c.ids, nil
}

func newRouter(svc domain.InteractionUsecase, catalog domain.StoryCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewInteractionHandler(svc, catalog)

	r.GET("/catalog/ids", h.StoryIDs)
	r.GET("/stats/general", h.GeneralStats)
	r.GET("/stories/:id/likes", h.GetLikes)
	r.POST("/stories/:id/likes", h.ToggleLike)
	r.GET("/stories/:id/comments", h.FetchComments)
	r.POST("/stories/:id/comments", h.CreateComment)
	r.GET("/stories/:id/stats", h.StoryStats)
	return r
}

func TestGetLikes(t *testing.T) {
	svc := &stubUsecase{likeState: domain.LikeState{Count: 5, HasLiked: true}}
	r := newRouter(svc, &stubCatalog{ids: []int64{7}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stories/7/likes", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 7, body["storyId"])
	assert.EqualValues(t, 5, body["likes"])
	assert.Equal(t, true, body["hasLiked"])
}

func TestToggleLikeBindsFalse(t *testing.T) {
	svc := &stubUsecase{likeState: domain.LikeState{Count: 4}}
	r := newRouter(svc, &stubCatalog{ids: []int64{7}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/stories/7/likes", strings.NewReader(`{"liked": false}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.lastWanted)
}

func TestToggleLikeMissingBody(t *testing.T) {
	r := newRouter(&stubUsecase{}, &stubCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/stories/7/likes", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleLikeUnknownStory(t *testing.T) {
	svc := &stubUsecase{toggleErr: domain.ErrNotFound}
	r := newRouter(svc, &stubCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/stories/99/likes", strings.NewReader(`{"liked": true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBadStoryIDParam(t *testing.T) {
	r := newRouter(&stubUsecase{}, &stubCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stories/not-a-number/likes", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateComment(t *testing.T) {
	svc := &stubUsecase{comment: domain.Comment{ID: 12, CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}}
	r := newRouter(svc, &stubCatalog{ids: []int64{7}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/stories/7/comments",
		strings.NewReader(`{"author": "Ana", "body": "a perfectly fine comment"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 12, body["id"])
	assert.Equal(t, "Ana", body["author"])
	assert.NotContains(t, body, "originIdentity")
}

func TestCreateCommentValidationRejection(t *testing.T) {
	svc := &stubUsecase{submitErr: domain.NewValidationRejection("comment must be at least 10 characters")}
	r := newRouter(svc, &stubCatalog{ids: []int64{7}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/stories/7/comments",
		strings.NewReader(`{"author": "Ana", "body": "short"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ResponseError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "comment must be at least 10 characters", body.Message)
}

func TestCreateCommentRateLimited(t *testing.T) {
	svc := &stubUsecase{submitErr: domain.NewRateLimitRejection("comment limit reached, try again in an hour")}
	r := newRouter(svc, &stubCatalog{ids: []int64{7}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/stories/7/comments",
		strings.NewReader(`{"author": "Ana", "body": "a perfectly fine comment"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestInfrastructureFaultIsGeneric(t *testing.T) {
	svc := &stubUsecase{likesErr: domain.ErrStoreUnavailable}
	r := newRouter(svc, &stubCatalog{ids: []int64{7}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stories/7/likes", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ResponseError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body.Message, "unavailable")
}

func TestStoryIDs(t *testing.T) {
	r := newRouter(&stubUsecase{}, &stubCatalog{ids: []int64{1, 2, 3}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/catalog/ids", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		StoryIDs []int64 `json:"storyIds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []int64{1, 2, 3}, body.StoryIDs)
}

func TestGeneralStatsRoute(t *testing.T) {
	svc := &stubUsecase{site: domain.SiteStats{TotalLikes: 9, TotalStories: 3, AvgLikes: 3}}
	r := newRouter(svc, &stubCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stats/general", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 9, body["totalLikes"])
}
