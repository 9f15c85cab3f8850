package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/histodesop/story-interactions/domain"
	"github.com/histodesop/story-interactions/internal/identity"
	"github.com/histodesop/story-interactions/internal/rest/request"
	"github.com/histodesop/story-interactions/internal/rest/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// InteractionHandler represent the httphandler for story interactions
type InteractionHandler struct {
	Service domain.InteractionUsecase
	Catalog domain.StoryCatalog
}

func NewInteractionHandler(svc domain.InteractionUsecase, catalog domain.StoryCatalog) *InteractionHandler {
	return &InteractionHandler{
		Service: svc,
		Catalog: catalog,
	}
}

func storyIDParam(c *gin.Context) (int64, bool) {
	idP, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ResponseError{Message: domain.ErrNotFound.Error()})
		return 0, false
	}
	return int64(idP), true
}

// GetLikes returns the like count and whether the caller has liked the story
func (h *InteractionHandler) GetLikes(c *gin.Context) {
	id, ok := storyIDParam(c)
	if !ok {
		return
	}
	fp := identity.FromRequest(c.Request)

	state, err := h.Service.Likes(c.Request.Context(), id, fp)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errMessage(err)})
		return
	}

	c.JSON(http.StatusOK, response.NewLikeStateFromDomain(state))
}

// ToggleLike applies the desired like state and returns the authoritative result
func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	id, ok := storyIDParam(c)
	if !ok {
		return
	}

	var req request.ToggleLike
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: domain.ErrBadParamInput.Error()})
		return
	}
	fp := identity.FromRequest(c.Request)

	state, err := h.Service.ToggleLike(c.Request.Context(), id, fp, *req.Liked)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errMessage(err)})
		return
	}

	c.JSON(http.StatusOK, response.NewLikeStateFromDomain(state))
}

// FetchComments returns the story's comments, newest first
func (h *InteractionHandler) FetchComments(c *gin.Context) {
	id, ok := storyIDParam(c)
	if !ok {
		return
	}

	comments, err := h.Service.Comments(c.Request.Context(), id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errMessage(err)})
		return
	}

	c.JSON(http.StatusOK, response.NewCommentListFromDomain(id, comments))
}

// CreateComment submits a comment through the validation/spam/rate-limit pipeline
func (h *InteractionHandler) CreateComment(c *gin.Context) {
	id, ok := storyIDParam(c)
	if !ok {
		return
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: domain.ErrBadParamInput.Error()})
		return
	}
	fp := identity.FromRequest(c.Request)

	created, err := h.Service.SubmitComment(c.Request.Context(), id, req.Author, req.Body, fp)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, response.NewCommentFromDomain(&created))
}

// StoryStats returns one story's interaction summary
func (h *InteractionHandler) StoryStats(c *gin.Context) {
	id, ok := storyIDParam(c)
	if !ok {
		return
	}

	stats, err := h.Service.Stats(c.Request.Context(), id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errMessage(err)})
		return
	}

	c.JSON(http.StatusOK, response.NewStoryStatsFromDomain(stats))
}

// GeneralStats returns site-wide interaction totals
func (h *InteractionHandler) GeneralStats(c *gin.Context) {
	stats, err := h.Service.GeneralStats(c.Request.Context())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errMessage(err)})
		return
	}

	c.JSON(http.StatusOK, response.NewSiteStatsFromDomain(stats))
}

// StoryIDs exposes the catalog identifiers so clients can keep their
// known-story set in sync instead of hard-coding it.
func (h *InteractionHandler) StoryIDs(c *gin.Context) {
	ids, err := h.Catalog.IDs(c.Request.Context())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: errMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"storyIds": ids})
}

// getStatusCode maps service errors to HTTP codes. Rejections are
// client-correctable and never logged as server errors.
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if rej, ok := domain.AsRejection(err); ok {
		if rej.Kind == domain.RejectionRateLimited {
			return http.StatusTooManyRequests
		}
		return http.StatusBadRequest
	}

	logrus.Error(err)
	switch err {
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrBadParamInput:
		return http.StatusBadRequest
	case domain.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errMessage keeps infrastructure detail out of responses; rejection reasons
// pass through untouched so the client can show them.
func errMessage(err error) string {
	if _, ok := domain.AsRejection(err); ok {
		return err.Error()
	}
	switch err {
	case domain.ErrNotFound, domain.ErrBadParamInput, domain.ErrConflict:
		return err.Error()
	default:
		return "something went wrong, please try again"
	}
}
