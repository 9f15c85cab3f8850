package interaction

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/histodesop/story-interactions/domain"
)

const (
	// Submission limit per identity per story inside the trailing window.
	maxCommentsPerWindow = 3
	rateLimitWindow      = time.Hour
)

var validate = validator.New()

// commentInput is validated after trimming, so the limits apply to what will
// actually be stored.
type commentInput struct {
	Author string `validate:"required,min=1,max=50"`
	Body   string `validate:"required,min=10,max=500"`
}

type Service struct {
	repo    domain.InteractionRepository
	catalog domain.StoryCatalog
	filter  domain.ContentFilter
}

var _ domain.InteractionUsecase = (*Service)(nil)

// NewService will create a new interaction service object
func NewService(repo domain.InteractionRepository, catalog domain.StoryCatalog, filter domain.ContentFilter) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		filter:  filter,
	}
}

func (s *Service) mustExist(ctx context.Context, storyID int64) error {
	exists, err := s.catalog.Exists(ctx, storyID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Likes(ctx context.Context, storyID int64, identity string) (domain.LikeState, error) {
	if err := s.mustExist(ctx, storyID); err != nil {
		return domain.LikeState{}, err
	}
	return s.repo.LikeState(ctx, storyID, identity)
}

// ToggleLike is idempotent: repeating the same desired state changes nothing
// after the first application.
func (s *Service) ToggleLike(ctx context.Context, storyID int64, identity string, wantLiked bool) (domain.LikeState, error) {
	if err := s.mustExist(ctx, storyID); err != nil {
		return domain.LikeState{}, err
	}
	return s.repo.ApplyLikeToggle(ctx, storyID, identity, wantLiked)
}

// SubmitComment runs the pipeline: trim, validate, content filter, rate limit,
// append. Every refusal is a *domain.Rejection with a reason the reader can act
// on; none is a server fault.
func (s *Service) SubmitComment(ctx context.Context, storyID int64, author, body, identity string) (domain.Comment, error) {
	if err := s.mustExist(ctx, storyID); err != nil {
		return domain.Comment{}, err
	}

	author = strings.TrimSpace(author)
	body = strings.TrimSpace(body)

	if err := validate.Struct(commentInput{Author: author, Body: body}); err != nil {
		return domain.Comment{}, domain.NewValidationRejection(validationReason(err))
	}

	for _, text := range []string{body, author} {
		if v := s.filter.Classify(text); !v.Clean {
			return domain.Comment{}, domain.NewSpamRejection(v.Reason)
		}
	}

	c := domain.Comment{
		StoryID:        storyID,
		Author:         author,
		Body:           body,
		OriginIdentity: identity,
	}
	since := time.Now().Add(-rateLimitWindow)
	allowed, err := s.repo.AppendComment(ctx, &c, since, maxCommentsPerWindow)
	if err != nil {
		return domain.Comment{}, err
	}
	if !allowed {
		return domain.Comment{}, domain.NewRateLimitRejection("comment limit reached, try again in an hour")
	}

	// the fingerprint stays server-side
	c.OriginIdentity = ""
	return c, nil
}

// Comments returns the story's comments newest first. The store keeps
// insertion order; display order is decided here.
func (s *Service) Comments(ctx context.Context, storyID int64) ([]domain.Comment, error) {
	if err := s.mustExist(ctx, storyID); err != nil {
		return nil, err
	}

	res, err := s.repo.FetchComments(ctx, storyID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})

	for i := range res {
		res[i].OriginIdentity = ""
	}
	return res, nil
}

func (s *Service) Stats(ctx context.Context, storyID int64) (domain.StoryStats, error) {
	if err := s.mustExist(ctx, storyID); err != nil {
		return domain.StoryStats{}, err
	}
	return s.repo.Stats(ctx, storyID)
}

func (s *Service) GeneralStats(ctx context.Context) (domain.SiteStats, error) {
	var likes, comments, stories int64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		likes, err = s.repo.TotalLikes(ctx)
		return
	})
	g.Go(func() (err error) {
		comments, err = s.repo.TotalComments(ctx)
		return
	})
	g.Go(func() (err error) {
		stories, err = s.repo.StoriesWithInteractions(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.SiteStats{}, err
	}

	stats := domain.SiteStats{
		TotalLikes:    likes,
		TotalComments: comments,
		TotalStories:  stories,
	}
	if stories > 0 {
		stats.AvgLikes = float64(likes) / float64(stories)
		stats.AvgComments = float64(comments) / float64(stories)
	}
	return stats, nil
}

func validationReason(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Field() {
		case "Author":
			if fe.Tag() == "max" {
				return "name must be at most 50 characters"
			}
			return "name is required"
		case "Body":
			switch fe.Tag() {
			case "min":
				return "comment must be at least 10 characters"
			case "max":
				return "comment must be at most 500 characters"
			}
			return "comment is required"
		}
	}
	return domain.ErrBadParamInput.Error()
}
