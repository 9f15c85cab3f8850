package response

import "github.com/histodesop/story-interactions/domain"

const DateTimeFormat = "2006-01-02 15:04:05"

type LikeState struct {
	StoryID  int64 `json:"storyId"`
	Likes    int64 `json:"likes"`
	HasLiked bool  `json:"hasLiked"`
}

// NewLikeStateFromDomain: Domain -> Response
func NewLikeStateFromDomain(s domain.LikeState) LikeState {
	return LikeState{
		StoryID:  s.StoryID,
		Likes:    s.Count,
		HasLiked: s.HasLiked,
	}
}

type Comment struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

func NewCommentFromDomain(c *domain.Comment) Comment {
	return Comment{
		ID:        c.ID,
		Author:    c.Author,
		Body:      c.Body,
		CreatedAt: c.CreatedAt.Format(DateTimeFormat),
	}
}

type CommentList struct {
	StoryID  int64     `json:"storyId"`
	Comments []Comment `json:"comments"`
	Total    int64     `json:"total"`
}

func NewCommentListFromDomain(storyID int64, comments []domain.Comment) CommentList {
	res := make([]Comment, len(comments))
	for i := range comments {
		res[i] = NewCommentFromDomain(&comments[i])
	}
	return CommentList{
		StoryID:  storyID,
		Comments: res,
		Total:    int64(len(res)),
	}
}

type StoryStats struct {
	Likes        int64   `json:"likes"`
	Comments     int64   `json:"comments"`
	LastActivity *string `json:"lastActivity"`
}

func NewStoryStatsFromDomain(s domain.StoryStats) StoryStats {
	res := StoryStats{
		Likes:    s.Likes,
		Comments: s.Comments,
	}
	if !s.LastActivity.IsZero() {
		formatted := s.LastActivity.Format(DateTimeFormat)
		res.LastActivity = &formatted
	}
	return res
}

type SiteStats struct {
	TotalLikes              int64   `json:"totalLikes"`
	TotalComments           int64   `json:"totalComments"`
	TotalStories            int64   `json:"totalStories"`
	AverageLikesPerStory    float64 `json:"averageLikesPerStory"`
	AverageCommentsPerStory float64 `json:"averageCommentsPerStory"`
}

func NewSiteStatsFromDomain(s domain.SiteStats) SiteStats {
	return SiteStats{
		TotalLikes:              s.TotalLikes,
		TotalComments:           s.TotalComments,
		TotalStories:            s.TotalStories,
		AverageLikesPerStory:    s.AvgLikes,
		AverageCommentsPerStory: s.AvgComments,
	}
}
