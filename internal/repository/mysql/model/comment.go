package model

import (
	"time"

	"github.com/histodesop/story-interactions/domain"
)

type Comment struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	StoryID        int64     `gorm:"column:story_id;not null"`
	Author         string    `gorm:"type:varchar(50);not null"`
	Body           string    `gorm:"type:text;not null"`
	OriginIdentity string    `gorm:"column:origin_identity;type:varchar(64);not null"`
	CreatedAt      time.Time `gorm:"type:datetime"`
}

func (Comment) TableName() string {
	return "comments"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:             c.ID,
		StoryID:        c.StoryID,
		Author:         c.Author,
		Body:           c.Body,
		OriginIdentity: c.OriginIdentity,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:             m.ID,
		StoryID:        m.StoryID,
		Author:         m.Author,
		Body:           m.Body,
		OriginIdentity: m.OriginIdentity,
		CreatedAt:      m.CreatedAt,
	}
}
