package model

import (
	"time"

	"github.com/histodesop/story-interactions/domain"
)

type StoryLike struct {
	StoryID     int64     `gorm:"column:story_id;primaryKey;autoIncrement:false"`
	Fingerprint string    `gorm:"column:fingerprint;primaryKey;type:varchar(64)"`
	CreatedAt   time.Time `gorm:"type:datetime"`
}

func (StoryLike) TableName() string {
	return "story_likes"
}

func NewStoryLikeFromDomain(r domain.LikeRecord) StoryLike {
	return StoryLike{
		StoryID:     r.StoryID,
		Fingerprint: r.Fingerprint,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *StoryLike) ToDomain() domain.LikeRecord {
	return domain.LikeRecord{
		StoryID:     m.StoryID,
		Fingerprint: m.Fingerprint,
		CreatedAt:   m.CreatedAt,
	}
}
