package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/histodesop/story-interactions/domain"
	"github.com/histodesop/story-interactions/internal/repository/mysql/model"
)

type storyCatalog struct {
	DB *gorm.DB
}

var _ domain.StoryCatalog = (*storyCatalog)(nil)

// NewStoryCatalog gives read access to the stories table owned by the content
// subsystem.
func NewStoryCatalog(db *gorm.DB) *storyCatalog {
	return &storyCatalog{
		DB: db,
	}
}

func (c *storyCatalog) Exists(ctx context.Context, storyID int64) (bool, error) {
	var count int64
	err := c.DB.WithContext(ctx).
		Model(&model.Story{}).
		Where("id = ?", storyID).
		Count(&count).Error
	return count > 0, err
}

func (c *storyCatalog) IDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := c.DB.WithContext(ctx).
		Model(&model.Story{}).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
