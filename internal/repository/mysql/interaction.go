package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/histodesop/story-interactions/domain"
	"github.com/histodesop/story-interactions/internal/repository/mysql/model"
)

type interactionDBRepository struct {
	DB *gorm.DB
}

var _ domain.InteractionDBRepository = (*interactionDBRepository)(nil)

func NewInteractionDBRepository(db *gorm.DB) *interactionDBRepository {
	return &interactionDBRepository{
		DB: db,
	}
}

func (r *interactionDBRepository) LikedFingerprints(ctx context.Context, storyID int64) ([]string, error) {
	var fingerprints []string
	err := r.DB.WithContext(ctx).
		Model(&model.StoryLike{}).
		Where("story_id = ?", storyID).
		Pluck("fingerprint", &fingerprints).Error
	if err != nil {
		return nil, err
	}
	return fingerprints, nil
}

func (r *interactionDBRepository) CountLikes(ctx context.Context, storyID int64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.StoryLike{}).
		Where("story_id = ?", storyID).
		Count(&count).Error
	return count, err
}

func (r *interactionDBRepository) HasLiked(ctx context.Context, storyID int64, fingerprint string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.StoryLike{}).
		Where("story_id = ? AND fingerprint = ?", storyID, fingerprint).
		Count(&count).Error
	return count > 0, err
}

func (r *interactionDBRepository) ApplyLikeChanges(ctx context.Context, changes domain.LikeStateChanges) error {
	if len(changes.ToAdd) == 0 && len(changes.ToRemove) == 0 {
		return nil
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes.ToAdd) > 0 {
			rows := make([]model.StoryLike, 0, len(changes.ToAdd))
			for _, rec := range changes.ToAdd {
				if rec.CreatedAt.IsZero() {
					rec.CreatedAt = time.Now()
				}
				rows = append(rows, model.NewStoryLikeFromDomain(rec))
			}
			// re-adding an existing like must stay a no-op
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
			if err != nil {
				return err
			}
		}

		for _, rec := range changes.ToRemove {
			err := tx.Where("story_id = ? AND fingerprint = ?", rec.StoryID, rec.Fingerprint).
				Delete(&model.StoryLike{}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *interactionDBRepository) StoreComment(ctx context.Context, c *domain.Comment) error {
	row := model.NewCommentFromDomain(c)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	err := r.DB.WithContext(ctx).Create(row).Error
	if err != nil {
		return err
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	return nil
}

func (r *interactionDBRepository) FetchComments(ctx context.Context, storyID int64) ([]domain.Comment, error) {
	var rows []model.Comment
	err := r.DB.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Comment, 0, len(rows))
	for i := range rows {
		res = append(res, rows[i].ToDomain())
	}
	return res, nil
}

func (r *interactionDBRepository) CountRecentByIdentity(ctx context.Context, storyID int64, identity string, since time.Time) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("story_id = ? AND origin_identity = ? AND created_at > ?", storyID, identity, since).
		Count(&count).Error
	return count, err
}

func (r *interactionDBRepository) CountComments(ctx context.Context, storyID int64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("story_id = ?", storyID).
		Count(&count).Error
	return count, err
}

// LastActivity returns the newest timestamp across the story's likes and
// comments, or the zero time when the story has no interactions.
func (r *interactionDBRepository) LastActivity(ctx context.Context, storyID int64) (time.Time, error) {
	var lastLike, lastComment *time.Time

	err := r.DB.WithContext(ctx).
		Model(&model.StoryLike{}).
		Where("story_id = ?", storyID).
		Select("MAX(created_at)").
		Scan(&lastLike).Error
	if err != nil {
		return time.Time{}, err
	}

	err = r.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("story_id = ?", storyID).
		Select("MAX(created_at)").
		Scan(&lastComment).Error
	if err != nil {
		return time.Time{}, err
	}

	var last time.Time
	if lastLike != nil && lastLike.After(last) {
		last = *lastLike
	}
	if lastComment != nil && lastComment.After(last) {
		last = *lastComment
	}
	return last, nil
}

func (r *interactionDBRepository) TotalLikes(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.StoryLike{}).Count(&count).Error
	return count, err
}

func (r *interactionDBRepository) TotalComments(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).Count(&count).Error
	return count, err
}

// StoriesWithInteractions counts distinct stories that have at least one like
// or one comment.
func (r *interactionDBRepository) StoriesWithInteractions(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM (
			SELECT story_id FROM story_likes
			UNION
			SELECT story_id FROM comments
		) AS active`).Scan(&count).Error
	return count, err
}
