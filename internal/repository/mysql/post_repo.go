package mysql

import (
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/query"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, id).Error
	return &post, err
}

// ListCursor fetches up to limit posts matching the predicate, ordered
// (created_at DESC, id DESC). When after is set the fetch starts strictly
// after that row: earlier creation time, or same time with a smaller id.
// Callers pass limit+1 to probe for a next page.
func (r *PostRepository) ListCursor(pred query.Predicate, limit int, after *model.Post) ([]model.Post, error) {
	q := pred.Scope(r.DB.Model(&model.Post{}))
	if after != nil {
		q = q.Where(
			"(posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?))",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}
	var list []model.Post
	err := q.Order("posts.created_at DESC, posts.id DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *PostRepository) UpdateFields(id uint64, fields map[string]any) error {
	tx := r.DB.Model(&model.Post{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostRepository) Delete(id uint64) error {
	res := r.DB.Delete(&model.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
