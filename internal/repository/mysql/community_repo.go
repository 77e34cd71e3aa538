package mysql

import (
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/query"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create inserts the community and its founding ADMIN membership in one
// transaction: a community must never exist without a founding admin.
func (r *CommunityRepository) Create(c *model.Community, creatorID uint64) (*model.Community, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		mRepo := &MembershipRepository{DB: tx}
		return mRepo.Join(&model.Membership{
			CommunityID: c.ID,
			UserID:      creatorID,
			Role:        model.MemberAdmin,
		})
	})
	return c, err
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindBySlug(slug string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("slug = ?", slug).First(&community).Error
	return &community, err
}

func (r *CommunityRepository) FindByInviteCode(code string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("invite_code = ? AND invite_code <> ''", code).First(&community).Error
	return &community, err
}

// ListCursor fetches up to limit communities ordered (created_at DESC,
// id DESC), strictly after the cursor row when supplied. Callers pass
// limit+1 to probe for a next page.
func (r *CommunityRepository) ListCursor(pred query.Predicate, limit int, after *model.Community) ([]model.Community, error) {
	q := pred.Scope(r.DB.Model(&model.Community{}))
	if after != nil {
		q = q.Where(
			"(communities.created_at < ? OR (communities.created_at = ? AND communities.id < ?))",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}
	var list []model.Community
	err := q.Order("communities.created_at DESC, communities.id DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommunityRepository) UpdateFields(id uint64, fields map[string]any) error {
	tx := r.DB.Model(&model.Community{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCascade removes every scoped record before the community row
// itself, all-or-nothing. Children before parent: chat messages, chat
// sessions, posts, memberships, then the community.
func (r *CommunityRepository) DeleteCascade(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var sessionIDs []uint64
		if err := tx.Model(&model.ChatSession{}).
			Where("community_id = ?", id).
			Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}
		if len(sessionIDs) > 0 {
			if err := tx.Where("session_id IN ?", sessionIDs).Delete(&model.ChatMessage{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("community_id = ?", id).Delete(&model.ChatSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Community{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *CommunityRepository) CountMembers(id uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Membership{}).Where("community_id = ?", id).Count(&n).Error
	return n, err
}

func (r *CommunityRepository) CountPosts(id uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.Post{}).Where("community_id = ?", id).Count(&n).Error
	return n, err
}
