package mysql

import (
	"Neighborhood_Hub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	DB *gorm.DB
}

// Join inserts idempotently: an existing (community_id, user_id) pair is
// left untouched.
func (r *MembershipRepository) Join(member *model.Membership) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(member).Error
}

// Approve creates the membership with the granted role; a duplicate pair
// surfaces as gorm.ErrDuplicatedKey.
func (r *MembershipRepository) Approve(member *model.Membership) error {
	return r.DB.Create(member).Error
}

func (r *MembershipRepository) Leave(communityID, userID uint64) error {
	res := r.DB.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MembershipRepository) Find(communityID, userID uint64) (*model.Membership, error) {
	var m model.Membership
	err := r.DB.Where("community_id = ? AND user_id = ?", communityID, userID).First(&m).Error
	return &m, err
}

func (r *MembershipRepository) ListByUser(userID uint64) ([]model.Membership, error) {
	var list []model.Membership
	err := r.DB.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

func (r *MembershipRepository) ListByCommunity(communityID uint64) ([]model.Membership, error) {
	var list []model.Membership
	err := r.DB.Where("community_id = ?", communityID).Find(&list).Error
	return list, err
}
