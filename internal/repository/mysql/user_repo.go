package mysql

import (
	"Neighborhood_Hub/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) List(offset, limit int) ([]model.User, error) {
	var list []model.User
	err := r.DB.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// UpdateFields patches role/status/full_name style edits.
func (r *UserRepository) UpdateFields(id uint64, fields map[string]any) error {
	tx := r.DB.Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(user *model.User, newHash string) error {
	return r.DB.Model(user).Update("password_hash", newHash).Error
}

// Delete removes the user and their memberships in one transaction.
func (r *UserRepository) Delete(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
