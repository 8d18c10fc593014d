package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Asma2528/LabStockEase-sub001/internal/model"
)

// UserRepository backs the user directory consumed by the stock notifier.
type UserRepository interface {
	// FindEmailsByRoles resolves role names to the email addresses of active
	// users holding any of those roles.
	FindEmailsByRoles(ctx context.Context, roles []string) ([]string, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) FindEmailsByRoles(ctx context.Context, roles []string) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	var emails []string
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role IN ? AND active = true", roles).
		Pluck("email", &emails).Error
	return emails, err
}
