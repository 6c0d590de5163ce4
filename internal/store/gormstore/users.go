package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/opsdeck/authd/internal/domain"
)

type usersRepo struct {
	db *gorm.DB
}

func (r *usersRepo) Create(ctx context.Context, u *domain.User) error {
	return mapErr(r.db.WithContext(ctx).Create(u).Error)
}

func (r *usersRepo) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, identifier).
		First(&u).Error
	return u, mapErr(err)
}

func (r *usersRepo) FindConflict(ctx context.Context, email, username string) (domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&u).Error
	return u, mapErr(err)
}
