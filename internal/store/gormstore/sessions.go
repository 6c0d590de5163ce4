package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/opsdeck/authd/internal/domain"
)

type sessionsRepo struct {
	db *gorm.DB
}

func (r *sessionsRepo) Create(ctx context.Context, s *domain.Session) error {
	return mapErr(r.db.WithContext(ctx).Create(s).Error)
}

func (r *sessionsRepo) GetByToken(ctx context.Context, token string) (domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("token = ?", token).
		First(&s).Error
	return s, mapErr(err)
}

func (r *sessionsRepo) UpdateToken(ctx context.Context, sessionID, token string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"token":      token,
			"expires_at": expiresAt,
		})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return mapErr(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *sessionsRepo) DeleteByToken(ctx context.Context, token string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&domain.Session{})
	return res.RowsAffected, mapErr(res.Error)
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&domain.Session{})
	return res.RowsAffected, mapErr(res.Error)
}
