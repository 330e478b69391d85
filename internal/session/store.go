package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/game_shop/internal/models"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type GormStore struct {
	DB *gorm.DB
}

func (st *GormStore) Get(ctx context.Context, id string) (*Session, error) {
	var row models.Session
	if err := st.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if row.ExpiresAt.Before(time.Now()) {
		return nil, ErrNotFound
	}
	return decode(row.ID, row.Data, row.ExpiresAt)
}

func (st *GormStore) Save(ctx context.Context, s *Session) error {
	data, err := s.encode()
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", s.ID, err)
	}
	row := models.Session{ID: s.ID, Data: data, ExpiresAt: s.ExpiresAt}
	return st.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
	}).Create(&row).Error
}

func (st *GormStore) Delete(ctx context.Context, id string) error {
	return st.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}

// DeleteExpired removes sessions whose lifetime has ended.
func (st *GormStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := st.DB.WithContext(ctx).Where("expires_at < ?", time.Now().UTC()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
