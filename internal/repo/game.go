package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/game_shop/internal/models"
)

// ListGames returns the catalogue in catalogue order.
func (r *GormRepo) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := r.DB.WithContext(ctx).Order("id").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (r *GormRepo) GameByID(ctx context.Context, id uint) (*models.Game, error) {
	var g models.Game
	if err := r.DB.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *GormRepo) GameExistsByTitle(ctx context.Context, title string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Game{}).Where("title = ?", title).Count(&n).Error
	return n > 0, err
}

// GamesByIDs resolves ids in the given order. Unknown ids are skipped.
func (r *GormRepo) GamesByIDs(ctx context.Context, ids []uint) ([]models.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Game
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Game, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}
	out := make([]models.Game, 0, len(found))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
			delete(byID, id)
		}
	}
	return out, nil
}

// SearchGames matches q against title and description, case-insensitively.
// Games whose id is in exclude are neither returned nor counted.
func (r *GormRepo) SearchGames(ctx context.Context, q string, exclude []uint, limit, offset int) (int64, []models.Game, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	where := r.DB.WithContext(ctx).Model(&models.Game{}).
		Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	if len(exclude) > 0 {
		where = where.Where("id NOT IN ?", exclude)
	}

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var games []models.Game
	if err := where.Session(&gorm.Session{}).Order("id").Limit(limit).Offset(offset).Find(&games).Error; err != nil {
		return 0, nil, err
	}
	return total, games, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *GormRepo) CreateGame(ctx context.Context, g *models.Game) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *GormRepo) UpdateGame(ctx context.Context, g *models.Game) error {
	res := r.DB.WithContext(ctx).Model(&models.Game{ID: g.ID}).
		Select("title", "description", "developer", "publisher", "price", "size", "genre", "age_rating", "video_url").
		Updates(g)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGame removes the game and every ownership row pointing at it.
func (r *GormRepo) DeleteGame(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&models.Ownership{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Game{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
