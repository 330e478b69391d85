package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/game_shop/internal/models"
)

func (r *GormRepo) OwnedGameIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	return ownedIDs(r.DB.WithContext(ctx), userID)
}

func ownedIDs(db *gorm.DB, userID uint) (map[uint]struct{}, error) {
	var ids []uint
	if err := db.Model(&models.Ownership{}).Where("user_id = ?", userID).Pluck("game_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// OwnedGames lists the user's games in acquisition order.
func (r *GormRepo) OwnedGames(ctx context.Context, userID uint) ([]models.Game, error) {
	var games []models.Game
	err := r.DB.WithContext(ctx).
		Joins("JOIN ownerships ON ownerships.game_id = games.id").
		Where("ownerships.user_id = ?", userID).
		Order("ownerships.id").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

// AddOwnerships grants userID every game in gameIDs that exists and is not
// owned yet, in one transaction. It returns the ids that were granted, in
// the order given. The owned set is re-read inside the transaction and the
// insert ignores rows a concurrent checkout committed first.
func (r *GormRepo) AddOwnerships(ctx context.Context, userID uint, gameIDs []uint) ([]uint, error) {
	var granted []uint
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uint
		if err := tx.Model(&models.Game{}).Where("id IN ?", gameIDs).Pluck("id", &existing).Error; err != nil {
			return err
		}
		exists := make(map[uint]struct{}, len(existing))
		for _, id := range existing {
			exists[id] = struct{}{}
		}

		owned, err := ownedIDs(tx, userID)
		if err != nil {
			return err
		}

		rows := make([]models.Ownership, 0, len(gameIDs))
		ids := make([]uint, 0, len(gameIDs))
		for _, id := range gameIDs {
			if _, ok := exists[id]; !ok {
				continue
			}
			if _, ok := owned[id]; ok {
				continue
			}
			owned[id] = struct{}{}
			rows = append(rows, models.Ownership{UserID: userID, GameID: id})
			ids = append(ids, id)
		}
		if len(rows) == 0 {
			return nil
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}
		granted = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return granted, nil
}
