package service

import (
	"context"
	"slices"
	"strings"

	"github.com/Skotchmaster/game_shop/internal/catalogue"
	"github.com/Skotchmaster/game_shop/internal/events"
	"github.com/Skotchmaster/game_shop/internal/logging"
	"github.com/Skotchmaster/game_shop/internal/models"
	"github.com/Skotchmaster/game_shop/internal/repo"
)

// GameIndex is an optional full-text index of the catalogue.
type GameIndex interface {
	IndexGame(ctx context.Context, g models.Game) error
	DeleteGame(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, exclude []uint, from, size int) (int64, []uint, error)
}

type CatalogueService struct {
	Repo   *repo.GormRepo
	Index  GameIndex
	Events events.Publisher
}

// Browse runs the catalogue filter for userID, hiding games they own.
func (s *CatalogueService) Browse(ctx context.Context, userID uint, crit catalogue.Criteria) (catalogue.Result, error) {
	games, err := s.Repo.ListGames(ctx)
	if err != nil {
		return catalogue.Result{}, err
	}
	owned, err := s.Repo.OwnedGameIDs(ctx, userID)
	if err != nil {
		return catalogue.Result{}, err
	}
	return catalogue.Filter(games, owned, crit), nil
}

func (s *CatalogueService) Game(ctx context.Context, id uint) (*models.Game, error) {
	return s.Repo.GameByID(ctx, id)
}

// Owns reports whether userID already has gameID in their library.
func (s *CatalogueService) Owns(ctx context.Context, userID, gameID uint) (bool, error) {
	owned, err := s.Repo.OwnedGameIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	_, ok := owned[gameID]
	return ok, nil
}

func (s *CatalogueService) List(ctx context.Context) ([]models.Game, error) {
	return s.Repo.ListGames(ctx)
}

type SearchResult struct {
	Query string
	Total int64
	Items []catalogue.Item
	// Source is "index" when results came from the search index, "db" otherwise.
	Source string
}

// Search looks games up by free text, using the index when one is configured
// and falling back to a database match when it is absent or failing. Games
// the user owns are left out of both the page and the total.
func (s *CatalogueService) Search(ctx context.Context, userID uint, query string, from, size int) (SearchResult, error) {
	l := logging.FromContext(ctx).With("svc", "catalogue.search")

	res := SearchResult{Query: strings.TrimSpace(query)}
	if res.Query == "" {
		return res, nil
	}

	owned, err := s.Repo.OwnedGameIDs(ctx, userID)
	if err != nil {
		return SearchResult{}, err
	}
	exclude := make([]uint, 0, len(owned))
	for id := range owned {
		exclude = append(exclude, id)
	}
	slices.Sort(exclude)

	var games []models.Game
	if s.Index != nil {
		var ids []uint
		res.Total, ids, err = s.Index.Search(ctx, res.Query, exclude, from, size)
		if err == nil {
			res.Source = "index"
			games, err = s.Repo.GamesByIDs(ctx, ids)
			if err != nil {
				return SearchResult{}, err
			}
		} else {
			l.Warn("search_index_error", "reason", "falling back to database", "error", err)
		}
	}
	if res.Source == "" {
		res.Source = "db"
		res.Total, games, err = s.Repo.SearchGames(ctx, res.Query, exclude, size, from)
		if err != nil {
			return SearchResult{}, err
		}
	}

	res.Items = make([]catalogue.Item, 0, len(games))
	for _, g := range games {
		if _, ok := owned[g.ID]; ok {
			continue
		}
		res.Items = append(res.Items, catalogue.Item{
			Game:  g,
			Price: catalogue.ParsePrice(g.Price),
			Size:  catalogue.ParseSize(g.Size),
		})
	}
	return res, nil
}

// SaveGame creates g when g.ID is zero and updates it otherwise.
func (s *CatalogueService) SaveGame(ctx context.Context, g *models.Game) error {
	l := logging.FromContext(ctx).With("svc", "catalogue.save_game")

	created := g.ID == 0
	var err error
	if created {
		err = s.Repo.CreateGame(ctx, g)
	} else {
		err = s.Repo.UpdateGame(ctx, g)
	}
	if err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.IndexGame(ctx, *g); err != nil {
			l.Warn("index_game_error", "game_id", g.ID, "error", err)
		}
	}

	kind := "game_updated"
	if created {
		kind = "game_created"
	}
	publish(ctx, s.Events, events.TopicCatalogue, g.ID, map[string]any{
		"type":    kind,
		"game_id": g.ID,
		"title":   g.Title,
		"price":   g.Price,
	})
	return nil
}

func (s *CatalogueService) DeleteGame(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalogue.delete_game")

	if err := s.Repo.DeleteGame(ctx, id); err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteGame(ctx, id); err != nil {
			l.Warn("unindex_game_error", "game_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicCatalogue, id, map[string]any{
		"type":    "game_deleted",
		"game_id": id,
	})
	return nil
}

// Reindex pushes every game into the index.
func (s *CatalogueService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	games, err := s.Repo.ListGames(ctx)
	if err != nil {
		return 0, err
	}
	for _, g := range games {
		if err := s.Index.IndexGame(ctx, g); err != nil {
			return 0, err
		}
	}
	return len(games), nil
}
