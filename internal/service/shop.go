package service

import (
	"context"

	"github.com/Skotchmaster/game_shop/internal/cart"
	"github.com/Skotchmaster/game_shop/internal/catalogue"
	"github.com/Skotchmaster/game_shop/internal/events"
	"github.com/Skotchmaster/game_shop/internal/logging"
	"github.com/Skotchmaster/game_shop/internal/models"
	"github.com/Skotchmaster/game_shop/internal/repo"
)

type ShopService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// AddToCart puts an existing game into c. It reports false when the game was
// already there.
func (s *ShopService) AddToCart(ctx context.Context, userID uint, c *cart.Cart, gameID uint) (bool, error) {
	if _, err := s.Repo.GameByID(ctx, gameID); err != nil {
		return false, err
	}
	added, err := c.Add(gameID)
	if err != nil || !added {
		return added, err
	}
	publish(ctx, s.Events, events.TopicCart, userID, map[string]any{
		"type":    "cart_item_added",
		"user_id": userID,
		"game_id": gameID,
	})
	return true, nil
}

func (s *ShopService) RemoveFromCart(ctx context.Context, userID uint, c *cart.Cart, gameID uint) (bool, error) {
	removed, err := c.Remove(gameID)
	if err != nil || !removed {
		return removed, err
	}
	publish(ctx, s.Events, events.TopicCart, userID, map[string]any{
		"type":    "cart_item_removed",
		"user_id": userID,
		"game_id": gameID,
	})
	return true, nil
}

type CartView struct {
	Items []catalogue.Item
	Total float64
}

// CartContents resolves the cart to games, skipping ids whose game is gone.
func (s *ShopService) CartContents(ctx context.Context, c *cart.Cart) (CartView, error) {
	games, err := s.Repo.GamesByIDs(ctx, c.List())
	if err != nil {
		return CartView{}, err
	}
	view := CartView{Items: make([]catalogue.Item, 0, len(games))}
	for _, g := range games {
		it := catalogue.Item{Game: g, Price: catalogue.ParsePrice(g.Price), Size: catalogue.ParseSize(g.Size)}
		view.Total += it.Price
		view.Items = append(view.Items, it)
	}
	return view, nil
}

// Checkout moves the cart into the user's library. All new ownership rows
// are committed together; the cart is cleared only after that commit. Games
// already owned and ids of deleted games are skipped. It returns the ids of
// the newly owned games.
func (s *ShopService) Checkout(ctx context.Context, userID uint, c *cart.Cart) ([]uint, error) {
	l := logging.FromContext(ctx).With("svc", "shop.checkout", "user_id", userID)

	ids := c.List()
	if len(ids) == 0 {
		return nil, ErrEmptyCart
	}

	granted, err := s.Repo.AddOwnerships(ctx, userID, ids)
	if err != nil {
		l.Error("checkout_error", "status", 500, "cart_size", len(ids), "error", err)
		return nil, err
	}
	c.Clear()

	l.Info("checkout_success", "cart_size", len(ids), "granted", len(granted))
	publish(ctx, s.Events, events.TopicCart, userID, map[string]any{
		"type":     "checkout_completed",
		"user_id":  userID,
		"game_ids": granted,
	})
	return granted, nil
}

func (s *ShopService) Inventory(ctx context.Context, userID uint) ([]models.Game, error) {
	return s.Repo.OwnedGames(ctx, userID)
}
