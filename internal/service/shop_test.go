package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/game_shop/internal/cart"
	"github.com/Skotchmaster/game_shop/internal/db"
	"github.com/Skotchmaster/game_shop/internal/models"
)

func ownedIDs(t *testing.T, svc *ShopService, userID uint) []uint {
	t.Helper()
	games, err := svc.Inventory(context.Background(), userID)
	require.NoError(t, err)
	out := make([]uint, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

func TestCheckout_MergesWithoutDuplicates(t *testing.T) {
	r := newTestRepo(t)
	rec := &recorder{}
	svc := &ShopService{Repo: r, Events: rec}
	ctx := context.Background()

	u := createUser(t, r, "u@example.com", "pw", false)
	g := createGames(t, r, models.Game{Title: "One"}, models.Game{Title: "Two"}, models.Game{Title: "Three"})
	two, three := g[1].ID, g[2].ID

	_, err := r.AddOwnerships(ctx, u.ID, []uint{three})
	require.NoError(t, err)

	c := cart.New(memValues{})
	for _, id := range []uint{two, three} {
		_, err := c.Add(id)
		require.NoError(t, err)
	}

	granted, err := svc.Checkout(ctx, u.ID, c)
	require.NoError(t, err)
	assert.Equal(t, []uint{two}, granted)
	assert.ElementsMatch(t, []uint{two, three}, ownedIDs(t, svc, u.ID))
	assert.Empty(t, c.List())
	assert.Contains(t, rec.types(), "checkout_completed")
}

func TestCheckout_EmptyCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &ShopService{Repo: r}
	u := createUser(t, r, "u@example.com", "pw", false)

	c := cart.New(memValues{})
	_, err := svc.Checkout(context.Background(), u.ID, c)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, ownedIDs(t, svc, u.ID))
	assert.Empty(t, c.List())
}

func TestCheckout_SkipsDanglingIDs(t *testing.T) {
	r := newTestRepo(t)
	svc := &ShopService{Repo: r}
	ctx := context.Background()

	u := createUser(t, r, "u@example.com", "pw", false)
	g := createGames(t, r, models.Game{Title: "One"})

	c := cart.New(memValues{})
	_, err := c.Add(999)
	require.NoError(t, err)
	_, err = c.Add(g[0].ID)
	require.NoError(t, err)

	granted, err := svc.Checkout(ctx, u.ID, c)
	require.NoError(t, err)
	assert.Equal(t, []uint{g[0].ID}, granted)
	assert.Equal(t, []uint{g[0].ID}, ownedIDs(t, svc, u.ID))
	assert.Empty(t, c.List())
}

func TestCheckout_OnlyDanglingIDsStillClears(t *testing.T) {
	r := newTestRepo(t)
	svc := &ShopService{Repo: r}
	u := createUser(t, r, "u@example.com", "pw", false)

	c := cart.New(memValues{})
	_, err := c.Add(42)
	require.NoError(t, err)

	granted, err := svc.Checkout(context.Background(), u.ID, c)
	require.NoError(t, err)
	assert.Empty(t, granted)
	assert.Empty(t, c.List())
}

func TestCheckout_StorageFailureKeepsCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &ShopService{Repo: r}
	u := createUser(t, r, "u@example.com", "pw", false)
	g := createGames(t, r, models.Game{Title: "One"})

	c := cart.New(memValues{})
	_, err := c.Add(g[0].ID)
	require.NoError(t, err)

	require.NoError(t, db.Close(r.DB))

	_, err = svc.Checkout(context.Background(), u.ID, c)
	require.Error(t, err)
	assert.Equal(t, []uint{g[0].ID}, c.List())
}

func TestAddToCart(t *testing.T) {
	r := newTestRepo(t)
	rec := &recorder{}
	svc := &ShopService{Repo: r, Events: rec}
	ctx := context.Background()
	g := createGames(t, r, models.Game{Title: "One"})

	c := cart.New(memValues{})
	added, err := svc.AddToCart(ctx, 1, c, g[0].ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddToCart(ctx, 1, c, g[0].ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []uint{g[0].ID}, c.List())

	_, err = svc.AddToCart(ctx, 1, c, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := svc.RemoveFromCart(ctx, 1, c, 999)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.RemoveFromCart(ctx, 1, c, g[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)

	assert.Equal(t, []string{"cart_item_added", "cart_item_removed"}, rec.types())
}

func TestCartContents(t *testing.T) {
	r := newTestRepo(t)
	svc := &ShopService{Repo: r}
	g := createGames(t, r,
		models.Game{Title: "One", Price: "$19.99"},
		models.Game{Title: "Two", Price: "Free"},
		models.Game{Title: "Three", Price: "$5.01"},
	)

	c := cart.New(memValues{})
	for _, id := range []uint{g[2].ID, 999, g[0].ID, g[1].ID} {
		_, err := c.Add(id)
		require.NoError(t, err)
	}

	view, err := svc.CartContents(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, view.Items, 3)
	assert.Equal(t, "Three", view.Items[0].Game.Title)
	assert.InDelta(t, 25.0, view.Total, 1e-9)
}
