package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/game_shop/internal/db"
	"github.com/Skotchmaster/game_shop/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	gdb, err := db.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	return &GormRepo{DB: gdb}
}

func seedGames(t *testing.T, r *GormRepo, titles ...string) []models.Game {
	t.Helper()
	out := make([]models.Game, 0, len(titles))
	for _, title := range titles {
		g := models.Game{Title: title, Price: "$1.00", Size: "1gb"}
		require.NoError(t, r.CreateGame(context.Background(), &g))
		out = append(out, g)
	}
	return out
}

func TestCreateUser_Duplicate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := models.User{Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, &u))
	require.NotZero(t, u.ID)

	err := r.CreateUser(ctx, &models.User{Email: "a@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := r.UserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.UserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmailTaken(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	a := models.User{Email: "a@example.com", PasswordHash: "x"}
	b := models.User{Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, &a))
	require.NoError(t, r.CreateUser(ctx, &b))

	taken, err := r.EmailTaken(ctx, "a@example.com", a.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = r.EmailTaken(ctx, "a@example.com", b.ID)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestGamesByIDs_OrderAndDangling(t *testing.T) {
	r := newTestRepo(t)
	games := seedGames(t, r, "A", "B", "C")

	got, err := r.GamesByIDs(context.Background(), []uint{games[2].ID, 999, games[0].ID, games[2].ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "C", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
}

func TestAddOwnerships(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	games := seedGames(t, r, "A", "B", "C")

	u := models.User{Email: "u@example.com", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, &u))

	granted, err := r.AddOwnerships(ctx, u.ID, []uint{games[2].ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{games[2].ID}, granted)

	granted, err = r.AddOwnerships(ctx, u.ID, []uint{games[1].ID, games[2].ID, 999})
	require.NoError(t, err)
	assert.Equal(t, []uint{games[1].ID}, granted)

	owned, err := r.OwnedGames(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	// acquisition order
	assert.Equal(t, "C", owned[0].Title)
	assert.Equal(t, "B", owned[1].Title)

	var n int64
	require.NoError(t, r.DB.Model(&models.Ownership{}).Where("user_id = ?", u.ID).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestDeleteGame_RemovesOwnership(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	games := seedGames(t, r, "A")

	u := models.User{Email: "u@example.com", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, &u))
	_, err := r.AddOwnerships(ctx, u.ID, []uint{games[0].ID})
	require.NoError(t, err)

	require.NoError(t, r.DeleteGame(ctx, games[0].ID))
	owned, err := r.OwnedGameIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, owned)

	assert.ErrorIs(t, r.DeleteGame(ctx, games[0].ID), ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	games := seedGames(t, r, "A")

	u := models.User{Email: "u@example.com", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, &u))
	_, err := r.AddOwnerships(ctx, u.ID, []uint{games[0].ID})
	require.NoError(t, err)

	require.NoError(t, r.DeleteUser(ctx, u.ID))
	_, err = r.UserByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, r.DB.Model(&models.Ownership{}).Count(&n).Error)
	assert.Zero(t, n)

	assert.ErrorIs(t, r.DeleteUser(ctx, u.ID), ErrNotFound)
}

func TestSetAdmin(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := models.User{Email: "u@example.com", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, &u))
	require.NoError(t, r.SetAdmin(ctx, u.ID, true))

	got, err := r.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	assert.ErrorIs(t, r.SetAdmin(ctx, 999, true), ErrNotFound)
}

func TestSearchGames(t *testing.T) {
	r := newTestRepo(t)
	seedGames(t, r, "Space Adventure", "Puzzle Quest", "100% Puzzle")

	total, games, err := r.SearchGames(context.Background(), "puzzle", nil, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, games, 2)
	assert.Equal(t, "Puzzle Quest", games[0].Title)

	total, _, err = r.SearchGames(context.Background(), "100%", nil, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestSearchGames_ExcludedIDsAreNotCounted(t *testing.T) {
	r := newTestRepo(t)
	g := seedGames(t, r, "Puzzle Quest", "Puzzle Party", "Puzzle Land")

	total, games, err := r.SearchGames(context.Background(), "puzzle", []uint{g[1].ID}, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, games, 1)
	assert.Equal(t, "Puzzle Quest", games[0].Title)

	_, games, err = r.SearchGames(context.Background(), "puzzle", []uint{g[1].ID}, 1, 1)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Puzzle Land", games[0].Title)
}

func TestRotateRefreshToken(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()

	require.NoError(t, r.SaveRefreshToken(ctx, &models.RefreshToken{Token: "h1", UserID: 1, JTI: "j1", ExpiresAt: exp}))

	next := &models.RefreshToken{Token: "h2", UserID: 1, JTI: "j2", ExpiresAt: exp}
	require.NoError(t, r.RotateRefreshToken(ctx, "j1", next))

	// Reusing the old token fails.
	again := &models.RefreshToken{Token: "h3", UserID: 1, JTI: "j3", ExpiresAt: exp}
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "j1", again), ErrRevoked)
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "unknown", again), ErrRevoked)

	require.NoError(t, r.RevokeRefreshToken(ctx, "h2"))
	assert.ErrorIs(t, r.RotateRefreshToken(ctx, "j2", again), ErrRevoked)
}
