package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/game_shop/internal/db"
	"github.com/Skotchmaster/game_shop/internal/hash"
	"github.com/Skotchmaster/game_shop/internal/models"
	"github.com/Skotchmaster/game_shop/internal/repo"
)

type published struct {
	Topic string
	Key   string
	Event map[string]any
}

// recorder is an events.Publisher that keeps everything it was given.
type recorder struct {
	mu  sync.Mutex
	got []published
}

func (r *recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, _ := event.(map[string]any)
	r.got = append(r.got, published{Topic: topic, Key: key, Event: m})
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.got))
	for i, p := range r.got {
		out[i], _ = p.Event["type"].(string)
	}
	return out
}

// memValues is a map backed session.Values.
type memValues map[string][]byte

func (m memValues) Load(key string, dst any) bool {
	raw, ok := m[key]
	return ok && json.Unmarshal(raw, dst) == nil
}

func (m memValues) Store(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m[key] = raw
	return nil
}

func (m memValues) Delete(key string) { delete(m, key) }

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	return &repo.GormRepo{DB: gdb}
}

func createUser(t *testing.T, r *repo.GormRepo, email, password string, admin bool) *models.User {
	t.Helper()
	h, err := hash.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Email: email, PasswordHash: h, IsAdmin: admin}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func createGames(t *testing.T, r *repo.GormRepo, games ...models.Game) []models.Game {
	t.Helper()
	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		g := g
		require.NoError(t, r.CreateGame(context.Background(), &g))
		out = append(out, g)
	}
	return out
}
