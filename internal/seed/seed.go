// Package seed fills an empty database with demo accounts and games.
package seed

import (
	"context"
	"errors"

	"github.com/Skotchmaster/game_shop/internal/hash"
	"github.com/Skotchmaster/game_shop/internal/logging"
	"github.com/Skotchmaster/game_shop/internal/models"
	"github.com/Skotchmaster/game_shop/internal/repo"
)

type account struct {
	Email    string
	Password string
	Admin    bool
}

var accounts = []account{
	{Email: "admin@example.com", Password: "admin123", Admin: true},
	{Email: "user@example.com", Password: "user123"},
}

var games = []models.Game{
	{Title: "Space Adventure", Description: "Explore the universe!", Price: "$19.99", Genre: "Action", Size: "6.78gb", AgeRating: "10+"},
	{Title: "Puzzle Quest", Description: "Solve tricky puzzles.", Price: "$9.99", Genre: "Puzzle", Size: "0.45gb", AgeRating: "3+"},
	{Title: "Battle Arena", Description: "Fight against players online.", Price: "$14.99", Genre: "Action", Size: "2.34gb", AgeRating: "12+"},
	{Title: "Fantasy World", Description: "A magical RPG adventure.", Price: "$29.99", Genre: "RPG", Size: "5.67gb", AgeRating: "10+"},
	{Title: "Cooking Master", Description: "Cook delicious meals!", Price: "$4.99", Genre: "Simulation", Size: "1.23gb", AgeRating: "10+"},
}

// Run creates the default accounts and demo games. Accounts whose email and
// games whose title already exist are left alone, so Run is safe to call on
// every start.
func Run(ctx context.Context, r *repo.GormRepo) error {
	l := logging.FromContext(ctx).With("component", "seed")

	var users, created int
	for _, a := range accounts {
		_, err := r.UserByEmail(ctx, a.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		pwHash, err := hash.HashPassword(a.Password)
		if err != nil {
			return err
		}
		if err := r.CreateUser(ctx, &models.User{Email: a.Email, PasswordHash: pwHash, IsAdmin: a.Admin}); err != nil {
			return err
		}
		users++
	}

	for _, g := range games {
		exists, err := r.GameExistsByTitle(ctx, g.Title)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := r.CreateGame(ctx, &g); err != nil {
			return err
		}
		created++
	}

	l.Info("seed complete", "users_created", users, "games_created", created)
	return nil
}
