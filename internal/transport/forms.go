package transport

import (
	"strings"

	"github.com/Skotchmaster/game_shop/internal/models"
)

type RegisterForm struct {
	Email           string `form:"email"            validate:"required,email,max=150"`
	Password        string `form:"password"         validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type AccountForm struct {
	Email              string `form:"email"                validate:"required,email,max=150"`
	CurrentPassword    string `form:"current_password"`
	NewPassword        string `form:"new_password"         validate:"omitempty,min=6"`
	ConfirmNewPassword string `form:"confirm_new_password" validate:"eqfield=NewPassword"`
}

type GameForm struct {
	Title       string `form:"title"       validate:"required,max=150"`
	Description string `form:"description"`
	Developer   string `form:"developer"   validate:"max=150"`
	Publisher   string `form:"publisher"   validate:"max=150"`
	Price       string `form:"price"       validate:"max=32"`
	Size        string `form:"size"        validate:"max=32"`
	Genre       string `form:"genre"       validate:"max=255"`
	AgeRating   string `form:"age_rating"  validate:"max=16"`
	VideoURL    string `form:"video_url"   validate:"omitempty,url,max=512"`
}

func GameFormFrom(g models.Game) GameForm {
	return GameForm{
		Title:       g.Title,
		Description: g.Description,
		Developer:   g.Developer,
		Publisher:   g.Publisher,
		Price:       g.Price,
		Size:        g.Size,
		Genre:       g.Genre,
		AgeRating:   g.AgeRating,
		VideoURL:    g.VideoURL,
	}
}

// Apply copies the form onto g, trimming every field.
func (f GameForm) Apply(g *models.Game) {
	g.Title = strings.TrimSpace(f.Title)
	g.Description = strings.TrimSpace(f.Description)
	g.Developer = strings.TrimSpace(f.Developer)
	g.Publisher = strings.TrimSpace(f.Publisher)
	g.Price = strings.TrimSpace(f.Price)
	g.Size = strings.TrimSpace(f.Size)
	g.Genre = strings.TrimSpace(f.Genre)
	g.AgeRating = strings.TrimSpace(f.AgeRating)
	g.VideoURL = strings.TrimSpace(f.VideoURL)
}
