package service

import (
	"errors"

	"github.com/Skotchmaster/game_shop/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = repo.ErrNotFound

	ErrEmptyCart          = errors.New("cart is empty")
	ErrEmailTaken         = errors.New("this email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSelfDelete         = errors.New("cannot delete own account")
	ErrUnauthorized       = errors.New("unauthorized")
)
