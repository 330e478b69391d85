package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGame_Genres(t *testing.T) {
	assert.Equal(t, []string{"Action", "RPG"}, Game{Genre: "Action, RPG"}.Genres())
	assert.Equal(t, []string{"Puzzle"}, Game{Genre: " Puzzle ,, "}.Genres())
	assert.Nil(t, Game{}.Genres())
}
