// Package cart keeps the games a visitor intends to buy in their session.
package cart

import "github.com/Skotchmaster/game_shop/internal/session"

const sessionKey = "cart"

type Cart struct {
	vals session.Values
}

func New(v session.Values) *Cart {
	return &Cart{vals: v}
}

// List returns the game ids in the order they were added.
func (c *Cart) List() []uint {
	var ids []uint
	c.vals.Load(sessionKey, &ids)
	return ids
}

func (c *Cart) Len() int { return len(c.List()) }

func (c *Cart) Contains(id uint) bool {
	for _, v := range c.List() {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id. It reports false, leaving the cart as is, when id is
// already present.
func (c *Cart) Add(id uint) (bool, error) {
	ids := c.List()
	for _, v := range ids {
		if v == id {
			return false, nil
		}
	}
	if err := c.vals.Store(sessionKey, append(ids, id)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove drops id. It reports false when id was not in the cart.
func (c *Cart) Remove(id uint) (bool, error) {
	ids := c.List()
	for i, v := range ids {
		if v == id {
			rest := append(ids[:i:i], ids[i+1:]...)
			if err := c.vals.Store(sessionKey, rest); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (c *Cart) Clear() {
	c.vals.Delete(sessionKey)
}
