package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestCart_AddTwiceKeepsOne(t *testing.T) {
	c := New(memValues{})

	added, err := c.Add(2)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = c.Add(2)
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, []uint{2}, c.List())
}

func TestCart_PreservesOrder(t *testing.T) {
	c := New(memValues{})
	for _, id := range []uint{3, 1, 2} {
		_, err := c.Add(id)
		require.NoError(t, err)
	}
	assert.Equal(t, []uint{3, 1, 2}, c.List())
	assert.Equal(t, 3, c.Len())
	assert.True(t, c.Contains(1))
}

func TestCart_RemoveAbsentIsNoop(t *testing.T) {
	vals := memValues{}
	c := New(vals)
	_, err := c.Add(1)
	require.NoError(t, err)
	_, err = c.Add(2)
	require.NoError(t, err)

	removed, err := c.Remove(9)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []uint{1, 2}, c.List())

	removed, err = c.Remove(1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []uint{2}, c.List())
}

func TestCart_Clear(t *testing.T) {
	c := New(memValues{})
	_, err := c.Add(4)
	require.NoError(t, err)

	c.Clear()
	assert.Empty(t, c.List())
	assert.False(t, c.Contains(4))
}
