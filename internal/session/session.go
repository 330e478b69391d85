package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// Values is the per-request key-value view of a session.
type Values interface {
	// Load decodes the value stored under key into dst. It reports false if
	// the key is absent or cannot be decoded into dst.
	Load(key string, dst any) bool
	Store(key string, v any) error
	Delete(key string)
}

type Session struct {
	ID        string
	ExpiresAt time.Time

	data     map[string]json.RawMessage
	modified bool
}

var _ Values = (*Session)(nil)

func newSession(id string, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		ExpiresAt: time.Now().UTC().Add(ttl),
		data:      map[string]json.RawMessage{},
	}
}

func (s *Session) Load(key string, dst any) bool {
	raw, ok := s.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *Session) Store(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: encode %q: %w", key, err)
	}
	s.data[key] = raw
	s.modified = true
	return nil
}

func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.modified = true
	}
}

// Clear drops every value, e.g. on logout.
func (s *Session) Clear() {
	if len(s.data) > 0 {
		s.data = map[string]json.RawMessage{}
		s.modified = true
	}
}

func (s *Session) Modified() bool { return s.modified }

func (s *Session) encode() (string, error) {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decode(id, data string, exp time.Time) (*Session, error) {
	s := &Session{ID: id, ExpiresAt: exp, data: map[string]json.RawMessage{}}
	if data == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(data), &s.data); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", id, err)
	}
	return s, nil
}
