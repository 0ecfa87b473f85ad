// Package session holds per-browser-session key-value storage.
package session

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Session is the server-side equivalent of a browser tab's sessionStorage.
// A Session is owned by one request at a time; see Locker.
type Session struct {
	id     string
	values map[string][]byte
	dirty  bool
	fresh  bool
}

// New starts an empty session with a random id.
func New() *Session {
	return &Session{
		id:     uuid.NewString(),
		values: map[string][]byte{},
		fresh:  true,
	}
}

// Restore rebuilds a session loaded from a repository.
func Restore(id string, values map[string][]byte) *Session {
	if values == nil {
		values = map[string][]byte{}
	}
	return &Session{id: id, values: values}
}

// ValidID reports whether id has the shape of a session id issued by New.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

func (s *Session) ID() string { return s.id }

// Fresh reports whether the session was created by this request.
func (s *Session) Fresh() bool { return s.fresh }

// Dirty reports whether the session changed since it was loaded or last
// marked clean.
func (s *Session) Dirty() bool { return s.dirty }

// MarkClean records that the current values have been saved.
func (s *Session) MarkClean() { s.dirty = false }

// Len returns the number of slots.
func (s *Session) Len() int { return len(s.values) }

// Values returns a copy of all slots.
func (s *Session) Values() map[string][]byte {
	out := make(map[string][]byte, len(s.values))
	for k, v := range s.values {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

func (s *Session) GetItem(key string) ([]byte, bool) {
	v, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (s *Session) SetItem(key string, value []byte) {
	s.values[key] = append([]byte(nil), value...)
	s.dirty = true
}

func (s *Session) RemoveItem(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// GetJSON decodes slot key into v. It returns false when the slot is missing
// or does not decode.
func (s *Session) GetJSON(key string, v any) bool {
	data, ok := s.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON encodes v into slot key.
func (s *Session) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.SetItem(key, data)
	return nil
}
