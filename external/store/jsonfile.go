package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	internalstore "github.com/vodinokreas/dutybot/internal/store"
)

const (
	ModeratorsFilename = "authorized_mods.json"
	PointsFilename     = "points.json"
)

// ModeratorFileStore keeps the allow-list in memory and rewrites the whole
// backing file on every mutation. Last writer wins.
type ModeratorFileStore struct {
	mu    sync.Mutex
	path  string
	ids   []string
	index map[string]struct{}
}

func NewModeratorFileStore(path string) (*ModeratorFileStore, error) {
	s := &ModeratorFileStore{
		path:  path,
		index: make(map[string]struct{}),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("moderator file not found, starting empty", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to read moderator file: %w", err)
	}
	if err := json.Unmarshal(data, &s.ids); err != nil {
		return nil, fmt.Errorf("failed to parse moderator file: %w", err)
	}
	for _, id := range s.ids {
		s.index[id] = struct{}{}
	}
	slog.Info("loaded authorized moderators", "path", path, "count", len(s.ids))
	return s, nil
}

func (s *ModeratorFileStore) Contains(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[userID]
	return ok
}

func (s *ModeratorFileStore) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *ModeratorFileStore) Add(userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[userID]; ok {
		return false, nil
	}
	s.ids = append(s.ids, userID)
	s.index[userID] = struct{}{}
	if err := s.persistLocked(); err != nil {
		return true, err
	}
	return true, nil
}

func (s *ModeratorFileStore) Remove(userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[userID]; !ok {
		return false, nil
	}
	delete(s.index, userID)
	for i, id := range s.ids {
		if id == userID {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	if err := s.persistLocked(); err != nil {
		return true, err
	}
	return true, nil
}

func (s *ModeratorFileStore) persistLocked() error {
	data, err := json.Marshal(s.ids)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write moderator file: %w", err)
	}
	slog.Info("saved authorized moderators", "path", s.path, "count", len(s.ids))
	return nil
}

// PointsFileStore keeps the ledger in memory with insertion order and
// rewrites the whole backing file on every mutation. The file is decoded
// with a token stream so key order survives a restart.
type PointsFileStore struct {
	mu      sync.Mutex
	path    string
	entries []internalstore.PointsEntry
	index   map[string]int
}

func NewPointsFileStore(path string) (*PointsFileStore, error) {
	s := &PointsFileStore{
		path:  path,
		index: make(map[string]int),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("points file not found, starting empty", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to read points file: %w", err)
	}
	entries, err := decodeOrderedPoints(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse points file: %w", err)
	}
	s.entries = entries
	for i, e := range entries {
		s.index[e.UserID] = i
	}
	slog.Info("loaded points ledger", "path", path, "users", len(s.entries))
	return s, nil
}

func (s *PointsFileStore) Get(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[userID]; ok {
		return s.entries[i].Points
	}
	return 0
}

func (s *PointsFileStore) Add(userID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[userID]
	if !ok {
		i = len(s.entries)
		s.entries = append(s.entries, internalstore.PointsEntry{UserID: userID})
		s.index[userID] = i
	}
	s.entries[i].Points += delta
	newTotal := s.entries[i].Points
	if err := s.persistLocked(); err != nil {
		return newTotal, err
	}
	return newTotal, nil
}

func (s *PointsFileStore) ResetAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cleared := len(s.entries)
	s.entries = nil
	s.index = make(map[string]int)
	if err := s.persistLocked(); err != nil {
		return cleared, err
	}
	return cleared, nil
}

func (s *PointsFileStore) Entries() []internalstore.PointsEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]internalstore.PointsEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *PointsFileStore) persistLocked() error {
	data, err := encodeOrderedPoints(s.entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write points file: %w", err)
	}
	slog.Info("saved points ledger", "path", s.path, "users", len(s.entries))
	return nil
}

func decodeOrderedPoints(data []byte) ([]internalstore.PointsEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}
	var entries []internalstore.PointsEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}
		var value int
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid point value for %q: %w", key, err)
		}
		entries = append(entries, internalstore.PointsEntry{UserID: key, Points: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}

func encodeOrderedPoints(entries []internalstore.PointsEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.UserID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", e.Points)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
