package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// JSONStore keeps the legacy on-disk layout: an array of strings for
// messages and an object of keyword to response for triggers. A missing or
// unparsable file reads as empty.
type JSONStore struct {
	messagesPath string
	triggersPath string
	log          *slog.Logger

	mu sync.Mutex
}

func NewJSONStore(messagesPath, triggersPath string, log *slog.Logger) (*JSONStore, error) {
	if messagesPath == "" || triggersPath == "" {
		return nil, fmt.Errorf("json store: both file paths are required")
	}
	if log == nil {
		log = slog.Default()
	}
	for _, p := range []string{messagesPath, triggersPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("ensure dir: %w", err)
		}
	}
	return &JSONStore{messagesPath: messagesPath, triggersPath: triggersPath, log: log}, nil
}

func (s *JSONStore) Messages(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMessages(), nil
}

func (s *JSONStore) Message(_ context.Context, index int) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := s.loadMessages()
	if index < 0 || index >= len(messages) {
		return "", false, nil
	}
	return messages[index], true, nil
}

func (s *JSONStore) AppendMessage(_ context.Context, content string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := append(s.loadMessages(), content)
	if err := s.save(s.messagesPath, messages); err != nil {
		return 0, err
	}
	return len(messages), nil
}

func (s *JSONStore) Triggers(_ context.Context) ([]Trigger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := s.loadTriggers()
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	triggers := make([]Trigger, 0, len(keys))
	for _, k := range keys {
		triggers = append(triggers, Trigger{Keyword: k, Response: table[k]})
	}
	return triggers, nil
}

func (s *JSONStore) Trigger(_ context.Context, keyword string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	response, ok := s.loadTriggers()[keyword]
	return response, ok, nil
}

func (s *JSONStore) SetTrigger(_ context.Context, keyword, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	table := s.loadTriggers()
	table[keyword] = response
	return s.save(s.triggersPath, table)
}

func (s *JSONStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(s.messagesPath, []string{}); err != nil {
		return err
	}
	return s.save(s.triggersPath, map[string]string{})
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) loadMessages() []string {
	messages := []string{}
	if !s.load(s.messagesPath, &messages) || messages == nil {
		return []string{}
	}
	return messages
}

func (s *JSONStore) loadTriggers() map[string]string {
	table := map[string]string{}
	if !s.load(s.triggersPath, &table) || table == nil {
		return map[string]string{}
	}
	return table
}

// load decodes path into v and reports whether it succeeded. Failures are
// logged and treated as an empty document.
func (s *JSONStore) load(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("reading store file (returning empty)", "path", path, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn("parsing store file (returning empty)", "path", path, "err", err)
		return false
	}
	return true
}

// save rewrites path through a temp file and rename so a crash mid-write never
// leaves a truncated document behind.
func (s *JSONStore) save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
