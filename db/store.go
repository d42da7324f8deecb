package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Trigger pairs an auto-reply keyword with its response.
type Trigger struct {
	Keyword  string `json:"keyword"`
	Response string `json:"response"`
}

// Store persists panel messages and the trigger table.
//
// Messages are addressed by position: appends never move an existing index,
// Clear resets everything.
type Store interface {
	Messages(ctx context.Context) ([]string, error)
	// Message returns false when index is out of range.
	Message(ctx context.Context, index int) (string, bool, error)
	// AppendMessage returns the number of stored messages after the append.
	AppendMessage(ctx context.Context, content string) (int, error)

	// Triggers returns every trigger sorted by keyword.
	Triggers(ctx context.Context) ([]Trigger, error)
	Trigger(ctx context.Context, keyword string) (string, bool, error)
	// SetTrigger registers keyword, replacing any previous response.
	SetTrigger(ctx context.Context, keyword, response string) error

	// Clear empties both the messages and the trigger table.
	Clear(ctx context.Context) error
	Close() error
}

// Options selects and configures a Store backend.
type Options struct {
	Backend string // json, bolt or sqlite

	MessagesFile string // json
	TriggersFile string // json
	BoltPath     string
	SQLitePath   string

	Logger *slog.Logger
}

// Open creates the Store named by o.Backend.
func Open(o Options) (Store, error) {
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "db", "backend", o.Backend)

	var (
		s   Store
		err error
	)
	switch o.Backend {
	case "json", "":
		s, err = NewJSONStore(o.MessagesFile, o.TriggersFile, log)
	case "bolt":
		s, err = NewBoltStore(o.BoltPath)
	case "sqlite":
		s, err = NewSQLiteStore(o.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, o.Backend)
	}
	if err != nil {
		return nil, err
	}
	log.Info("store opened")
	return s, nil
}
