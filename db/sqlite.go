package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS triggers (
	keyword  TEXT PRIMARY KEY,
	response TEXT NOT NULL
);`

// SQLiteStore orders messages by their autoincrement id; a message's index is
// its ordinal position in that order.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One connection serializes writers the same way the other backends do.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Messages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT content FROM messages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	defer rows.Close()

	messages := []string{}
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, content)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) Message(ctx context.Context, index int) (string, bool, error) {
	if index < 0 {
		return "", false, nil
	}
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM messages ORDER BY id LIMIT 1 OFFSET ?`, index).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading message %d: %w", index, err)
	}
	return content, true, nil
}

func (s *SQLiteStore) AppendMessage(ctx context.Context, content string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("saving message: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO messages (content) VALUES (?)`, content); err != nil {
		return 0, fmt.Errorf("saving message: %w", err)
	}
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("saving message: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Triggers(ctx context.Context) ([]Trigger, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT keyword, response FROM triggers ORDER BY keyword`)
	if err != nil {
		return nil, fmt.Errorf("loading triggers: %w", err)
	}
	defer rows.Close()

	triggers := []Trigger{}
	for rows.Next() {
		var t Trigger
		if err := rows.Scan(&t.Keyword, &t.Response); err != nil {
			return nil, fmt.Errorf("scanning trigger: %w", err)
		}
		triggers = append(triggers, t)
	}
	return triggers, rows.Err()
}

func (s *SQLiteStore) Trigger(ctx context.Context, keyword string) (string, bool, error) {
	var response string
	err := s.db.QueryRowContext(ctx,
		`SELECT response FROM triggers WHERE keyword = ?`, keyword).Scan(&response)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading trigger %q: %w", keyword, err)
	}
	return response, true, nil
}

func (s *SQLiteStore) SetTrigger(ctx context.Context, keyword, response string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO triggers (keyword, response) VALUES (?, ?)
		ON CONFLICT(keyword) DO UPDATE SET response = excluded.response`,
		keyword, response)
	if err != nil {
		return fmt.Errorf("saving trigger %q: %w", keyword, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("clearing sqlite store: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM messages`,
		`DELETE FROM triggers`,
		`DELETE FROM sqlite_sequence WHERE name = 'messages'`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing sqlite store: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
