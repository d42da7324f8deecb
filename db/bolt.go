package db

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
)

var (
	messagesBucket = []byte("messages")
	triggersBucket = []byte("triggers")
)

// BoltStore keeps messages in a bucket keyed by a big-endian sequence number,
// so cursor order is insertion order, and triggers in a keyword-keyed bucket
// (bytewise key order gives the sorted listing for free).
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	// Ensure the buckets exist
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(messagesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(triggersBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bolt buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Messages(_ context.Context) ([]string, error) {
	messages := []string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(messagesBucket).ForEach(func(_, v []byte) error {
			messages = append(messages, string(v))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	return messages, nil
}

func (s *BoltStore) Message(_ context.Context, index int) (string, bool, error) {
	if index < 0 {
		return "", false, nil
	}
	var (
		content string
		found   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(messagesBucket).Cursor()
		i := 0
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if i == index {
				content, found = string(v), true
				return nil
			}
			i++
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("loading message %d: %w", index, err)
	}
	return content, found, nil
}

func (s *BoltStore) AppendMessage(_ context.Context, content string) (int, error) {
	var count int
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(messagesBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		if err := b.Put(key, []byte(content)); err != nil {
			return err
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("saving message: %w", err)
	}
	return count, nil
}

func (s *BoltStore) Triggers(_ context.Context) ([]Trigger, error) {
	triggers := []Trigger{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(triggersBucket).ForEach(func(k, v []byte) error {
			triggers = append(triggers, Trigger{Keyword: string(k), Response: string(v)})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading triggers: %w", err)
	}
	return triggers, nil
}

func (s *BoltStore) Trigger(_ context.Context, keyword string) (string, bool, error) {
	var (
		response string
		found    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(triggersBucket).Get([]byte(keyword))
		if v != nil {
			response, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("loading trigger %q: %w", keyword, err)
	}
	return response, found, nil
}

func (s *BoltStore) SetTrigger(_ context.Context, keyword, response string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(triggersBucket).Put([]byte(keyword), []byte(response))
	})
	if err != nil {
		return fmt.Errorf("saving trigger %q: %w", keyword, err)
	}
	return nil
}

func (s *BoltStore) Clear(_ context.Context) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{messagesBucket, triggersBucket} {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clearing bolt store: %w", err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
