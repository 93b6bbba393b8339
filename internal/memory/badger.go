package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/mosaicintel/mosaic/pkg/lifecycle"
)

// envelope wraps stored values so the write timestamp survives the backend.
type envelope struct {
	Value     json.RawMessage `json:"v"`
	UpdatedAt time.Time       `json:"u"`
}

type badgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewBadger creates a Store backed by an embedded Badger database at path.
// The database is opened immediately; Start registers the shutdown hook
// that closes it.
func NewBadger(path string, logger *slog.Logger) (Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	return &badgerStore{
		db:     db,
		logger: logger.With("system", "memory"),
	}, nil
}

func (b *badgerStore) Start(lc *lifecycle.Coordinator) error {
	b.logger.Info("badger memory store ready")

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := b.db.Close(); err != nil {
			b.logger.Error("badger close failed", "error", err)
			return
		}
		b.logger.Info("badger memory store closed")
	})

	return nil
}

func (b *badgerStore) Put(ctx context.Context, namespace, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", namespace, key, err)
	}

	env, err := json.Marshal(envelope{Value: data, UpdatedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal envelope %s/%s: %w", namespace, key, err)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storeKey(namespace, key), env)
	})
}

func (b *badgerStore) Get(ctx context.Context, namespace, key string, out any) error {
	var env envelope

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey(namespace, key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &env)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(env.Value, out)
}

func (b *badgerStore) Search(ctx context.Context, namespace string) ([]Record, error) {
	prefix := storeKey(namespace, "")
	var records []Record

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), string(prefix))

			var env envelope
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &env)
			}); err != nil {
				return fmt.Errorf("read %s: %w", item.Key(), err)
			}

			records = append(records, Record{
				Key:       key,
				Value:     env.Value,
				UpdatedAt: env.UpdatedAt,
			})
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return records, nil
}

func (b *badgerStore) Delete(ctx context.Context, namespace, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		k := storeKey(namespace, key)
		if _, err := txn.Get(k); err != nil {
			return err
		}
		return txn.Delete(k)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// storeKey joins namespace and key with a separator that cannot appear in
// either part. Badger iterates keys in byte order, so Search output is
// already key-sorted.
func storeKey(namespace, key string) []byte {
	return []byte(namespace + "\x00" + key)
}
