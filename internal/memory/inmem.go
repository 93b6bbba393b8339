package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mosaicintel/mosaic/pkg/lifecycle"
)

type inmemRecord struct {
	value     []byte
	updatedAt time.Time
}

type inmem struct {
	mu   sync.RWMutex
	data map[string]map[string]inmemRecord
}

// NewInMemory creates a Store backed by process memory. Contents do not
// survive restarts; intended for tests and local development.
func NewInMemory() Store {
	return &inmem{
		data: make(map[string]map[string]inmemRecord),
	}
}

func (m *inmem) Start(lc *lifecycle.Coordinator) error {
	return nil
}

func (m *inmem) Put(ctx context.Context, namespace, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", namespace, key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string]inmemRecord)
		m.data[namespace] = ns
	}

	ns[key] = inmemRecord{value: data, updatedAt: time.Now()}
	return nil
}

func (m *inmem) Get(ctx context.Context, namespace, key string, out any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ns, ok := m.data[namespace]
	if !ok {
		return ErrNotFound
	}

	record, ok := ns[key]
	if !ok {
		return ErrNotFound
	}

	return json.Unmarshal(record.value, out)
}

func (m *inmem) Search(ctx context.Context, namespace string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ns := m.data[namespace]
	records := make([]Record, 0, len(ns))

	for key, r := range ns {
		records = append(records, Record{
			Key:       key,
			Value:     r.value,
			UpdatedAt: r.updatedAt,
		})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })
	return records, nil
}

func (m *inmem) Delete(ctx context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.data[namespace]
	if !ok {
		return ErrNotFound
	}

	if _, ok := ns[key]; !ok {
		return ErrNotFound
	}

	delete(ns, key)
	return nil
}
