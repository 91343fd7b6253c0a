package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/ports"
	"github.com/goccy/go-json"
)

var _ ports.InterfaceConfigStore = (*InterfaceStore)(nil)

const interfaceKeyPrefix = "iface:"

func interfaceKey(name string) []byte {
	return []byte(interfaceKeyPrefix + name)
}

// InterfaceStore keeps interface failover configuration in badger, one JSON
// document per interface.
type InterfaceStore struct {
	db     *badger.DB
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

func NewInterfaceStore(db *badger.DB, logger *slog.Logger) *InterfaceStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &InterfaceStore{
		db:     db,
		logger: logger.With("component", "interface-store"),
	}
}

func (s *InterfaceStore) Get(ctx context.Context, name string) (domain.InterfaceConfig, error) {
	var cfg domain.InterfaceConfig
	if err := s.guard(ctx); err != nil {
		return cfg, err
	}

	key := interfaceKey(name)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cfg)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return cfg, domain.NewKeyNotFoundError(string(key))
	}
	if err != nil {
		return cfg, domain.NewStorageError("get", string(key), err)
	}
	return cfg, nil
}

func (s *InterfaceStore) Put(ctx context.Context, cfg domain.InterfaceConfig) error {
	if err := s.guard(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return domain.NewStorageError("put", "", domain.ErrInvalidInput)
	}

	key := interfaceKey(cfg.Name)
	data, err := json.Marshal(cfg)
	if err != nil {
		return domain.NewStorageError("put", string(key), err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	}); err != nil {
		s.logger.Error("failed to store interface config", "interface", cfg.Name, "error", err)
		return domain.NewStorageError("put", string(key), err)
	}

	s.logger.Debug("stored interface config",
		"interface", cfg.Name,
		"critical", cfg.Critical,
		"group", cfg.Group,
		"internal", cfg.Internal)
	return nil
}

// Delete removes an interface. Deleting an unknown interface is not an error.
func (s *InterfaceStore) Delete(ctx context.Context, name string) error {
	if err := s.guard(ctx); err != nil {
		return err
	}

	key := interfaceKey(name)
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	}); err != nil {
		return domain.NewStorageError("delete", string(key), err)
	}
	return nil
}

// List returns every stored interface sorted by name.
func (s *InterfaceStore) List(ctx context.Context) ([]domain.InterfaceConfig, error) {
	if err := s.guard(ctx); err != nil {
		return nil, err
	}

	configs := []domain.InterfaceConfig{}
	badKey := interfaceKeyPrefix
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(interfaceKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var cfg domain.InterfaceConfig
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &cfg)
			}); err != nil {
				badKey = string(item.KeyCopy(nil))
				return fmt.Errorf("%w: undecodable interface config: %v", domain.ErrInvalidInput, err)
			}
			configs = append(configs, cfg)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to list interface configs", "key", badKey, "error", err)
		return nil, domain.NewStorageError("list", badKey, err)
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}

// Replace stores configs and removes every stored interface not among them,
// in a single transaction.
func (s *InterfaceStore) Replace(ctx context.Context, configs []domain.InterfaceConfig) error {
	if err := s.guard(ctx); err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(configs))
	for _, cfg := range configs {
		if strings.TrimSpace(cfg.Name) == "" {
			return domain.NewStorageError("replace", "", domain.ErrInvalidInput)
		}
		keep[string(interfaceKey(cfg.Name))] = struct{}{}
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(interfaceKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if _, ok := keep[string(key)]; !ok {
				stale = append(stale, key)
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for _, cfg := range configs {
			data, err := json.Marshal(cfg)
			if err != nil {
				return err
			}
			if err := txn.Set(interfaceKey(cfg.Name), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.NewStorageError("replace", interfaceKeyPrefix, err)
	}

	s.logger.Info("replaced interface configuration", "count", len(configs))
	return nil
}

// Close marks the store closed. The badger handle belongs to the caller.
func (s *InterfaceStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *InterfaceStore) guard(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.ErrClosed
	}
	return nil
}
