package badgerdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"healthaxis/internal/domain/entity"
	"healthaxis/internal/domain/repository"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/logger"
)

// remindersKey is the fixed slot the whole collection is persisted under, as
// one JSON array.
const remindersKey = "healthaxis_reminders"

type reminderRepository struct {
	db  *badger.DB
	log logger.Logger

	mu        sync.RWMutex
	reminders map[string]*entity.Reminder
}

// NewReminderRepository creates the reminder store and loads the persisted
// collection once. Missing or corrupt persisted data yields an empty store,
// never an error.
func NewReminderRepository(db *badger.DB, log logger.Logger) repository.ReminderRepository {
	r := &reminderRepository{
		db:        db,
		log:       log,
		reminders: make(map[string]*entity.Reminder),
	}
	r.load()
	return r
}

func (r *reminderRepository) load() {
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(remindersKey))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			r.log.Warn(fmt.Sprintf("Failed to read persisted reminders, starting empty: %v", err))
		}
		return
	}

	var list []*entity.Reminder
	if err := json.Unmarshal(raw, &list); err != nil {
		r.log.Warn(fmt.Sprintf("Persisted reminders are corrupt, starting empty: %v", err))
		return
	}
	for _, rm := range list {
		r.reminders[rm.ID] = rm
	}
	r.log.Info(fmt.Sprintf("Loaded %d persisted reminders", len(list)))
}

// persist writes the whole collection back to the fixed key. Must be called
// with r.mu held. Failures are logged and swallowed; the in-memory state wins.
func (r *reminderRepository) persist() {
	list := make([]*entity.Reminder, 0, len(r.reminders))
	for _, rm := range r.reminders {
		list = append(list, rm)
	}
	raw, err := json.Marshal(list)
	if err != nil {
		r.log.Error("Failed to marshal reminders for persistence", err)
		return
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(remindersKey), raw)
	})
	if err != nil {
		r.log.Error("Failed to persist reminders", err)
	}
}

// Set inserts or replaces a reminder by ID.
func (r *reminderRepository) Set(ctx context.Context, reminder *entity.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *reminder
	r.reminders[clone.ID] = &clone
	r.persist()
	return nil
}

// Remove deletes a reminder by ID. No-op when absent.
func (r *reminderRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[id]; !ok {
		return nil
	}
	delete(r.reminders, id)
	r.persist()
	return nil
}

// Get retrieves a reminder by ID.
func (r *reminderRepository) Get(ctx context.Context, id string) (*entity.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.reminders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
	}
	clone := *rm
	return &clone, nil
}

// GetAll retrieves the full collection.
func (r *reminderRepository) GetAll(ctx context.Context) ([]*entity.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.Reminder, 0, len(r.reminders))
	for _, rm := range r.reminders {
		clone := *rm
		list = append(list, &clone)
	}
	return list, nil
}

// GetByMedicine retrieves all reminders for a specific medicine.
func (r *reminderRepository) GetByMedicine(ctx context.Context, medicineID string) ([]*entity.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.Reminder
	for _, rm := range r.reminders {
		if rm.MedicineID == medicineID {
			clone := *rm
			list = append(list, &clone)
		}
	}
	return list, nil
}
