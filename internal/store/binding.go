package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidKey is returned for a binding key outside 1-9.
	ErrInvalidKey = errors.New("binding key must be a digit from 1 to 9")
	// ErrKeyTaken is returned when another binding already uses the key.
	ErrKeyTaken = errors.New("binding key already in use")
)

// KeyBinding maps a number key to an effect mode.
type KeyBinding struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidKey reports whether key is a single digit from 1 to 9.
func ValidKey(key string) bool {
	return len(key) == 1 && key[0] >= '1' && key[0] <= '9'
}

// BindingRepository provides CRUD operations for key bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the key binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Create inserts b, assigning a new ID when it has none.
func (r *BindingRepository) Create(b *KeyBinding) error {
	if !ValidKey(b.Key) {
		return ErrInvalidKey
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO key_bindings (id, key, mode, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Key, b.Mode, b.CreatedAt,
	)
	return uniqueErr(err)
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*KeyBinding, error) {
	return r.getOne(`SELECT id, key, mode, created_at FROM key_bindings WHERE id = ?`, id)
}

// GetByKey retrieves the binding for key.
func (r *BindingRepository) GetByKey(key string) (*KeyBinding, error) {
	return r.getOne(`SELECT id, key, mode, created_at FROM key_bindings WHERE key = ?`, key)
}

func (r *BindingRepository) getOne(query, arg string) (*KeyBinding, error) {
	b := &KeyBinding{}
	err := r.db.QueryRow(query, arg).Scan(&b.ID, &b.Key, &b.Mode, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// List retrieves every binding ordered by key.
func (r *BindingRepository) List() ([]*KeyBinding, error) {
	rows, err := r.db.Query(`SELECT id, key, mode, created_at FROM key_bindings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*KeyBinding
	for rows.Next() {
		b := &KeyBinding{}
		if err := rows.Scan(&b.ID, &b.Key, &b.Mode, &b.CreatedAt); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bindings, nil
}

// Update changes the key and mode of an existing binding.
func (r *BindingRepository) Update(b *KeyBinding) error {
	if !ValidKey(b.Key) {
		return ErrInvalidKey
	}

	result, err := r.db.Exec(`UPDATE key_bindings SET key = ?, mode = ? WHERE id = ?`, b.Key, b.Mode, b.ID)
	if err != nil {
		return uniqueErr(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM key_bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// uniqueErr maps a UNIQUE constraint failure to ErrKeyTaken.
func uniqueErr(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrKeyTaken, err)
	}
	return err
}
