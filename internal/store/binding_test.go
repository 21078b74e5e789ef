package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{key: "1", want: true},
		{key: "9", want: true},
		{key: "0", want: false},
		{key: "10", want: false},
		{key: "a", want: false},
		{key: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := ValidKey(tt.key); got != tt.want {
				t.Errorf("ValidKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestBindingRepository_CreateAndGet(t *testing.T) {
	repo := newTestStore(t).Bindings()

	b := &KeyBinding{Key: "1", Mode: "fire"}
	if err := repo.Create(b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := uuid.Parse(b.ID); err != nil {
		t.Errorf("Create() should assign a uuid, got %q", b.ID)
	}

	got, err := repo.GetByID(b.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Key != "1" || got.Mode != "fire" {
		t.Errorf("GetByID() = %+v", got)
	}

	got, err = repo.GetByKey("1")
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if got.ID != b.ID {
		t.Errorf("GetByKey() id = %q, want %q", got.ID, b.ID)
	}

	if _, err := repo.GetByKey("2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByKey() unbound key error = %v, want ErrNotFound", err)
	}
}

func TestBindingRepository_CreateErrors(t *testing.T) {
	repo := newTestStore(t).Bindings()

	if err := repo.Create(&KeyBinding{Key: "0", Mode: "fire"}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Create() key 0 error = %v, want ErrInvalidKey", err)
	}

	if err := repo.Create(&KeyBinding{Key: "3", Mode: "fire"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(&KeyBinding{Key: "3", Mode: "snow"}); !errors.Is(err, ErrKeyTaken) {
		t.Errorf("Create() duplicate key error = %v, want ErrKeyTaken", err)
	}
}

func TestBindingRepository_List(t *testing.T) {
	repo := newTestStore(t).Bindings()

	for _, b := range []*KeyBinding{
		{Key: "3", Mode: "snow"},
		{Key: "1", Mode: "fire"},
		{Key: "2", Mode: "sparkles"},
	} {
		if err := repo.Create(b); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() returned %d bindings, want 3", len(list))
	}
	for i, want := range []string{"1", "2", "3"} {
		if list[i].Key != want {
			t.Errorf("List()[%d].Key = %q, want %q", i, list[i].Key, want)
		}
	}
}

func TestBindingRepository_Update(t *testing.T) {
	repo := newTestStore(t).Bindings()

	a := &KeyBinding{Key: "1", Mode: "fire"}
	b := &KeyBinding{Key: "2", Mode: "snow"}
	for _, x := range []*KeyBinding{a, b} {
		if err := repo.Create(x); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	a.Mode = "rainbow_arcs"
	a.Key = "5"
	if err := repo.Update(a); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := repo.GetByKey("5")
	if got == nil || got.Mode != "rainbow_arcs" {
		t.Errorf("GetByKey(5) = %+v", got)
	}

	b.Key = "5"
	if err := repo.Update(b); !errors.Is(err, ErrKeyTaken) {
		t.Errorf("Update() to taken key error = %v, want ErrKeyTaken", err)
	}

	if err := repo.Update(&KeyBinding{ID: "missing", Key: "7", Mode: "fire"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() missing error = %v, want ErrNotFound", err)
	}
	if err := repo.Update(&KeyBinding{ID: a.ID, Key: "x"}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Update() bad key error = %v, want ErrInvalidKey", err)
	}
}

func TestBindingRepository_Delete(t *testing.T) {
	repo := newTestStore(t).Bindings()

	b := &KeyBinding{Key: "4", Mode: "explosion"}
	if err := repo.Create(b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}
