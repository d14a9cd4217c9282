package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readtrailapp/readtrail-server/internal/store"
)

type testEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Group string `json:"group"`
}

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "store-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestEntity_CreateAndGet(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:")

	data := &testEntity{ID: "1", Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, entity.Create(context.Background(), "1", data))

	got, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, data.Name, got.Name)
	require.Equal(t, data.Email, got.Email)
}

func TestEntity_Create_AlreadyExists(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:")

	data := &testEntity{ID: "1", Name: "Ada"}
	require.NoError(t, entity.Create(context.Background(), "1", data))

	err := entity.Create(context.Background(), "1", data)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:")

	_, err := entity.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_UniqueIndex_Conflict(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithUniqueIndex("email", func(e *testEntity) []string {
			return []string{e.Email}
		})

	require.NoError(t, entity.Create(context.Background(), "1",
		&testEntity{ID: "1", Email: "ada@example.com"}))

	err := entity.Create(context.Background(), "2",
		&testEntity{ID: "2", Email: "ada@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// a distinct value is fine
	require.NoError(t, entity.Create(context.Background(), "2",
		&testEntity{ID: "2", Email: "grace@example.com"}))
}

func TestEntity_UniqueIndex_LookupAndUpdate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithUniqueIndex("email", func(e *testEntity) []string {
			return []string{e.Email}
		})

	require.NoError(t, entity.Create(context.Background(), "1",
		&testEntity{ID: "1", Name: "Ada", Email: "ada@example.com"}))

	got, err := entity.GetByIndex(context.Background(), "email", "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "1", got.ID)

	// changing the indexed value moves the index
	require.NoError(t, entity.Update(context.Background(), "1",
		&testEntity{ID: "1", Name: "Ada", Email: "lovelace@example.com"}))

	_, err = entity.GetByIndex(context.Background(), "email", "ada@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err = entity.GetByIndex(context.Background(), "email", "lovelace@example.com")
	require.NoError(t, err)
	require.Equal(t, "1", got.ID)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:")

	err := entity.Update(context.Background(), "missing", &testEntity{ID: "missing"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Delete_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithUniqueIndex("email", func(e *testEntity) []string {
			return []string{e.Email}
		})

	require.NoError(t, entity.Create(context.Background(), "1",
		&testEntity{ID: "1", Email: "ada@example.com"}))
	require.NoError(t, entity.Delete(context.Background(), "1"))
	require.NoError(t, entity.Delete(context.Background(), "1"))

	// index key is released with the entity
	require.NoError(t, entity.Create(context.Background(), "2",
		&testEntity{ID: "2", Email: "ada@example.com"}))
}

func TestEntity_ListByIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithListIndex("group", func(e *testEntity) []string {
			return []string{e.Group}
		})

	require.NoError(t, entity.Create(context.Background(), "1", &testEntity{ID: "1", Group: "a"}))
	require.NoError(t, entity.Create(context.Background(), "2", &testEntity{ID: "2", Group: "a"}))
	require.NoError(t, entity.Create(context.Background(), "3", &testEntity{ID: "3", Group: "b"}))

	var ids []string
	for e, err := range entity.ListByIndex(context.Background(), "group", "a") {
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	require.ElementsMatch(t, []string{"1", "2"}, ids)

	// deleting an entity removes it from the listing
	require.NoError(t, entity.Delete(context.Background(), "1"))
	ids = ids[:0]
	for e, err := range entity.ListByIndex(context.Background(), "group", "a") {
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	require.Equal(t, []string{"2"}, ids)
}

func TestEntity_List_SkipsIndexKeys(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:").
		WithUniqueIndex("email", func(e *testEntity) []string {
			return []string{e.Email}
		})

	require.NoError(t, entity.Create(context.Background(), "1",
		&testEntity{ID: "1", Email: "ada@example.com"}))
	require.NoError(t, entity.Create(context.Background(), "2",
		&testEntity{ID: "2", Email: "grace@example.com"}))

	count := 0
	for _, err := range entity.List(context.Background()) {
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 2, count)
}

func TestEntity_ContextCanceled(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[testEntity](s, "test:")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := entity.Create(ctx, "1", &testEntity{ID: "1"})
	require.True(t, errors.Is(err, context.Canceled))
}
