package adhkar_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusboard/backend/internal/adhkar"
)

func TestSeedsWhenFileMissing(t *testing.T) {
	store, err := adhkar.Open(filepath.Join(t.TempDir(), "adhkar.json"))
	require.NoError(t, err)

	all := store.List("")
	require.NotEmpty(t, all)

	car := store.List(adhkar.CategoryCar)
	require.NotEmpty(t, car)
	for _, item := range car {
		assert.Equal(t, adhkar.CategoryCar, item.Category)
	}
}

func TestCRUDPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adhkar.json")
	store, err := adhkar.Open(path)
	require.NoError(t, err)

	added, err := store.Add(adhkar.Item{
		Arabic:      "لَا إِلَهَ إِلَّا اللَّهُ",
		Translation: "There is no god but Allah",
		Category:    adhkar.CategoryEvening,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added.Repeat, "repeat defaults to 1")

	updated, found, err := store.Update(added.ID, adhkar.Item{
		Arabic:   added.Arabic,
		Category: adhkar.CategoryMorning,
		Repeat:   10,
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, added.ID, updated.ID)

	reopened, err := adhkar.Open(path)
	require.NoError(t, err)
	item, ok := reopened.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, adhkar.CategoryMorning, item.Category)
	assert.Equal(t, 10, item.Repeat)

	found, err = reopened.Delete(added.ID)
	require.NoError(t, err)
	require.True(t, found)
	_, ok = reopened.Get(added.ID)
	assert.False(t, ok)
}

func TestUpdateUnknownID(t *testing.T) {
	store, err := adhkar.Open(filepath.Join(t.TempDir(), "adhkar.json"))
	require.NoError(t, err)

	_, found, err := store.Update(999, adhkar.Item{Arabic: "x", Category: adhkar.CategoryCar})
	require.NoError(t, err)
	assert.False(t, found)

	found, err = store.Delete(999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIDsIncrease(t *testing.T) {
	store, err := adhkar.Open(filepath.Join(t.TempDir(), "adhkar.json"))
	require.NoError(t, err)

	first, err := store.Add(adhkar.Item{Arabic: "a", Category: adhkar.CategoryMorning})
	require.NoError(t, err)
	second, err := store.Add(adhkar.Item{Arabic: "b", Category: adhkar.CategoryMorning})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}
