package settings

import (
	"sync"
	"testing"

	"armory/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	mu     sync.Mutex
	assets []models.Asset
	bases  []models.Base
}

func (s *stubLister) GetAssets() ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assets, nil
}

func (s *stubLister) GetBases() ([]models.Base, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bases, nil
}

func TestRefreshPopulatesLookups(t *testing.T) {
	lister := &stubLister{
		assets: []models.Asset{{ID: 1, Name: "Rifle", Category: models.CategoryWeapon}},
		bases:  []models.Base{{ID: 2, Name: "Northern Depot"}},
	}
	cache := NewRefCache(lister)

	require.NoError(t, cache.Refresh())

	asset, ok := cache.Asset(1)
	assert.True(t, ok)
	assert.Equal(t, "Rifle", asset.Name)

	base, ok := cache.Base(2)
	assert.True(t, ok)
	assert.Equal(t, "Northern Depot", base.Name)

	_, ok = cache.Asset(99)
	assert.False(t, ok)
}

func TestStaleRefreshDoesNotOverwriteNewer(t *testing.T) {
	cache := NewRefCache(&stubLister{})

	older := []models.Asset{{ID: 1, Name: "Rifle (old list)"}}
	newer := []models.Asset{{ID: 1, Name: "Rifle"}, {ID: 2, Name: "Jeep"}}

	// The refresh issued second resolves first; the first one arrives late.
	cache.apply(2, newer, nil)
	cache.apply(1, older, nil)

	assert.Len(t, cache.Assets(), 2)
	asset, _ := cache.Asset(1)
	assert.Equal(t, "Rifle", asset.Name)
}

func TestRefreshReplacesRemovedEntries(t *testing.T) {
	lister := &stubLister{
		assets: []models.Asset{{ID: 1, Name: "Rifle"}, {ID: 2, Name: "Jeep"}},
	}
	cache := NewRefCache(lister)
	require.NoError(t, cache.Refresh())

	lister.mu.Lock()
	lister.assets = []models.Asset{{ID: 1, Name: "Rifle"}}
	lister.mu.Unlock()

	require.NoError(t, cache.Refresh())

	_, ok := cache.Asset(2)
	assert.False(t, ok, "cache is replaced wholesale on refresh, never merged")
}
