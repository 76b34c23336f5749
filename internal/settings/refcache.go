package settings

import (
	"sync"

	"armory/pkg/models"
)

// Lister loads the reference lists the cache mirrors.
type Lister interface {
	GetAssets() ([]models.Asset, error)
	GetBases() ([]models.Base, error)
}

// RefCache is the process-wide cache of the asset and base reference lists.
// It is loaded once at startup and refreshed after every asset or base
// mutation. Refreshes are tagged with a generation so a slow, superseded
// reload can never overwrite the data of a newer one (last write wins by
// issue order, not by arrival order).
type RefCache struct {
	lister Lister

	mu        sync.RWMutex
	assets    []models.Asset
	bases     []models.Base
	assetByID map[int]models.Asset
	baseByID  map[int]models.Base

	issued  uint64 // generation handed to the most recent refresh
	applied uint64 // generation of the data currently visible
}

// referenceLister adapts the settings repositories to the cache.
type referenceLister struct {
	assets *AssetRepository
	bases  *BaseRepository
}

func (l *referenceLister) GetAssets() ([]models.Asset, error) { return l.assets.GetAssets() }
func (l *referenceLister) GetBases() ([]models.Base, error)   { return l.bases.GetBases() }

func NewDBLister(assets *AssetRepository, bases *BaseRepository) Lister {
	return &referenceLister{assets: assets, bases: bases}
}

func NewRefCache(lister Lister) *RefCache {
	return &RefCache{
		lister:    lister,
		assetByID: make(map[int]models.Asset),
		baseByID:  make(map[int]models.Base),
	}
}

// Refresh reloads both lists. Callers invoke it after any create, update or
// delete of an asset or base.
func (c *RefCache) Refresh() error {
	c.mu.Lock()
	c.issued++
	generation := c.issued
	c.mu.Unlock()

	assets, err := c.lister.GetAssets()
	if err != nil {
		return err
	}
	bases, err := c.lister.GetBases()
	if err != nil {
		return err
	}

	c.apply(generation, assets, bases)
	return nil
}

func (c *RefCache) apply(generation uint64, assets []models.Asset, bases []models.Base) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation <= c.applied {
		// A newer refresh already landed; this result is stale.
		return
	}
	c.applied = generation

	c.assets = assets
	c.bases = bases
	c.assetByID = make(map[int]models.Asset, len(assets))
	for _, asset := range assets {
		c.assetByID[asset.ID] = asset
	}
	c.baseByID = make(map[int]models.Base, len(bases))
	for _, base := range bases {
		c.baseByID[base.ID] = base
	}
}

func (c *RefCache) Assets() []models.Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.assets
}

func (c *RefCache) Bases() []models.Base {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bases
}

func (c *RefCache) Asset(id int) (models.Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	asset, ok := c.assetByID[id]
	return asset, ok
}

func (c *RefCache) Base(id int) (models.Base, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	base, ok := c.baseByID[id]
	return base, ok
}
