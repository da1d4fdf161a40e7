// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/lightninglabs/neutrino/cache"
	"github.com/lightninglabs/neutrino/cache/lru"
)

// defaultBlockCacheSize is the number of block summaries kept in memory
// per client.
const defaultBlockCacheSize = 1024

// cacheableBlockInfo wraps a BlockInfo so it can live in an LRU cache.
type cacheableBlockInfo struct {
	info BlockInfo
}

// Size returns the element's weight in the cache.  Summaries are small
// and uniform, so each counts as one.
func (c *cacheableBlockInfo) Size() (uint64, error) {
	return 1, nil
}

// blockCache is a height-indexed LRU cache of block summaries.  Lookups
// of blocks already fetched never hit the back end again.
type blockCache struct {
	cache *lru.Cache[uint64, *cacheableBlockInfo]
}

// newBlockCache creates a block cache holding up to capacity summaries.
func newBlockCache(capacity uint64) *blockCache {
	return &blockCache{
		cache: lru.NewCache[uint64, *cacheableBlockInfo](capacity),
	}
}

// get returns the cached summary for the given height, if present.
func (b *blockCache) get(height uint64) (*BlockInfo, bool) {
	elem, err := b.cache.Get(height)
	if err != nil {
		// Only cache.ErrElementNotFound is possible here.
		return nil, false
	}

	info := elem.info
	return &info, true
}

// put stores a summary in the cache.
func (b *blockCache) put(info *BlockInfo) {
	_, err := b.cache.Put(info.Height, &cacheableBlockInfo{info: *info})
	if err != nil {
		log.Warnf("Unable to cache block %d: %v", info.Height, err)
	}
}

// A compile-time check that the wrapper satisfies the cache constraint.
var _ cache.Value = (*cacheableBlockInfo)(nil)
