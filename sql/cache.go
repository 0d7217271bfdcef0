// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"fmt"
	"hash/crc64"

	lru "github.com/hashicorp/golang-lru"
	errors "gopkg.in/src-d/go-errors.v1"
)

var table = crc64.MakeTable(crc64.ISO)

// CacheKey returns a hash of the given value to be used as key in
// a cache.
func CacheKey(v interface{}) uint64 {
	return crc64.Checksum([]byte(fmt.Sprintf("%#v", v)), table)
}

// ErrKeyNotFound is returned when the key could not be found in the cache.
var ErrKeyNotFound = errors.NewKind("memory: key %d not found in cache")

// RewriteCache keeps the output of the most recent rewrites. It is safe for
// concurrent use. A cache of size 0 never stores anything.
type RewriteCache struct {
	size  int
	cache *lru.Cache
}

// NewRewriteCache creates a cache holding up to size rewrites.
func NewRewriteCache(size int) *RewriteCache {
	c := &RewriteCache{size: size}
	if size > 0 {
		c.cache, _ = lru.New(size)
	}
	return c
}

// Put stores the rewrite of the given key.
func (c *RewriteCache) Put(k uint64, v string) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Add(k, v)
}

// Get returns the rewrite stored with the given key.
func (c *RewriteCache) Get(k uint64) (string, error) {
	if c == nil || c.cache == nil {
		return "", ErrKeyNotFound.New(k)
	}

	v, ok := c.cache.Get(k)
	if !ok {
		return "", ErrKeyNotFound.New(k)
	}

	return v.(string), nil
}

// Len returns the number of stored rewrites.
func (c *RewriteCache) Len() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// Free drops every stored rewrite.
func (c *RewriteCache) Free() {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Purge()
}
