// SPDX-License-Identifier: EPL-2.0

package hartufo

import (
	"sync"

	"github.com/hartufo/hartufo/hrir"
)

// recordCache is a bounded FIFO cache of served records. Stored records
// are treated as frozen; lookups hand out copies so callers can mutate
// what they get.
type recordCache struct {
	mtx     sync.Mutex
	limit   int
	order   []hrir.Key
	records map[hrir.Key]*hrir.Record
}

func newRecordCache(limit int) *recordCache {
	if limit <= 0 {
		return nil
	}
	return &recordCache{
		limit:   limit,
		records: make(map[hrir.Key]*hrir.Record, limit),
	}
}

func (c *recordCache) get(key hrir.Key) (*hrir.Record, bool) {
	if c == nil {
		return nil, false
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()

	rec, ok := c.records[key]
	if !ok {
		return nil, false
	}
	return copyRecord(rec), true
}

func (c *recordCache) put(key hrir.Key, rec *hrir.Record) {
	if c == nil {
		return
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if _, ok := c.records[key]; ok {
		return
	}
	if len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.records, oldest)
	}
	c.order = append(c.order, key)
	c.records[key] = copyRecord(rec)
}

func copyRecord(rec *hrir.Record) *hrir.Record {
	out := *rec
	out.Samples = make([]float64, len(rec.Samples))
	copy(out.Samples, rec.Samples)
	return &out
}
