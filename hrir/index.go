// SPDX-License-Identifier: EPL-2.0

package hrir

import (
	"cmp"
	"fmt"
	"slices"
)

// Index is an immutable mapping from measurement keys to storage locators.
// It is built once per dataset load and can be shared safely between
// goroutines and dataset views; Filter derives new indexes without
// touching the original.
type Index struct {
	keys []Key
	locs map[Key]Locator
}

func compareKeys(a, b Key) int {
	if c := cmp.Compare(a.Subject, b.Subject); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Side, b.Side); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Position.Azimuth, b.Position.Azimuth); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Position.Elevation, b.Position.Elevation); c != 0 {
		return c
	}
	return cmp.Compare(a.Position.Distance, b.Position.Distance)
}

// BuildIndex enumerates the adapter and builds a sorted, keyed index.
// An empty enumeration fails: a dataset root that yields no measurements
// is a misconfiguration, not an empty dataset.
func BuildIndex(adapter Adapter) (*Index, error) {
	entries, err := adapter.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("enumerating %s dataset: %w", adapter.Format(), err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no measurements found (format %s)", ErrBadConfig, adapter.Format())
	}

	idx := &Index{
		keys: make([]Key, 0, len(entries)),
		locs: make(map[Key]Locator, len(entries)),
	}
	for _, e := range entries {
		if _, dup := idx.locs[e.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate measurement %s at %s (format %s)",
				ErrBadFormat, e.Key, e.Loc, adapter.Format())
		}
		idx.keys = append(idx.keys, e.Key)
		idx.locs[e.Key] = e.Loc
	}
	slices.SortFunc(idx.keys, compareKeys)

	return idx, nil
}

// Len returns the number of measurements in the index.
func (x *Index) Len() int { return len(x.keys) }

// Keys returns the measurement keys in stable sorted order. The returned
// slice is a copy.
func (x *Index) Keys() []Key {
	return slices.Clone(x.keys)
}

// Locator resolves a key to its storage locator.
func (x *Index) Locator(key Key) (Locator, error) {
	loc, ok := x.locs[key]
	if !ok {
		return Locator{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return loc, nil
}

// Subjects returns the distinct subject identifiers present, sorted.
func (x *Index) Subjects() []string {
	seen := make(map[string]struct{})
	var subjects []string
	for _, k := range x.keys {
		if _, ok := seen[k.Subject]; ok {
			continue
		}
		seen[k.Subject] = struct{}{}
		subjects = append(subjects, k.Subject)
	}
	slices.Sort(subjects)
	return subjects
}

// Filter returns a new Index restricted to keys for which keep returns
// true. The receiver is not modified. The result may be empty; callers
// that require at least one match check Len themselves.
func (x *Index) Filter(keep func(Key) bool) *Index {
	out := &Index{
		locs: make(map[Key]Locator),
	}
	for _, k := range x.keys {
		if !keep(k) {
			continue
		}
		out.keys = append(out.keys, k)
		out.locs[k] = x.locs[k]
	}
	return out
}
