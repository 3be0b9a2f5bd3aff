// SPDX-License-Identifier: EPL-2.0

package hartufo

import (
	"github.com/hartufo/hartufo/formats/dir"
	"github.com/hartufo/hartufo/formats/mat"
	"github.com/hartufo/hartufo/formats/sofa"
	"github.com/hartufo/hartufo/hrir"
)

// Dataset kind discriminants accepted by Load. The kind is declared by
// the caller; file content is never sniffed.
const (
	KindSOFA = "sofa"
	KindMAT  = "mat"
	KindDir  = "dir"
)

// NewRegistry returns a registry with the built-in format adapters
// registered. Callers embedding their own formats can register more.
func NewRegistry() *hrir.Registry {
	reg := hrir.NewRegistry()
	reg.Register(KindSOFA, func(root string) (hrir.Adapter, error) { return sofa.New(root) })
	reg.Register(KindMAT, func(root string) (hrir.Adapter, error) { return mat.New(root) })
	reg.Register(KindDir, func(root string) (hrir.Adapter, error) { return dir.New(root) })
	return reg
}

// Load opens a dataset root of the declared kind. An unknown kind fails
// with ErrBadConfig.
func Load(kind, root string, cfg Config) (*Dataset, error) {
	adapter, err := NewRegistry().New(kind, root)
	if err != nil {
		return nil, err
	}
	return New(adapter, cfg)
}
