// SPDX-License-Identifier: EPL-2.0

package hartufo

import (
	"fmt"
	"slices"

	"github.com/hartufo/hartufo/hrir"
)

// Collection describes a published HRTF measurement collection: its
// on-disk kind, where it can be downloaded, its native samplerate, and
// the subjects excluded by default (dummy-head recordings mixed in with
// the human subjects).
type Collection struct {
	Name            string
	Kind            string
	URL             string
	SampleRate      int
	ExcludeSubjects []string
}

// Load opens a local copy of the collection. The collection's default
// subject exclusions are merged into the Config.
func (c Collection) Load(root string, cfg Config) (*Dataset, error) {
	merged := slices.Clone(cfg.ExcludeSubjects)
	for _, s := range c.ExcludeSubjects {
		if !slices.Contains(merged, s) {
			merged = append(merged, s)
		}
	}
	cfg.ExcludeSubjects = merged
	ds, err := Load(c.Kind, root, cfg)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", c.Name, err)
	}
	return ds, nil
}

// Collections lists the known public collections.
func Collections() []Collection {
	return []Collection{
		{
			Name:            "cipic",
			Kind:            KindMAT,
			URL:             "https://sofacoustics.org/data/database/cipic/",
			SampleRate:      44100,
			ExcludeSubjects: []string{"021", "165"}, // KEMAR large and small pinnae
		},
		{
			Name:       "ari",
			Kind:       KindSOFA,
			URL:        "https://sofacoustics.org/data/database/ari/",
			SampleRate: 48000,
		},
		{
			Name:            "listen",
			Kind:            KindSOFA,
			URL:             "http://recherche.ircam.fr/equipes/salles/listen/",
			SampleRate:      44100,
			ExcludeSubjects: []string{"IRC_1002"},
		},
		{
			Name:       "bili",
			Kind:       KindSOFA,
			URL:        "https://sofacoustics.org/data/database/bili/",
			SampleRate: 96000,
		},
		{
			Name:       "ita",
			Kind:       KindSOFA,
			URL:        "https://sofacoustics.org/data/database/aachen/",
			SampleRate: 44100,
		},
		{
			Name:       "hutubs",
			Kind:       KindSOFA,
			URL:        "https://depositonce.tu-berlin.de/handle/11303/9429",
			SampleRate: 44100,
			// pp1 and pp96 are the FABIAN dummy head measured twice.
			ExcludeSubjects: []string{"pp1", "pp96"},
		},
		{
			Name:       "riec",
			Kind:       KindSOFA,
			URL:        "http://www.riec.tohoku.ac.jp/pub/hrtf/index.html",
			SampleRate: 48000,
		},
		{
			Name:       "chedar",
			Kind:       KindSOFA,
			URL:        "https://sofacoustics.org/data/database/chedar/",
			SampleRate: 48000,
		},
		{
			Name:       "widespread",
			Kind:       KindSOFA,
			URL:        "https://sofacoustics.org/data/database/widespread/",
			SampleRate: 48000,
		},
		{
			Name:       "sadie2",
			Kind:       KindSOFA,
			URL:        "https://www.york.ac.uk/sadie-project/database.html",
			SampleRate: 96000,
			// D1 and D2 are the KU100 and KEMAR dummy heads.
			ExcludeSubjects: []string{"D1", "D2"},
		},
		{
			Name:       "3d3a",
			Kind:       KindSOFA,
			URL:        "https://3d3a.princeton.edu/3d3a-lab-head-related-transfer-function-database",
			SampleRate: 96000,
		},
		{
			Name:       "sonicom",
			Kind:       KindSOFA,
			URL:        "https://www.axdesign.co.uk/tools-and-devices/sonicom-hrtf-dataset",
			SampleRate: 48000,
			// The KEMAR dummy head ships alongside the human subjects.
			ExcludeSubjects: []string{"KEMAR"},
		},
	}
}

// FindCollection looks a collection up by name.
func FindCollection(name string) (Collection, error) {
	for _, c := range Collections() {
		if c.Name == name {
			return c, nil
		}
	}
	return Collection{}, fmt.Errorf("%w: unknown collection %q", hrir.ErrBadConfig, name)
}
