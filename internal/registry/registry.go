// Package registry loads the static registries the resolver consumes: the
// known-large-chain blocklist and the city-name list used during name
// normalization. Registries are plain values passed into each resolution
// run; nothing here is process-global.
package registry

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Registry holds the configured name registries. A zero Registry is a valid
// reduced-precision mode: no chains blocked, no cities stripped.
type Registry struct {
	Chains []string            `yaml:"chains"`
	Cities map[string][]string `yaml:"cities"`
}

// CityNames flattens the per-country city lists into one slice.
func (r *Registry) CityNames() []string {
	var out []string
	for _, cities := range r.Cities {
		out = append(out, cities...)
	}
	return out
}

// defaultChains seeds the blocklist when no registry file is configured.
// Large national chains the pipeline should never treat as leads.
var defaultChains = []string{
	"nike", "adidas", "walmart", "costco", "target",
	"starbucks", "mcdonald's", "subway", "tim hortons",
	"home depot", "best buy", "canadian tire", "shoppers drug mart",
	"loblaws", "sobeys", "dollarama", "sport chek", "winners",
	"lululemon", "sephora", "old navy", "the gap", "h&m", "zara",
	"foot locker", "gnc",
}

// Load reads a registry YAML file. A missing path is not an error: the
// built-in chain defaults and an empty city list apply, which only reduces
// filtering precision.
func Load(path string) (*Registry, error) {
	reg := &Registry{Chains: defaultChains}

	if path == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("registry: file missing, using defaults", zap.String("path", path))
			return reg, nil
		}
		return nil, eris.Wrapf(err, "registry: read %s", path)
	}

	var loaded Registry
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, eris.Wrapf(err, "registry: parse %s", path)
	}

	if len(loaded.Chains) > 0 {
		reg.Chains = loaded.Chains
	}
	reg.Cities = loaded.Cities

	zap.L().Info("registry: loaded",
		zap.String("path", path),
		zap.Int("chains", len(reg.Chains)),
		zap.Int("cities", len(reg.CityNames())),
	)

	return reg, nil
}
