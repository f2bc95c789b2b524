package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning carries the economic constants of the game rules. Defaults match
// the live servers; a yaml file can override them for test servers.
type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickMs int `yaml:"tick_ms"`

	Star    StarTuning    `yaml:"star"`
	Outpost OutpostTuning `yaml:"outpost"`
	Pylon   PylonTuning   `yaml:"pylon"`
}

type StarTuning struct {
	BaseRate     float64 `yaml:"base_rate"`
	EnergyFactor float64 `yaml:"energy_factor"`

	HighYieldBaseRate     float64 `yaml:"high_yield_base_rate"`
	HighYieldEnergyFactor float64 `yaml:"high_yield_energy_factor"`
}

type OutpostTuning struct {
	UpgradeThreshold int        `yaml:"upgrade_threshold"`
	Low              TierTuning `yaml:"low"`
	High             TierTuning `yaml:"high"`
}

type TierTuning struct {
	Range  float64 `yaml:"range"`
	Cost   int     `yaml:"cost"`
	Damage int     `yaml:"damage"`
}

type PylonTuning struct {
	InnerRadius   float64 `yaml:"inner_radius"`
	OuterRadius   float64 `yaml:"outer_radius"`
	HealPerSpirit int     `yaml:"heal_per_spirit"`
}

func Default() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		TickMs:          500,
		Star: StarTuning{
			BaseRate:              2,
			EnergyFactor:          0.02,
			HighYieldBaseRate:     3,
			HighYieldEnergyFactor: 0.03,
		},
		Outpost: OutpostTuning{
			UpgradeThreshold: 500,
			Low:              TierTuning{Range: 400, Cost: 1, Damage: 2},
			High:             TierTuning{Range: 600, Cost: 4, Damage: 8},
		},
		Pylon: PylonTuning{
			InnerRadius:   200,
			OuterRadius:   400,
			HealPerSpirit: 1,
		},
	}
}

// Load reads a yaml tuning file over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
