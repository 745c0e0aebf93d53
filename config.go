// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/Blosc/blosc2-btune

package btune

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Default values substituted for out-of-range configuration (§7
// "Configuration-invalid").
const (
	DefaultTradeoff     = 0.5
	DefaultBandwidthKBs = 100 * 1024
)

// TradeoffBand classifies Config.Tradeoff into the three bands §3 and
// §4.2/§4.3 branch on.
type TradeoffBand int

const (
	TradeoffLow TradeoffBand = iota
	TradeoffMid
	TradeoffHigh
)

// Band returns which of the three real-valued tradeoff bands t falls
// into, using real-valued thresholds rather than integer-truncating
// comparisons.
func (t tradeoffValue) Band() TradeoffBand {
	switch {
	case float64(t) <= 1.0/3.0:
		return TradeoffLow
	case float64(t) <= 2.0/3.0:
		return TradeoffMid
	default:
		return TradeoffHigh
	}
}

// tradeoffValue is a named float64 so Band can hang off it without
// exporting a method on the bare float64 the Config field uses.
type tradeoffValue float64

// Behaviour is the soft/hard/wait readaptation schedule (§3).
type Behaviour struct {
	NWaitsBeforeReadapt uint32
	NSoftsBeforeHard    uint32
	NHardsBeforeStop    uint32
	RepeatMode          RepeatMode
}

// DefaultBehaviour is a conservative schedule: one hard readapt, no
// softs, no waits, stop once the hard completes.
func DefaultBehaviour() Behaviour {
	return Behaviour{
		NWaitsBeforeReadapt: 0,
		NSoftsBeforeHard:    0,
		NHardsBeforeStop:    1,
		RepeatMode:          RepeatStop,
	}
}

// Config is the immutable (after Init) tuner configuration (§3).
type Config struct {
	Tradeoff    float64
	PerfMode    PerfMode
	Bandwidth   uint32
	Behaviour   Behaviour
	CParamsHint bool
}

// DefaultConfig returns the built-in configuration defaults, before any
// env var or file overrides are applied.
func DefaultConfig() Config {
	return Config{
		Tradeoff:    DefaultTradeoff,
		PerfMode:    PerfAuto,
		Bandwidth:   DefaultBandwidthKBs,
		Behaviour:   DefaultBehaviour(),
		CParamsHint: false,
	}
}

// Band returns which of the three tradeoff bands c.Tradeoff falls into.
func (c Config) Band() TradeoffBand {
	return tradeoffValue(c.Tradeoff).Band()
}

// fileConfig is the subset of Config a YAML file may set; any field a
// file omits keeps its value from the base Config passed to
// LoadConfigFile (§ AMBIENT STACK "Configuration surface").
type fileConfig struct {
	Tradeoff  *float64 `yaml:"tradeoff"`
	PerfMode  *string  `yaml:"perf_mode"`
	Bandwidth *uint32  `yaml:"bandwidth"`
	Behaviour *struct {
		NWaitsBeforeReadapt *uint32 `yaml:"nwaits_before_readapt"`
		NSoftsBeforeHard    *uint32 `yaml:"nsofts_before_hard"`
		NHardsBeforeStop    *uint32 `yaml:"nhards_before_stop"`
		RepeatMode          *string `yaml:"repeat_mode"`
	} `yaml:"behaviour"`
	CParamsHint *bool `yaml:"cparams_hint"`
}

// LoadConfigFile reads a YAML configuration file and applies it on top
// of base. It is a supplement to the env-var surface in §6, not a
// replacement: Init runs ApplyEnv on the result, so BTUNE_TRADEOFF
// still wins over a file's tradeoff. BTUNE_PERF_MODE is applied only
// when the perf mode is still AUTO; a perf_mode set by the file is
// kept.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("btune: read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("btune: parse config file: %w", err)
	}
	cfg := base
	if fc.Tradeoff != nil {
		cfg.Tradeoff = *fc.Tradeoff
	}
	if fc.PerfMode != nil {
		if pm, ok := parsePerfMode(*fc.PerfMode); ok {
			cfg.PerfMode = pm
		}
	}
	if fc.Bandwidth != nil {
		cfg.Bandwidth = *fc.Bandwidth
	}
	if fc.CParamsHint != nil {
		cfg.CParamsHint = *fc.CParamsHint
	}
	if fc.Behaviour != nil {
		if fc.Behaviour.NWaitsBeforeReadapt != nil {
			cfg.Behaviour.NWaitsBeforeReadapt = *fc.Behaviour.NWaitsBeforeReadapt
		}
		if fc.Behaviour.NSoftsBeforeHard != nil {
			cfg.Behaviour.NSoftsBeforeHard = *fc.Behaviour.NSoftsBeforeHard
		}
		if fc.Behaviour.NHardsBeforeStop != nil {
			cfg.Behaviour.NHardsBeforeStop = *fc.Behaviour.NHardsBeforeStop
		}
		if fc.Behaviour.RepeatMode != nil {
			if rm, ok := parseRepeatMode(*fc.Behaviour.RepeatMode); ok {
				cfg.Behaviour.RepeatMode = rm
			}
		}
	}
	return cfg, nil
}

func parsePerfMode(s string) (PerfMode, bool) {
	switch s {
	case "COMP":
		return PerfComp, true
	case "DECOMP":
		return PerfDecomp, true
	case "BALANCED":
		return PerfBalanced, true
	case "AUTO":
		return PerfAuto, true
	default:
		return 0, false
	}
}

func parseRepeatMode(s string) (RepeatMode, bool) {
	switch s {
	case "REPEAT_ALL":
		return RepeatAll, true
	case "REPEAT_SOFT":
		return RepeatSoft, true
	case "STOP":
		return RepeatStop, true
	default:
		return 0, false
	}
}

// ApplyEnv resolves BTUNE_PERF_MODE and BTUNE_TRADEOFF against cfg and
// returns the normalized config (§4.4 "Initialization path", step 1;
// §6). Each variable is read and validated independently, with its own
// fallback-to-default-and-warn rule -- that bespoke per-field contract
// is why this is hand-rolled instead of a generic env-to-struct binder
// (see DESIGN.md).
//
// log may be nil, in which case a discard logger is used.
func ApplyEnv(cfg Config, log *logrus.Entry) Config {
	log = orDiscardLogger(log)

	if cfg.PerfMode == PerfAuto {
		if raw, ok := os.LookupEnv("BTUNE_PERF_MODE"); ok {
			if pm, ok := parsePerfMode(raw); ok {
				cfg.PerfMode = pm
			} else {
				log.WithField("BTUNE_PERF_MODE", raw).Warn("btune: unsupported performance mode, defaulting to COMP")
				cfg.PerfMode = PerfComp
			}
		} else {
			cfg.PerfMode = PerfComp
		}
	}

	if raw, ok := os.LookupEnv("BTUNE_TRADEOFF"); ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Tradeoff = v
		} else {
			log.WithField("BTUNE_TRADEOFF", raw).Warn("btune: unparseable tradeoff, leaving unchanged")
		}
	}

	if cfg.Tradeoff < 0 || cfg.Tradeoff > 1 {
		log.WithField("tradeoff", cfg.Tradeoff).Warnf("btune: tradeoff must be in [0,1], defaulting to %v", DefaultTradeoff)
		cfg.Tradeoff = DefaultTradeoff
	}

	return cfg
}

// TraceEnabled reports whether BTUNE_TRACE is set (§6).
func TraceEnabled() bool {
	_, ok := os.LookupEnv("BTUNE_TRACE")
	return ok
}

func orDiscardLogger(log *logrus.Entry) *logrus.Entry {
	if log != nil {
		return log
	}
	discard := logrus.New()
	discard.SetOutput(nowhereWriter{})
	return logrus.NewEntry(discard)
}

type nowhereWriter struct{}

func (nowhereWriter) Write(p []byte) (int, error) { return len(p), nil }
