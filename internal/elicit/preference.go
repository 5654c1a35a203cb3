package elicit

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Type names a preference family.
type Type string

const (
	TypeIncreasing Type = "increasing"
	TypeDecreasing Type = "decreasing"
	TypeRange      Type = "range"
	TypeTable      Type = "table"
)

// Domain is the fallback value range used when a leaf leaves thresholds unset.
type Domain struct {
	Min float64
	Max float64
}

// DefaultDomain matches the 0–100 scale users answer elicitation questions on.
var DefaultDomain = Domain{Min: 0, Max: 100}

// Preference is the elicitation configuration of one leaf.
//
// For increasing and decreasing preferences Min and Max are the unacceptable and
// fully satisfying values. For range preferences Min, IdealMin, IdealMax and Max are
// the four points A, B, C and D. Table preferences use Points.
type Preference struct {
	Type     Type     `yaml:"type" json:"type"`
	Min      *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max      *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	IdealMin *float64 `yaml:"ideal_min,omitempty" json:"ideal_min,omitempty"`
	IdealMax *float64 `yaml:"ideal_max,omitempty" json:"ideal_max,omitempty"`
	Points   []Point  `yaml:"points,omitempty" json:"points,omitempty"`
}

// Satisfaction maps a raw value to [0,1] for the configured family.
// Unset thresholds are taken from domain. An unknown family scores 0.
func (p Preference) Satisfaction(value float64, domain Domain) float64 {
	lo := orDefault(p.Min, domain.Min)
	hi := orDefault(p.Max, domain.Max)

	switch p.Type {
	case TypeIncreasing:
		return Increasing(value, lo, hi)
	case TypeDecreasing:
		return Decreasing(value, lo, hi)
	case TypeRange:
		return Range(value, lo, orDefault(p.IdealMin, lo), orDefault(p.IdealMax, hi), hi)
	case TypeTable:
		return Points(value, p.Points)
	default:
		return 0
	}
}

// Degenerate reports whether the configured thresholds cannot describe a proper
// ramp, so the elicitation falls back to step or repaired behaviour.
func (p Preference) Degenerate(domain Domain) bool {
	lo := orDefault(p.Min, domain.Min)
	hi := orDefault(p.Max, domain.Max)

	switch p.Type {
	case TypeIncreasing, TypeDecreasing:
		return lo >= hi
	case TypeRange:
		b := orDefault(p.IdealMin, lo)
		c := orDefault(p.IdealMax, hi)
		return !(lo <= b && b <= c && c <= hi) || lo >= hi
	case TypeTable:
		return len(p.Points) == 0
	default:
		return false
	}
}

// Clone returns a deep copy of the preference.
func (p Preference) Clone() Preference {
	out := Preference{
		Type:     p.Type,
		Min:      copyFloat(p.Min),
		Max:      copyFloat(p.Max),
		IdealMin: copyFloat(p.IdealMin),
		IdealMax: copyFloat(p.IdealMax),
	}
	if p.Points != nil {
		out.Points = make([]Point, len(p.Points))
		copy(out.Points, p.Points)
	}
	return out
}

// ParseValue coerces a raw attribute value into a float.
// Numbers, numeric strings and json.Number are accepted; nil, empty strings,
// booleans, NaN, infinities and anything else are rejected.
func ParseValue(raw any) (float64, bool) {
	var (
		v   float64
		err error
	)

	switch t := raw.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		v, err = cast.ToFloat64E(s)
	case json.Number:
		v, err = t.Float64()
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		v, err = cast.ToFloat64E(t)
	default:
		return 0, false
	}

	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Float returns a pointer to v, for building preferences in code.
func Float(v float64) *float64 {
	return &v
}

func orDefault(p *float64, def float64) float64 {
	if p == nil || math.IsNaN(*p) {
		return def
	}
	return *p
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
