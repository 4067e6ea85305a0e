// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package uv

// Band is an exposure band. Bands are ordered: Low < Moderate < Extreme.
type Band int

const (
	Low Band = iota
	Moderate
	Extreme
)

var advisories = [...]string{
	Low:      "Low: No protection needed",
	Moderate: "Moderate: Wear sunscreen and a hat",
	Extreme:  "Extreme: Avoid sun exposure!",
}

func (b Band) String() string {
	switch b {
	case Low:
		return "low"
	case Moderate:
		return "moderate"
	case Extreme:
		return "extreme"
	default:
		return "unknown"
	}
}

// Advisory returns the fixed advisory text for the band.
func (b Band) Advisory() string {
	if b < Low || b > Extreme {
		return ""
	}
	return advisories[b]
}

// Default band boundaries on the UV index.
const (
	DefaultModerateThreshold = 3.0
	DefaultExtremeThreshold  = 8.0
)

// Classifier maps an index to a band using closed-open intervals:
// [0, Moderate) is Low, [Moderate, Extreme) is Moderate, the rest Extreme.
// There is no hysteresis; the band depends on the index alone.
type Classifier struct {
	ModerateThreshold float64
	ExtremeThreshold  float64
}

func NewClassifier() Classifier {
	return Classifier{
		ModerateThreshold: DefaultModerateThreshold,
		ExtremeThreshold:  DefaultExtremeThreshold,
	}
}

// Classify compares the raw float, no rounding.
func (c Classifier) Classify(index float64) Band {
	switch {
	case index >= c.ExtremeThreshold:
		return Extreme
	case index >= c.ModerateThreshold:
		return Moderate
	default:
		return Low
	}
}
