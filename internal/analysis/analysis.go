// Package analysis defines the result types shared by the detection
// subpackages: patterns, levels, and signals.
package analysis

// Direction classifies the expected price implication of a detection.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Neutral Direction = "neutral"
)

// PatternType distinguishes single-bar formations from multi-bar structures.
type PatternType string

const (
	Candlestick PatternType = "candlestick"
	Chart       PatternType = "chart"
)

// Pattern is a detected formation over a bar range. Confidence is in
// [0, 1]. TargetPrice is zero when the pattern implies no measured move.
type Pattern struct {
	Name          string      `json:"name"`
	Type          PatternType `json:"type"`
	Direction     Direction   `json:"direction"`
	StartIndex    int         `json:"start_index"`
	EndIndex      int         `json:"end_index"`
	Confidence    float64     `json:"confidence"`
	TargetPrice   float64     `json:"target_price,omitempty"`
	VolumeConfirm bool        `json:"volume_confirm"`
}

// LevelKind classifies a price level relative to the current close.
type LevelKind string

const (
	Support    LevelKind = "support"
	Resistance LevelKind = "resistance"
)

// Level is a clustered support or resistance zone. Strength counts the
// touches that formed the cluster.
type Level struct {
	Price    float64   `json:"price"`
	Kind     LevelKind `json:"kind"`
	Strength int       `json:"strength"`
}

// SignalDirection is the action a signal argues for.
type SignalDirection string

const (
	Buy        SignalDirection = "buy"
	Sell       SignalDirection = "sell"
	NoSignal   SignalDirection = "neutral"
)

// Signal is one trading signal with its provenance. Strength is in [0, 1].
type Signal struct {
	Name      string          `json:"name"`
	Family    string          `json:"family"`
	Direction SignalDirection `json:"direction"`
	Strength  float64         `json:"strength"`
	Rationale string          `json:"rationale"`
}
