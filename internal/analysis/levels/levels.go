// Package levels clusters swing extremes into support and resistance zones.
package levels

import (
	"sort"

	"stock-advisor/internal/analysis"
	"stock-advisor/internal/analysis/indicators"
	"stock-advisor/internal/config"
	"stock-advisor/internal/models"
	"stock-advisor/internal/series"
)

// Detector finds price levels where swing highs and lows cluster. Pivots
// within an ATR-scaled radius of each other merge into one level; a level
// needs a minimum number of touches to count.
type Detector struct {
	minPoints     int
	atrMultiple   float64
	swingStrength int
	maxLevels     int
}

// NewDetector creates a detector with the configured clustering parameters.
func NewDetector(cfg config.LevelsConfig) *Detector {
	return &Detector{
		minPoints:     cfg.MinPoints,
		atrMultiple:   cfg.ATRMultiple,
		swingStrength: cfg.SwingStrength,
		maxLevels:     cfg.MaxLevels,
	}
}

// Detect returns the strongest levels, ordered by touch count and then by
// distance from the current close.
func (d *Detector) Detect(s *series.Series) []analysis.Level {
	bars := s.Bars()
	pivots := d.findPivots(bars)
	if len(pivots) < d.minPoints {
		return nil
	}

	radius := d.clusterRadius(s)
	clusters := clusterPivots(pivots, radius)

	lastClose := s.Last().Close
	var found []analysis.Level
	for _, c := range clusters {
		if c.count < d.minPoints {
			continue
		}
		kind := analysis.Resistance
		if c.centroid <= lastClose {
			kind = analysis.Support
		}
		found = append(found, analysis.Level{
			Price:    c.centroid,
			Kind:     kind,
			Strength: c.count,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Strength != found[j].Strength {
			return found[i].Strength > found[j].Strength
		}
		di := abs(found[i].Price - lastClose)
		dj := abs(found[j].Price - lastClose)
		return di < dj
	})
	if d.maxLevels > 0 && len(found) > d.maxLevels {
		found = found[:d.maxLevels]
	}
	return found
}

// clusterRadius derives the merge distance from recent volatility. When the
// series is too short for an ATR it falls back to 1% of the last close.
func (d *Detector) clusterRadius(s *series.Series) float64 {
	const atrPeriod = 14
	atr := indicators.NewATR(atrPeriod)
	if result, err := atr.Calculate(s.Bars()); err == nil {
		if v, ok := result.Value.Last(); ok && v > 0 {
			return d.atrMultiple * v
		}
	}
	return 0.01 * s.Last().Close
}

// findPivots collects swing highs and lows. A pivot's extreme beats every
// bar within swingStrength on both sides.
func (d *Detector) findPivots(bars []models.Bar) []float64 {
	var pivots []float64
	for i := d.swingStrength; i < len(bars)-d.swingStrength; i++ {
		isHigh := true
		isLow := true
		for j := i - d.swingStrength; j <= i+d.swingStrength; j++ {
			if j == i {
				continue
			}
			if bars[j].High >= bars[i].High {
				isHigh = false
			}
			if bars[j].Low <= bars[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			pivots = append(pivots, bars[i].High)
		}
		if isLow {
			pivots = append(pivots, bars[i].Low)
		}
	}
	return pivots
}

type cluster struct {
	centroid float64
	count    int
}

// clusterPivots merges price points within radius of the running centroid.
// Pivots are processed in price order so each cluster is contiguous.
func clusterPivots(pivots []float64, radius float64) []cluster {
	sorted := make([]float64, len(pivots))
	copy(sorted, pivots)
	sort.Float64s(sorted)

	var clusters []cluster
	current := cluster{centroid: sorted[0], count: 1}
	for _, p := range sorted[1:] {
		if p-current.centroid <= radius {
			current.centroid = (current.centroid*float64(current.count) + p) / float64(current.count+1)
			current.count++
			continue
		}
		clusters = append(clusters, current)
		current = cluster{centroid: p, count: 1}
	}
	clusters = append(clusters, current)
	return clusters
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
