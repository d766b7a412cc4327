package indicators

import "sort"

// Sequence is an indicator output aligned to the bar series it was computed
// from. The value for bar i exists only when i >= Offset(); earlier bars
// have no value because the indicator's window had not filled yet.
type Sequence struct {
	values []float64
	offset int
}

// NewSequence builds a sequence whose first value belongs to bar offset.
func NewSequence(values []float64, offset int) Sequence {
	return Sequence{values: values, offset: offset}
}

// Len returns the number of computed values.
func (s Sequence) Len() int {
	return len(s.values)
}

// Offset returns the bar index of the first computed value.
func (s Sequence) Offset() int {
	return s.offset
}

// At returns the value for bar index i and whether one exists.
func (s Sequence) At(i int) (float64, bool) {
	j := i - s.offset
	if j < 0 || j >= len(s.values) {
		return 0, false
	}
	return s.values[j], true
}

// Last returns the most recent value and whether the sequence is non-empty.
func (s Sequence) Last() (float64, bool) {
	if len(s.values) == 0 {
		return 0, false
	}
	return s.values[len(s.values)-1], true
}

// Values returns the raw values. The slice is shared; callers must treat it
// as read-only.
func (s Sequence) Values() []float64 {
	return s.values
}

// Tail returns a copy of the most recent n values, or all of them when the
// sequence is shorter.
func (s Sequence) Tail(n int) []float64 {
	if n <= 0 || len(s.values) == 0 {
		return nil
	}
	if n > len(s.values) {
		n = len(s.values)
	}
	out := make([]float64, n)
	copy(out, s.values[len(s.values)-n:])
	return out
}

// Result is the output of one calculator. Single-valued indicators populate
// Value; indicators with named lines populate Components instead.
type Result struct {
	Value      Sequence
	Components map[string]Sequence
}

// Set collects the outputs of an indicator run keyed by indicator name.
// Indicators whose calculation failed are simply absent.
type Set struct {
	single map[string]Sequence
	multi  map[string]map[string]Sequence
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{
		single: make(map[string]Sequence),
		multi:  make(map[string]map[string]Sequence),
	}
}

func (s *Set) add(name string, r Result) {
	if len(r.Components) > 0 {
		s.multi[name] = r.Components
		return
	}
	s.single[name] = r.Value
}

// Sequence returns the output of a single-valued indicator.
func (s *Set) Sequence(name string) (Sequence, bool) {
	seq, ok := s.single[name]
	return seq, ok
}

// Component returns one named line of a multi-valued indicator.
func (s *Set) Component(name, component string) (Sequence, bool) {
	comps, ok := s.multi[name]
	if !ok {
		return Sequence{}, false
	}
	seq, ok := comps[component]
	return seq, ok
}

// Names returns the names of all computed indicators, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.single)+len(s.multi))
	for name := range s.single {
		names = append(names, name)
	}
	for name := range s.multi {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of computed indicators.
func (s *Set) Len() int {
	return len(s.single) + len(s.multi)
}

// LatestValues flattens the most recent value of every line into a map.
// Multi-valued indicators contribute entries named "indicator.component".
func (s *Set) LatestValues() map[string]float64 {
	out := make(map[string]float64, len(s.single)+len(s.multi))
	for name, seq := range s.single {
		if v, ok := seq.Last(); ok {
			out[name] = v
		}
	}
	for name, comps := range s.multi {
		for comp, seq := range comps {
			if v, ok := seq.Last(); ok {
				out[name+"."+comp] = v
			}
		}
	}
	return out
}

// RecentValues flattens the last n values of every line into a map keyed
// the same way as LatestValues, for charting the recent history.
func (s *Set) RecentValues(n int) map[string][]float64 {
	out := make(map[string][]float64, len(s.single)+len(s.multi))
	for name, seq := range s.single {
		if tail := seq.Tail(n); tail != nil {
			out[name] = tail
		}
	}
	for name, comps := range s.multi {
		for comp, seq := range comps {
			if tail := seq.Tail(n); tail != nil {
				out[name+"."+comp] = tail
			}
		}
	}
	return out
}
