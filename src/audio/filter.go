package audio

import "math"

// ----- Filter Kind ----- //

const (
	filterNone = iota
	filterLowpass
	filterHighpass
)

func filterKindFromString(s string) int {
	switch s {
	case "lowpass":
		return filterLowpass
	case "highpass":
		return filterHighpass
	default:
		return filterNone
	}
}

// ----- Coefficients ----- //

func makeNoFilterH() ([]float64, []float64) {
	return []float64{1}, []float64{}
}

func makeBiquadLowpassH(fc float64, q float64) ([]float64, []float64) {
	// from RBJ's cookbook
	w0 := 2 * math.Pi * fc
	alpha := math.Sin(w0) / (2 * q)
	b0 := (1 - math.Cos(w0)) / 2
	b1 := (1 - math.Cos(w0))
	b2 := (1 - math.Cos(w0)) / 2
	a0 := 1 + alpha
	a1 := -2 * math.Cos(w0)
	a2 := 1 - alpha
	return []float64{b0 / a0, b1 / a0, b2 / a0}, []float64{a1 / a0, a2 / a0}
}

func makeBiquadHighpassH(fc float64, q float64) ([]float64, []float64) {
	// from RBJ's cookbook
	w0 := 2 * math.Pi * fc
	alpha := math.Sin(w0) / (2 * q)
	b0 := (1 + math.Cos(w0)) / 2
	b1 := -(1 + math.Cos(w0))
	b2 := (1 + math.Cos(w0)) / 2
	a0 := 1 + alpha
	a1 := -2 * math.Cos(w0)
	a2 := 1 - alpha
	return []float64{b0 / a0, b1 / a0, b2 / a0}, []float64{a1 / a0, a2 / a0}
}

// ----- Filter ----- //

// filter is a biquad whose cutoff is driven per sample; coefficients are
// rebuilt only when the cutoff actually moves.
type filter struct {
	kind   int
	q      float64
	cutoff float64
	a      []float64 // feedforward
	b      []float64 // feedback
	past   []float64
}

func newFilter(p *FilterParams) *filter {
	f := &filter{}
	f.setParams(p)
	return f
}

func (f *filter) setParams(p *FilterParams) {
	f.kind = filterKindFromString(p.Kind)
	f.q = p.Q
	if f.q <= 0 {
		f.q = 1
	}
	f.cutoff = 0
	f.a = nil
	f.b = nil
	f.past = nil
}

func (f *filter) calc(cutoff float64) {
	// stability bound for the biquad
	max := float64(sampleRate) * 0.45
	if cutoff > max {
		cutoff = max
	}
	if cutoff < 1 {
		cutoff = 1
	}
	if f.a != nil && math.Abs(cutoff-f.cutoff) < 0.5 {
		return
	}
	f.cutoff = cutoff
	fc := cutoff / sampleRate
	switch f.kind {
	case filterLowpass:
		f.a, f.b = makeBiquadLowpassH(fc, f.q)
	case filterHighpass:
		f.a, f.b = makeBiquadHighpassH(fc, f.q)
	default:
		f.a, f.b = makeNoFilterH()
	}
	if f.past == nil {
		n := len(f.a) - 1
		if len(f.b) > n {
			n = len(f.b)
		}
		f.past = make([]float64, n)
	}
}

func (f *filter) step(in float64, cutoff float64) float64 {
	if f.kind == filterNone {
		return in
	}
	f.calc(cutoff)
	// apply b
	for j := 0; j < len(f.b); j++ {
		in -= f.past[j] * f.b[j]
	}
	// apply a
	o := in * f.a[0]
	for j := 1; j < len(f.a); j++ {
		o += f.past[j-1] * f.a[j]
	}
	// unshift past
	for j := len(f.past) - 2; j >= 0; j-- {
		f.past[j+1] = f.past[j]
	}
	if len(f.past) > 0 {
		f.past[0] = in
	}
	return o
}
