package grid

import "math"

// ActiveValues returns the finite values at unmasked cells.
func (r *Raster) ActiveValues() []float64 {
	o := make([]float64, 0, len(r.A))
	for i, v := range r.A {
		if r.Msk[i] || math.IsNaN(v) {
			continue
		}
		o = append(o, v)
	}
	return o
}

// Mean masked mean, NaN-safe. Returns NaN for an all-masked grid.
func (r *Raster) Mean() float64 {
	n, s := 0, 0.
	for i, v := range r.A {
		if r.Msk[i] || math.IsNaN(v) {
			continue
		}
		s += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return s / float64(n)
}

// Max masked maximum, NaN-safe.
func (r *Raster) Max() float64 {
	mx, found := math.Inf(-1), false
	for i, v := range r.A {
		if r.Msk[i] || math.IsNaN(v) {
			continue
		}
		if v > mx {
			mx = v
		}
		found = true
	}
	if !found {
		return math.NaN()
	}
	return mx
}

// Sum plain sum over unmasked finite cells.
func (r *Raster) Sum() float64 {
	s := 0.
	for i, v := range r.A {
		if r.Msk[i] || math.IsNaN(v) {
			continue
		}
		s += v
	}
	return s
}
