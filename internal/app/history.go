package app

// BPMRing is a circular buffer of recent heart-rate values.
type BPMRing struct {
	buf   []float64
	pos   int
	count int
}

// NewBPMRing creates a ring with the given capacity.
func NewBPMRing(capacity int) *BPMRing {
	return &BPMRing{
		buf: make([]float64, capacity),
	}
}

// Push adds a value to the ring.
func (r *BPMRing) Push(val float64) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns all stored values in chronological order.
func (r *BPMRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		start := r.pos
		n := copy(result, r.buf[start:])
		copy(result[n:], r.buf[:start])
	}
	return result
}

// Len returns the number of stored values.
func (r *BPMRing) Len() int {
	return r.count
}

// Stats returns the minimum, mean and peak of the stored values.
// Zero values are skipped: they mark disconnected samples, not rates.
func (r *BPMRing) Stats() (min, avg, peak float64) {
	n := 0
	for _, v := range r.Values() {
		if v <= 0 {
			continue
		}
		if n == 0 || v < min {
			min = v
		}
		if v > peak {
			peak = v
		}
		avg += v
		n++
	}
	if n > 0 {
		avg /= float64(n)
	}
	return min, avg, peak
}
