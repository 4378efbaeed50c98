package lib

// EdgeDetector emits a single one-tick pulse when a level signal goes low to
// high, comparing against the previous tick's sample.  Holding the line high
// afterwards produces no further pulses.
type EdgeDetector struct {
	prev bool
}

// Sample feeds one level sample and reports whether a rising edge occurred.
func (e *EdgeDetector) Sample(level bool) bool {
	rising := level && !e.prev
	e.prev = level
	return rising
}

// Reset forgets the previous sample.
func (e *EdgeDetector) Reset() {
	e.prev = false
}

// Synchronizer re-times an asynchronous input into the tick domain by
// delaying it one tick.  Pulses narrower than one tick period may be missed;
// a pulse held for at least one full tick is always observed.
type Synchronizer struct {
	reg bool
}

// Sample registers the raw level and returns the value registered on the
// previous tick.
func (s *Synchronizer) Sample(raw bool) bool {
	v := s.reg
	s.reg = raw
	return v
}

// Reset clears the register.
func (s *Synchronizer) Reset() {
	s.reg = false
}
