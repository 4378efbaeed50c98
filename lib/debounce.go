package lib

// Debouncer is a matched-run glitch filter for a control line sampled once
// per tick.  The output moves to a new level only after depth consecutive raw
// samples agree on it; anything shorter is rejected and the previous output
// is held.  A depth of 1 degenerates to a direct pass-through.
type Debouncer struct {
	depth int
	out   bool
	last  bool
	run   int
}

// NewDebouncer returns a filter requiring depth consecutive matching samples.
// Depths below 1 are clamped to 1.
func NewDebouncer(depth int) *Debouncer {
	if depth < 1 {
		depth = 1
	}
	return &Debouncer{depth: depth}
}

// Sample feeds one raw sample and returns the filtered level.  A line held
// for exactly depth ticks is guaranteed to register on the final tick.
func (d *Debouncer) Sample(raw bool) bool {
	if raw == d.last {
		if d.run < d.depth {
			d.run++
		}
	} else {
		d.last = raw
		d.run = 1
	}
	if raw != d.out && d.run >= d.depth {
		d.out = raw
	}
	return d.out
}

// Level returns the current filtered level without consuming a sample.
func (d *Debouncer) Level() bool {
	return d.out
}

// Reset returns the filter to its power-on state (output low).
func (d *Debouncer) Reset() {
	d.out = false
	d.last = false
	d.run = 0
}
