package metrics

import "github.com/san-kum/zendigits/internal/scene"

// Recorder observes a scene, feeding its metrics and keeping a bounded
// history of the mean spread per frame.
type Recorder struct {
	Metrics []Metric

	limit  int
	times  []float64
	spread []float64
}

// NewRecorder keeps at most limit samples; limit <= 0 keeps everything.
func NewRecorder(limit int, ms ...Metric) *Recorder {
	if len(ms) == 0 {
		ms = Standard()
	}
	return &Recorder{Metrics: ms, limit: limit}
}

func (r *Recorder) OnFrame(f scene.FrameInfo) {
	for _, m := range r.Metrics {
		m.Observe(f)
	}
	r.times = append(r.times, f.Time)
	r.spread = append(r.spread, MeanSpread(f))
	if r.limit > 0 && len(r.spread) > r.limit {
		drop := len(r.spread) - r.limit
		r.times = r.times[drop:]
		r.spread = r.spread[drop:]
	}
}

// History returns the recorded sample times and mean spreads.
func (r *Recorder) History() (times, spread []float64) {
	return r.times, r.spread
}

// Values returns the current value of every metric by name.
func (r *Recorder) Values() map[string]float64 {
	out := make(map[string]float64, len(r.Metrics))
	for _, m := range r.Metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	for _, m := range r.Metrics {
		m.Reset()
	}
	r.times = r.times[:0]
	r.spread = r.spread[:0]
}
