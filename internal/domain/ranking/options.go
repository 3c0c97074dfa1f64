package ranking

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithFloor sets the minimum score for a match to be included in ranked
// output. Values outside [0, 100] are ignored.
func WithFloor(floor float64) Option {
	return func(r *Ranker) {
		if floor >= 0 && floor <= 100 {
			r.floor = floor
		}
	}
}
