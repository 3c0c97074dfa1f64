package events

// BusOption applies a configuration option to the Bus.
type BusOption func(*Bus)

// WithSubscriberBuffer sets the per-subscriber channel capacity.
func WithSubscriberBuffer(size int) BusOption {
	return func(b *Bus) {
		if size > 0 {
			b.buffer = size
		}
	}
}

// RedisOption applies a configuration option to the RedisEmitter.
type RedisOption func(*RedisEmitter)

// WithChannelPrefix overrides the pub/sub channel prefix.
func WithChannelPrefix(prefix string) RedisOption {
	return func(r *RedisEmitter) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}
