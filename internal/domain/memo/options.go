package memo

// Option applies a configuration option to the memo.
type Option func(*lruMemo)

// WithMaxSize sets the maximum number of cached results.
// If maxSize > 0: bounded mode with LRU eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(m *lruMemo) {
		m.maxSize = maxSize
	}
}
