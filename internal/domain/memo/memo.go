// Package memo caches engine results by input fingerprint.
package memo

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/windrose/internal/domain/engine"
)

// Memo stores computed results keyed by the fingerprint of their inputs.
// Cached results are shared between callers and must not be modified.
type Memo interface {
	// Get returns the result stored under key and marks it recently used.
	Get(ctx context.Context, key Key) (engine.Result, bool)

	// Put stores res under key, evicting the least recently used entry when
	// the memo is full.
	Put(ctx context.Context, key Key, res engine.Result)

	Size() int64
	Stats() Stats
}

// Stats is a snapshot of memo counters.
type Stats struct {
	Entries   int64 `json:"entries"`
	MaxSize   int   `json:"max_size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// node is an entry of the recency list.
type node struct {
	key        Key
	res        engine.Result
	prev, next *node
}

func (n *node) reset() {
	n.key = 0
	n.res = engine.Result{}
	n.prev = nil
	n.next = nil
}

// lruMemo keeps entries in a doubly linked list, most recently used at head.
// For bounded mode (maxSize > 0) the tail is evicted on overflow and nodes are
// pooled; for unbounded mode (maxSize <= 0) nothing is ever evicted.
type lruMemo struct {
	mu       sync.Mutex
	entries  map[Key]*node
	head     *node
	tail     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates an in-memory LRU memo.
func New(opts ...Option) Memo {
	m := &lruMemo{
		maxSize: 1024,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.entries = make(map[Key]*node)
	m.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return m
}

func (m *lruMemo) Get(ctx context.Context, key Key) (engine.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.entries[key]
	if !ok {
		m.misses.Add(1)
		return engine.Result{}, false
	}
	m.moveToFront(n)
	m.hits.Add(1)
	return n.res, true
}

func (m *lruMemo) Put(ctx context.Context, key Key, res engine.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.entries[key]; ok {
		n.res = res
		m.moveToFront(n)
		return
	}

	if m.maxSize > 0 && len(m.entries) >= m.maxSize {
		m.evictTail()
	}

	n := m.nodePool.Get().(*node)
	n.key = key
	n.res = res
	m.pushFront(n)
	m.entries[key] = n
	m.size.Add(1)
}

func (m *lruMemo) Size() int64 {
	return m.size.Load()
}

func (m *lruMemo) Stats() Stats {
	return Stats{
		Entries:   m.size.Load(),
		MaxSize:   m.maxSize,
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Evictions: m.evictions.Load(),
	}
}

// The list helpers must be called with m.mu held.

func (m *lruMemo) pushFront(n *node) {
	n.prev = nil
	n.next = m.head
	if m.head != nil {
		m.head.prev = n
	}
	m.head = n
	if m.tail == nil {
		m.tail = n
	}
}

func (m *lruMemo) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		m.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		m.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (m *lruMemo) moveToFront(n *node) {
	if m.head == n {
		return
	}
	m.unlink(n)
	m.pushFront(n)
}

func (m *lruMemo) evictTail() {
	n := m.tail
	if n == nil {
		return
	}
	m.unlink(n)
	delete(m.entries, n.key)
	n.reset()
	m.nodePool.Put(n)
	m.size.Add(-1)
	m.evictions.Add(1)
}
