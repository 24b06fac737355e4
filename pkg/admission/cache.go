package admission

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/safeharbor-labs/vidguard/pkg/analysis"
)

// Entry is a cached result plus its storage time. Freshness is decided
// by the controller, not the store: a stale entry still matters because
// it can be served when the key is rate limited.
type Entry struct {
	Result   *analysis.Result
	StoredAt time.Time
}

// Store is the result cache seam. Get returns entries regardless of age;
// callers compare StoredAt against their TTL.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Put(ctx context.Context, key string, res *analysis.Result) error
	Len(ctx context.Context) (int, error)
}

// memoryStore is a count-bounded LRU. It keeps entries past their soft
// TTL so stale serving works, evicting only when the bound is hit.
type memoryStore struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List
	items   map[string]*list.Element
	now     func() time.Time
}

type memoryItem struct {
	key   string
	entry *Entry
}

// NewMemoryStore returns an in-process store holding at most maxSize
// entries. A non-positive maxSize defaults to 1024.
func NewMemoryStore(maxSize int) Store {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &memoryStore{
		maxSize: maxSize,
		order:   list.New(),
		items:   make(map[string]*list.Element),
		now:     time.Now,
	}
}

func (s *memoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	s.order.MoveToFront(el)
	return el.Value.(*memoryItem).entry, true, nil
}

func (s *memoryStore) Put(_ context.Context, key string, res *analysis.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &Entry{Result: res, StoredAt: s.now()}
	if el, ok := s.items[key]; ok {
		el.Value.(*memoryItem).entry = entry
		s.order.MoveToFront(el)
		return nil
	}
	s.items[key] = s.order.PushFront(&memoryItem{key: key, entry: entry})
	for s.order.Len() > s.maxSize {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*memoryItem).key)
	}
	return nil
}

func (s *memoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len(), nil
}
