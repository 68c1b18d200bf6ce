package repository

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
)

// pushChars is the key alphabet, ordered by ASCII value so generated
// keys sort lexicographically by creation time.
const pushChars = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

type subscriber struct {
	path string
	fn   repository.SnapshotFunc
}

// MemoryStore is an in-process RealtimeStore used in development mode
// and by the test suite. It reproduces the store contract the service
// depends on: full-snapshot delivery on every change and push keys
// that order appends lexicographically.
type MemoryStore struct {
	mu   sync.Mutex
	root map[string]interface{}

	subs    map[int]*subscriber
	nextSub int

	lastPushMillis int64
	lastRand       [12]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		root: make(map[string]interface{}),
		subs: make(map[int]*subscriber),
	}
}

var _ repository.RealtimeStore = (*MemoryStore)(nil)

func (m *MemoryStore) Get(ctx context.Context, path string, into interface{}) error {
	m.mu.Lock()
	raw := m.snapshotLocked(path)
	m.mu.Unlock()

	if err := json.Unmarshal(raw, into); err != nil {
		return errors.Internal("Failed to decode value at "+path, err)
	}
	return nil
}

func (m *MemoryStore) Set(ctx context.Context, path string, value interface{}) error {
	normalized, err := normalize(value)
	if err != nil {
		return errors.Internal("Failed to encode value for "+path, err)
	}

	m.mu.Lock()
	m.setLocked(path, normalized)
	notify := m.pendingNotifications(path)
	m.mu.Unlock()

	deliver(notify)
	return nil
}

func (m *MemoryStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	normalized, err := normalize(value)
	if err != nil {
		return "", errors.Internal("Failed to encode value for "+path, err)
	}

	m.mu.Lock()
	key := m.pushIDLocked(time.Now())
	m.setLocked(path+"/"+key, normalized)
	notify := m.pendingNotifications(path)
	m.mu.Unlock()

	deliver(notify)
	return key, nil
}

func (m *MemoryStore) Subscribe(ctx context.Context, path string, fn repository.SnapshotFunc) (func(), error) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = &subscriber{path: path, fn: fn}
	initial := m.snapshotLocked(path)
	m.mu.Unlock()

	// Contract: fire immediately with the current value.
	fn(initial)

	stop := func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			stop()
		}()
	}

	return stop, nil
}

type pending struct {
	fn   repository.SnapshotFunc
	data json.RawMessage
}

// pendingNotifications collects the callbacks touched by a write at
// path, with their fresh snapshots. A subscriber fires when its path is
// the changed path, an ancestor of it, or a descendant of it.
func (m *MemoryStore) pendingNotifications(path string) []pending {
	var out []pending
	for _, s := range m.subs {
		if related(s.path, path) {
			out = append(out, pending{fn: s.fn, data: m.snapshotLocked(s.path)})
		}
	}
	return out
}

func deliver(notify []pending) {
	for _, p := range notify {
		p.fn(p.data)
	}
}

func related(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+"/") || strings.HasPrefix(b, a+"/")
}

// normalize round-trips value through JSON so the tree holds only
// maps, slices, strings, float64s, bools and nils.
func normalize(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MemoryStore) setLocked(path string, value interface{}) {
	segments := split(path)
	node := m.root
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			node[seg] = child
		}
		node = child
	}

	leaf := segments[len(segments)-1]
	if value == nil {
		delete(node, leaf)
	} else {
		node[leaf] = value
	}
}

func (m *MemoryStore) snapshotLocked(path string) json.RawMessage {
	var node interface{} = m.root
	for _, seg := range split(path) {
		asMap, ok := node.(map[string]interface{})
		if !ok {
			return json.RawMessage("null")
		}
		node, ok = asMap[seg]
		if !ok {
			return json.RawMessage("null")
		}
	}

	raw, err := json.Marshal(node)
	if err != nil {
		return json.RawMessage("null")
	}
	return raw
}

func split(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

// pushIDLocked generates a 20-character push key: 8 characters encode
// the millisecond timestamp, 12 are random. Keys created in the same
// millisecond increment the random tail so order is still preserved
// for a single writer.
func (m *MemoryStore) pushIDLocked(now time.Time) string {
	millis := now.UnixMilli()
	duplicate := millis == m.lastPushMillis
	m.lastPushMillis = millis

	var buf [20]byte
	ts := millis
	for i := 7; i >= 0; i-- {
		buf[i] = pushChars[ts%64]
		ts /= 64
	}

	if duplicate {
		for i := 11; i >= 0; i-- {
			m.lastRand[i]++
			if m.lastRand[i] < 64 {
				break
			}
			m.lastRand[i] = 0
		}
	} else {
		for i := range m.lastRand {
			m.lastRand[i] = rand.Intn(64)
		}
	}

	for i, v := range m.lastRand {
		buf[8+i] = pushChars[v]
	}

	return string(buf[:])
}
