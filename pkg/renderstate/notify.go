package renderstate

import "sync"

// notifier is the adapter's own listener list. Owners subscribe to it to
// re-render; it fires for own transitions and adopted writes only.
type notifier struct {
	mu     sync.RWMutex
	subs   []ownerSub
	nextID uint64
}

type ownerSub struct {
	id uint64
	fn func()
}

func (n *notifier) subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, ownerSub{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, s := range n.subs {
				if s.id == id {
					n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (n *notifier) notify() {
	n.mu.RLock()
	subs := make([]ownerSub, len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	for _, s := range subs {
		s.fn()
	}
}
