package service

import (
	"sync"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
)

type subscriber struct {
	id int
	fn func(domain.Change)
}

// Notifier fans mutations out to subscribers. Callbacks run synchronously on
// the mutating goroutine after the change is committed, in subscription order.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn and returns a function that removes it.
func (n *Notifier) Subscribe(fn func(domain.Change)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs = append(n.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { n.remove(id) })
	}
}

func (n *Notifier) Publish(c domain.Change) {
	if n == nil {
		return
	}
	n.mu.Lock()
	subs := append([]subscriber(nil), n.subs...)
	n.mu.Unlock()

	for _, s := range subs {
		s.fn(c)
	}
}

func (n *Notifier) remove(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, s := range n.subs {
		if s.id == id {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}
