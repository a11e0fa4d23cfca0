package state

import (
	"sync"

	"github.com/google/uuid"
)

// Snapshot is one published value and its version. Version 0 is the
// initial value; every Publish increments it by one.
type Snapshot[T any] struct {
	Version uint64
	Value   T
}

// Publisher holds the current value and fans writes out to subscribers.
// Publish must be called by a single logical writer; the ordering guarantee
// is between successive Publish calls.
type Publisher[T any] struct {
	mu      sync.RWMutex
	current Snapshot[T]
	subs    map[string]*Subscription[T]
	closed  bool
}

// NewPublisher creates a publisher holding initial at version 0.
func NewPublisher[T any](initial T) *Publisher[T] {
	return &Publisher[T]{
		current: Snapshot[T]{Value: initial},
		subs:    make(map[string]*Subscription[T]),
	}
}

// Current returns the latest snapshot.
func (p *Publisher[T]) Current() Snapshot[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Publish stores v as the new current value and queues it for every
// subscriber. Equal values are published again, not deduplicated.
// Publishing to a closed publisher only updates the current value.
func (p *Publisher[T]) Publish(v T) Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = Snapshot[T]{Version: p.current.Version + 1, Value: v}
	for _, sub := range p.subs {
		sub.push(p.current)
	}
	return p.current
}

// Subscribe returns a subscription whose channel first yields the current
// snapshot. On a closed publisher the channel is closed immediately.
func (p *Publisher[T]) Subscribe() *Subscription[T] {
	sub := newSubscription(p)

	p.mu.Lock()
	if p.closed {
		sub.stop()
	} else {
		sub.push(p.current)
		p.subs[sub.id] = sub
	}
	p.mu.Unlock()

	go sub.pump()
	return sub
}

// Len returns the number of active subscriptions.
func (p *Publisher[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}

// Close ends all subscriptions and closes their channels. Snapshots not
// yet received may be dropped.
func (p *Publisher[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	subs := p.subs
	p.subs = make(map[string]*Subscription[T])
	p.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (p *Publisher[T]) remove(id string) {
	p.mu.Lock()
	delete(p.subs, id)
	p.mu.Unlock()
}

// Subscription delivers snapshots from a Publisher over a channel.
type Subscription[T any] struct {
	id  string
	pub *Publisher[T]

	mu    sync.Mutex
	queue []Snapshot[T]
	wake  chan struct{}
	out   chan Snapshot[T]
	done  chan struct{}
	once  sync.Once
}

func newSubscription[T any](pub *Publisher[T]) *Subscription[T] {
	return &Subscription[T]{
		id:   uuid.NewString(),
		pub:  pub,
		wake: make(chan struct{}, 1),
		out:  make(chan Snapshot[T]),
		done: make(chan struct{}),
	}
}

// ID returns the subscription's unique id.
func (s *Subscription[T]) ID() string {
	return s.id
}

// C returns the delivery channel. It is closed when the subscription ends.
func (s *Subscription[T]) C() <-chan Snapshot[T] {
	return s.out
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription[T]) Close() {
	s.pub.remove(s.id)
	s.stop()
}

func (s *Subscription[T]) stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *Subscription[T]) push(snap Snapshot[T]) {
	s.mu.Lock()
	s.queue = append(s.queue, snap)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pump owns s.out and closes it on exit.
func (s *Subscription[T]) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		next := s.queue[0]
		s.queue[0] = Snapshot[T]{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}
