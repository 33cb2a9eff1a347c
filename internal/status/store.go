// Package status keeps the latest known health of every (host, service) pair
// and publishes each accepted write to subscribers.
package status

import (
	"sync"
	"time"
)

// State is the health of a service, or of a host when used at host level.
type State int

const (
	Unknown State = iota
	Checking
	Available
	NotWorking
	Unreachable
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Available:
		return "available"
	case NotWorking:
		return "not working"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Settled reports whether s is the outcome of a completed probe.
func (s State) Settled() bool {
	return s == Available || s == NotWorking || s == Unreachable
}

// Entry is the latest observation for one (host, service) pair, or for the
// host itself.
type Entry struct {
	State      State     `json:"state"`
	Output     string    `json:"output,omitempty"`
	Error      string    `json:"error,omitempty"`
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Update is published for every accepted write. Service is empty for
// host-level updates.
type Update struct {
	HostKey string
	Service string
	Entry   Entry
}

type pairKey struct {
	host    string
	service string
}

type subscriber struct {
	ch   chan Update
	done chan struct{}
}

// Store is the concurrency-safe status table.
//
// Each host carries a refresh generation. Begin starts a new one; writes
// tagged with an older generation than the host's current one are dropped.
// Writes within the same generation are last-write-wins.
type Store struct {
	mu      sync.RWMutex
	entries map[pairKey]Entry
	hosts   map[string]Entry
	subs    map[*subscriber]struct{}
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[pairKey]Entry),
		hosts:   make(map[string]Entry),
		subs:    make(map[*subscriber]struct{}),
		now:     time.Now,
	}
}

// Get returns the entry for (hostKey, service). Pairs never written read
// as Unknown.
func (s *Store) Get(hostKey, service string) Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[pairKey{hostKey, service}]
}

// HostState returns the host-level entry.
func (s *Store) HostState(hostKey string) Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hosts[hostKey]
}

// Generation returns the host's current refresh generation.
func (s *Store) Generation(hostKey string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hosts[hostKey].Generation
}

// Begin starts a new refresh generation for the host, marks the host
// Checking and returns the generation to tag subsequent writes with.
func (s *Store) Begin(hostKey string) uint64 {
	s.mu.Lock()
	h := s.hosts[hostKey]
	h.Generation++
	h.State = Checking
	h.Error = ""
	h.UpdatedAt = s.now()
	s.hosts[hostKey] = h
	s.mu.Unlock()

	s.publish([]Update{{HostKey: hostKey, Entry: h}})
	return h.Generation
}

// Set stores e for (hostKey, service). It returns false and stores nothing
// when e.Generation is older than the host's current generation.
func (s *Store) Set(hostKey, service string, e Entry) bool {
	s.mu.Lock()
	if e.Generation < s.hosts[hostKey].Generation {
		s.mu.Unlock()
		return false
	}
	e.UpdatedAt = s.now()
	s.entries[pairKey{hostKey, service}] = e
	s.mu.Unlock()

	s.publish([]Update{{HostKey: hostKey, Service: service, Entry: e}})
	return true
}

// MarkChecking sets every listed service on the host to Checking.
func (s *Store) MarkChecking(hostKey string, gen uint64, services []string) bool {
	return s.setAll(hostKey, gen, services, nil, Entry{State: Checking, Generation: gen})
}

// SetHostReachable records that a connection to the host succeeded.
func (s *Store) SetHostReachable(hostKey string, gen uint64) bool {
	host := Entry{State: Available, Generation: gen}
	return s.setAll(hostKey, gen, nil, &host, Entry{})
}

// SetHostUnreachable marks the host Unreachable and every listed service
// NotWorking, carrying diag as the error text.
func (s *Store) SetHostUnreachable(hostKey string, gen uint64, services []string, diag string) bool {
	host := Entry{State: Unreachable, Error: diag, Generation: gen}
	return s.setAll(hostKey, gen, services, &host, Entry{State: NotWorking, Error: diag, Generation: gen})
}

func (s *Store) setAll(hostKey string, gen uint64, services []string, host *Entry, svc Entry) bool {
	s.mu.Lock()
	if gen < s.hosts[hostKey].Generation {
		s.mu.Unlock()
		return false
	}

	now := s.now()
	updates := make([]Update, 0, len(services)+1)
	if host != nil {
		h := *host
		h.UpdatedAt = now
		s.hosts[hostKey] = h
		updates = append(updates, Update{HostKey: hostKey, Entry: h})
	}
	svc.UpdatedAt = now
	for _, name := range services {
		s.entries[pairKey{hostKey, name}] = svc
		updates = append(updates, Update{HostKey: hostKey, Service: name, Entry: svc})
	}
	s.mu.Unlock()

	s.publish(updates)
	return true
}

// Subscribe returns a channel receiving every accepted write, and a cancel
// func that must be called when the subscriber stops reading. Writers block
// while the channel is full, so subscribers must keep draining it.
func (s *Store) Subscribe(buffer int) (<-chan Update, func()) {
	sub := &subscriber{
		ch:   make(chan Update, buffer),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
			close(sub.done)
		})
	}
	return sub.ch, cancel
}

func (s *Store) publish(updates []Update) {
	s.mu.RLock()
	subs := make([]*subscriber, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.RUnlock()

	for _, sub := range subs {
		for _, u := range updates {
			select {
			case sub.ch <- u:
			case <-sub.done:
			}
		}
	}
}
