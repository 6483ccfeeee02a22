// Package circuit provides a minimal circuit breaker used to shield a
// flapping upstream endpoint from repeated request storms.
package circuit

import (
	"sync"
	"time"

	"hypefunding/internal/logger"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}

type Breaker struct {
	mu          sync.Mutex
	name        string
	state       State
	failures    int
	threshold   int
	cooldown    time.Duration
	lastFailure time.Time
}

func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{
		name:      name,
		state:     StateClosed,
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Allow reports whether a request may proceed. An open breaker lets a
// single probe through once the cooldown has elapsed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if time.Since(b.lastFailure) > b.cooldown {
			b.transition(StateHalfOpen)
			return true
		}
		return false
	default:
		return true
	}
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state != StateClosed {
		b.transition(StateClosed)
	}
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFailure = time.Now()
	switch b.state {
	case StateHalfOpen:
		b.transition(StateOpen)
	case StateClosed:
		b.failures++
		if b.failures >= b.threshold {
			b.transition(StateOpen)
		}
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if to != StateClosed {
		logger.Warnf("[circuit] %s: %s -> %s", b.name, from, to)
	} else {
		logger.Infof("[circuit] %s: %s -> %s", b.name, from, to)
	}
}
