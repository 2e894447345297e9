// SPDX-License-Identifier: MIT
package transport

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("transport closed")

// Transport defines a generic interface for sending pipeline events.
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(data any) error
	Close() error
}

// Fanout delivers every message to each of its transports.
type Fanout struct {
	mu         sync.Mutex
	transports []Transport
}

// NewFanout combines transports. Nil entries are skipped.
func NewFanout(transports ...Transport) *Fanout {
	f := &Fanout{}
	for _, t := range transports {
		if t != nil {
			f.transports = append(f.transports, t)
		}
	}
	return f
}

// Len returns the number of attached transports.
func (f *Fanout) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transports)
}

// Send forwards data to every transport and joins their errors.
func (f *Fanout) Send(data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var errs []error
	for _, t := range f.transports {
		if err := t.Send(data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every transport and joins their errors.
func (f *Fanout) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var errs []error
	for _, t := range f.transports {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.transports = nil
	return errors.Join(errs...)
}

// Compile-time checks
var _ Transport = (*Fanout)(nil)
