// Package notify implements the change fan-out used by the stores.
// Every mutation triggers Notify, which runs all registered callbacks
// and waits for them to finish before returning.
package notify

import (
	"errors"
	"fmt"
	"sync"
)

// Callback is a subscriber hook invoked after every store mutation.
// Callbacks may block; Notify runs them concurrently.
type Callback func() error

// Notifier holds registered subscriber callbacks.
// Subscribe and Unsubscribe are safe to call concurrently with Notify.
type Notifier struct {
	mu     sync.Mutex
	subs   map[int]Callback
	nextID int
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]Callback)}
}

// Subscribe registers a callback and returns its subscription id.
func (n *Notifier) Subscribe(cb Callback) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	id := n.nextID
	n.subs[id] = cb
	return id
}

// Unsubscribe removes a previously registered callback.
// Unknown ids are ignored.
func (n *Notifier) Unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

// Len returns the number of registered callbacks.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Notify invokes every registered callback and waits for all of them to
// complete. A callback that fails or panics never prevents the others
// from running; the failures are collected and returned joined, so the
// caller that triggered the notification can observe them.
func (n *Notifier) Notify() error {
	n.mu.Lock()
	callbacks := make([]Callback, 0, len(n.subs))
	for _, cb := range n.subs {
		callbacks = append(callbacks, cb)
	}
	n.mu.Unlock()

	if len(callbacks) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(callbacks))
	for i, cb := range callbacks {
		wg.Add(1)
		go func(i int, cb Callback) {
			defer wg.Done()
			errs[i] = runCallback(cb)
		}(i, cb)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// runCallback invokes one callback, converting a panic into an error so
// a misbehaving subscriber cannot take down the mutating caller.
func runCallback(cb Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return cb()
}
