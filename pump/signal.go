// File: pump/signal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One-shot completion signals, one per pump direction.

package pump

import "sync"

// completion is a write-once, read-many termination signal. Each pump
// resolves its completion exactly once upon reaching a terminal outcome,
// whether a Close instruction or a contained failure.
type completion struct {
	once sync.Once
	ch   chan struct{}
}

func newCompletion() *completion {
	return &completion{ch: make(chan struct{})}
}

func (c *completion) resolve() {
	c.once.Do(func() { close(c.ch) })
}

func (c *completion) done() <-chan struct{} {
	return c.ch
}
