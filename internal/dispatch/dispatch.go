// Package dispatch runs posted tasks on one goroutine, in order. It is the
// serialized presentation context: every state mutation and listener
// callback in the controller goes through a single Loop.
package dispatch

import "sync"

type Loop struct {
	mu      sync.Mutex
	tasks   chan func()
	done    chan struct{}
	stopped bool
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

func (l *Loop) Start() {
	go func() {
		defer close(l.done)
		for task := range l.tasks {
			task()
		}
	}()
}

// Post queues a task for the loop goroutine. Returns false when the loop has
// been stopped and the task was dropped.
func (l *Loop) Post(task func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false
	}
	l.tasks <- task
	return true
}

// Stop drains already-posted tasks and waits for the loop goroutine to exit.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		close(l.tasks)
	}
	l.mu.Unlock()
	<-l.done
}
