package mpv

import "sync"

// worker runs the process and IPC work of one element in submission order, off the owner's goroutine.
type worker struct {
	mu     sync.Mutex
	queue  []func()
	closed bool

	wake chan struct{}
	done chan struct{}
}

func newWorker() *worker {
	w := &worker{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

// submit queues job. It reports false once finish has been called.
func (w *worker) submit(job func()) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return false
	}
	w.queue = append(w.queue, job)
	w.mu.Unlock()

	w.signal()
	return true
}

// finish queues job as the last one. The returned channel is closed once it has run.
func (w *worker) finish(job func()) <-chan struct{} {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		w.queue = append(w.queue, job)
	}
	w.mu.Unlock()

	w.signal()
	return w.done
}

func (w *worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *worker) run() {
	defer close(w.done)

	for {
		w.mu.Lock()
		if len(w.queue) == 0 {
			closed := w.closed
			w.mu.Unlock()
			if closed {
				return
			}
			<-w.wake
			continue
		}
		job := w.queue[0]
		w.queue = w.queue[1:]
		w.mu.Unlock()

		job()
	}
}
