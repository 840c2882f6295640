package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// writeOp is either a line to write or, with a nil line, a flush request.
type writeOp struct {
	line []byte
	ack  chan error
}

// asyncWriter moves encoding output off the caller's goroutine. A single
// loop owns the sinks, so lines never interleave.
type asyncWriter struct {
	ops   chan writeOp
	done  chan struct{}
	stop  sync.Once
	sinks []*bufio.Writer

	errMu sync.Mutex
	err   error
}

func newAsyncWriter(outs []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 << 10
	}
	w := &asyncWriter{
		ops:  make(chan writeOp, 256),
		done: make(chan struct{}),
	}
	for _, o := range outs {
		if o != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(o, bufSize))
		}
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for op := range w.ops {
		if op.line == nil {
			op.ack <- w.flushSinks()
			continue
		}
		for _, s := range w.sinks {
			if _, err := s.Write(op.line); err != nil {
				w.fail(err)
				break
			}
			if err := s.Flush(); err != nil {
				w.fail(err)
				break
			}
		}
	}
	w.fail(w.flushSinks())
}

func (w *asyncWriter) flushSinks() error {
	var errs []error
	for _, s := range w.sinks {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

// Write queues a copy of p. It blocks only when the queue is full.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	w.ops <- writeOp{line: append([]byte(nil), p...)}
	return nil
}

// Flush waits until every queued line has reached the sinks.
func (w *asyncWriter) Flush() error {
	ack := make(chan error, 1)
	w.ops <- writeOp{ack: ack}
	return errors.Join(<-ack, w.firstErr())
}

// Close drains the queue and stops the loop.
func (w *asyncWriter) Close() error {
	w.stop.Do(func() { close(w.ops) })
	<-w.done
	return w.firstErr()
}

func (w *asyncWriter) fail(err error) {
	if err == nil {
		return
	}
	w.errMu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.errMu.Unlock()
}

func (w *asyncWriter) firstErr() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}
