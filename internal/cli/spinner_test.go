package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDraws(t *testing.T) {
	var w syncBuffer
	s := newSpinnerTo(context.Background(), &w, true, newPrinter(&bytes.Buffer{}), "Learning...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(w.String(), "Learning...") {
		t.Errorf("spinner output %q should contain the message", w.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not mark the spinner cancelled")
	}
}

func TestSpinnerDisabledIsSilent(t *testing.T) {
	var w syncBuffer
	s := newSpinnerTo(context.Background(), &w, false, newPrinter(&bytes.Buffer{}), "Learning...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if got := w.String(); got != "" {
		t.Errorf("disabled spinner wrote %q", got)
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerTo(ctx, &syncBuffer{}, true, newPrinter(&bytes.Buffer{}), "Testing with context...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &syncBuffer{}, false, newPrinter(&bytes.Buffer{}), "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, true, newPrinter(&bytes.Buffer{}), "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessages(t *testing.T) {
	var out bytes.Buffer
	p := newPrinter(&out)

	s := newSpinnerTo(context.Background(), &syncBuffer{}, false, p, "Testing...")
	s.Start()
	s.StopWithSuccess("learned %d edges", 7)

	s = newSpinnerTo(context.Background(), &syncBuffer{}, false, p, "Testing...")
	s.Start()
	s.StopWithError("failed after %d tests", 12)

	got := out.String()
	for _, want := range []string{"learned 7 edges", "failed after 12 tests"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}
