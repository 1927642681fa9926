package render

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audit-field-study/pairtrack/internal/generator"
)

func jobResume(name string) generator.ResumeData {
	return generator.ResumeData{FullName: name, TemplateName: "comms_classic.html"}
}

// stubRenderer lets tests control latency and output without a browser.
type stubRenderer struct {
	delay   time.Duration
	err     error
	renders atomic.Int32
}

func (s *stubRenderer) Render(ctx context.Context, job Job) ([]byte, error) {
	s.renders.Add(1)
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-" + job.Resume.FullName), nil
}

func (s *stubRenderer) Close() error { return nil }

func TestWorkerRendersSequentially(t *testing.T) {
	stub := &stubRenderer{delay: 10 * time.Millisecond}
	w := NewWorker(stub, time.Second)
	defer w.Close()

	pdf, err := w.Render(context.Background(), Job{Resume: jobResume("Ada")})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-Ada"), pdf)

	pdf, err = w.Render(context.Background(), Job{Resume: jobResume("Ben")})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-Ben"), pdf)
	assert.Equal(t, int32(2), stub.renders.Load())
}

func TestWorkerTimesOut(t *testing.T) {
	stub := &stubRenderer{delay: time.Second}
	w := NewWorker(stub, 20*time.Millisecond)
	defer w.Close()

	_, err := w.Render(context.Background(), Job{Resume: jobResume("Slow")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWorkerUsableAfterTimeout(t *testing.T) {
	stub := &stubRenderer{delay: 30 * time.Millisecond}
	w := NewWorker(stub, 10*time.Millisecond)
	defer w.Close()

	_, err := w.Render(context.Background(), Job{Resume: jobResume("First")})
	require.Error(t, err)

	// Give the stuck job time to drain, then render with a roomy limit.
	time.Sleep(50 * time.Millisecond)
	stub.delay = 0
	pdf, err := w.Render(context.Background(), Job{Resume: jobResume("Second")})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-Second"), pdf)
}

func TestWorkerPropagatesRenderError(t *testing.T) {
	boom := errors.New("chromium crashed")
	stub := &stubRenderer{err: boom}
	w := NewWorker(stub, time.Second)
	defer w.Close()

	_, err := w.Render(context.Background(), Job{Resume: jobResume("X")})
	assert.ErrorIs(t, err, boom)
}

func TestWorkerClosedRejectsSubmissions(t *testing.T) {
	w := NewWorker(&stubRenderer{}, time.Second)
	require.NoError(t, w.Close())

	_, err := w.Render(context.Background(), Job{Resume: jobResume("Y")})
	assert.ErrorIs(t, err, ErrWorkerClosed)
}
