package output

import (
	"context"
	"typewriter/pkg/domain"
)

// Recorder counts emitted candidates.
type Recorder interface {
	CandidateEmitted(ctx context.Context, kind domain.CandidateKind)
}

type recordingSink struct {
	next     Sink
	recorder Recorder
}

// WithRecorder returns a Sink that forwards to next and reports every
// successfully emitted candidate to recorder.
func WithRecorder(next Sink, recorder Recorder) Sink {
	return &recordingSink{next: next, recorder: recorder}
}

func (s *recordingSink) Emit(ctx context.Context, c domain.Candidate) error {
	if err := s.next.Emit(ctx, c); err != nil {
		return err
	}
	s.recorder.CandidateEmitted(ctx, c.Kind)

	return nil
}

// Flush forwards to next when it buffers candidates.
func (s *recordingSink) Flush() error {
	if f, ok := s.next.(Flusher); ok {
		return f.Flush()
	}

	return nil
}
