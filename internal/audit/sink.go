package audit

import "context"

// Sink is the single-operation capability §4.9 describes: fire-and-forget
// recording. The core must never block execution on a sink's
// acknowledgement; implementations needing durability buffer internally.
type Sink interface {
	Record(ctx context.Context, rec Record) error
}

// NoopSink is the default sink: it discards every record.
type NoopSink struct{}

func (NoopSink) Record(ctx context.Context, rec Record) error { return nil }

// MultiSink fans one record out to several sinks, continuing past
// individual sink errors so one failing sink does not stop the others
// from recording. Sinks are called one after another, so a slow sink
// delays the sinks after it.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) MultiSink {
	return MultiSink{sinks: sinks}
}

func (m MultiSink) Record(ctx context.Context, rec Record) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Record(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
