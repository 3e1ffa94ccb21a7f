package testspies

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LogHandlerSpy is a slog.Handler that keeps all records in memory.
type LogHandlerSpy struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewLogHandlerSpy creates an empty LogHandlerSpy.
func NewLogHandlerSpy() *LogHandlerSpy {
	return &LogHandlerSpy{}
}

func (s *LogHandlerSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())

	return nil
}

func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// HasRecord reports whether a record at level was captured whose message contains msgPart.
func (s *LogHandlerSpy) HasRecord(level slog.Level, msgPart string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.Level == level && strings.Contains(record.Message, msgPart) {
			return true
		}
	}

	return false
}

// Count returns the number of captured records.
func (s *LogHandlerSpy) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}
