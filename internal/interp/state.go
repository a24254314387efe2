package interp

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nuwa-ai/nuwascript/internal/logging"
	"github.com/nuwa-ai/nuwascript/internal/value"
)

// StateFormatter renders a key's value for formatStateForPrompt. Registered
// per-key via StateMetadata; falls back to defaultFormat when absent.
type StateFormatter func(v value.Value) string

// StateMetadata is the optional description/formatter pair attached to a
// state key.
type StateMetadata struct {
	Description string
	Formatter   StateFormatter
}

// StateStore is the registry-owned, process-wide key-to-Value map shared
// across script executions and tools.
type StateStore struct {
	mu     sync.Mutex
	values map[string]value.Value
	meta   map[string]StateMetadata
	logger *zap.SugaredLogger
}

func newStateStore() *StateStore {
	return &StateStore{
		values: map[string]value.Value{},
		meta:   map[string]StateMetadata{},
		logger: logging.Nop(),
	}
}

func (s *StateStore) setLogger(l *zap.SugaredLogger) {
	if l != nil {
		s.logger = l
	}
}

// Set stores a plain value, preserving any metadata already registered
// for key.
func (s *StateStore) Set(key string, v value.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
}

// SetWithMeta stores both a value and its metadata envelope in one call.
func (s *StateStore) SetWithMeta(key string, v value.Value, meta StateMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
	s.meta[key] = meta
}

// RegisterMetadata declares description/formatter for key without
// requiring a value to be present yet.
func (s *StateStore) RegisterMetadata(key string, meta StateMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[key] = meta
}

// Get returns the stored value and whether key is present.
func (s *StateStore) Get(key string) (value.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key has a stored value.
func (s *StateStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// All returns a copy of every stored key/value pair.
func (s *StateStore) All() map[string]value.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]value.Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Clear drops every value and every piece of metadata.
func (s *StateStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]value.Value{}
	s.meta = map[string]StateMetadata{}
	s.logger.Debugw("state cleared")
}

// FormatForPrompt renders a human-readable, newline-separated summary of
// every present key, using its registered formatter if any, else the
// default heuristic.
func (s *StateStore) FormatForPrompt() string {
	s.mu.Lock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	vals := make(map[string]value.Value, len(s.values))
	for k, v := range s.values {
		vals[k] = v
	}
	metas := make(map[string]StateMetadata, len(s.meta))
	for k, m := range s.meta {
		metas[k] = m
	}
	s.mu.Unlock()

	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		v := vals[k]
		meta := metas[k]
		rendered := defaultFormat(k, v)
		if meta.Formatter != nil {
			rendered = meta.Formatter(v)
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(rendered)
		if meta.Description != "" {
			sb.WriteString(" (")
			sb.WriteString(meta.Description)
			sb.WriteByte(')')
		}
	}
	return sb.String()
}

// defaultFormat applies a key-name timestamp heuristic: a numeric value
// under a key whose name mentions "time" or "date" is additionally
// rendered as an ISO-8601 timestamp, assuming a millisecond epoch.
// Everything else falls back to quoted JSON.
func defaultFormat(key string, v value.Value) string {
	lower := strings.ToLower(key)
	if n, ok := v.AsNumber(); ok && (strings.Contains(lower, "time") || strings.Contains(lower, "date")) {
		ts := time.UnixMilli(int64(n)).UTC()
		return fmt.Sprintf("%s (%s)", value.Stringify(v), ts.Format(time.RFC3339))
	}
	return value.ToJSON(v)
}
