package chat

import "sync"

// StatusEnd is the sentinel pushed to the reporter exactly once after an
// orchestration run finishes, telling any poller that no more progress
// strings are coming.
const StatusEnd = "END"

// StatusReporter receives out-of-band progress strings: one before every
// remote round, then StatusEnd.
type StatusReporter interface {
	SetStatus(text string)
	Status() (string, bool)
}

// MemoryStatus is the in-process StatusReporter.
type MemoryStatus struct {
	mu   sync.RWMutex
	text string
	set  bool
}

func NewMemoryStatus() *MemoryStatus {
	return &MemoryStatus{}
}

func (s *MemoryStatus) SetStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.set = true
}

func (s *MemoryStatus) Status() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text, s.set
}
