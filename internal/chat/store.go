package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Store is an ordered, role-tagged conversation log. Append has
// read-modify-write semantics and is not atomic across processes: a store
// is assumed to have a single writer per conversation. Sharing one store
// between concurrent conversations is the caller's problem, not ours.
type Store interface {
	Read() ([]Message, error)
	// Write replaces the full log, re-indexing messages from zero.
	Write(messages []Message) error
	Append(role, content string) error
}

// MemoryStore keeps the transcript in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	messages []Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make([]Message, 0, 16)}
}

func (s *MemoryStore) Read() ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

func (s *MemoryStore) Write(messages []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = reindex(messages)
	return nil
}

func (s *MemoryStore) Append(role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, Message{
		Index:   len(s.messages),
		Role:    role,
		Content: content,
	})
	return nil
}

// FileStore persists the transcript as a JSON array on disk. Every Write
// rewrites the whole file; Append is a read-modify-write cycle.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read() ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Write(messages []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(reindex(messages))
}

func (s *FileStore) Append(role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load()
	if err != nil {
		return err
	}
	messages = append(messages, Message{
		Index:   len(messages),
		Role:    role,
		Content: content,
	})
	return s.save(messages)
}

func (s *FileStore) load() ([]Message, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decode transcript %s: %w", s.path, err)
	}
	return messages, nil
}

func (s *FileStore) save(messages []Message) error {
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

func reindex(messages []Message) []Message {
	out := make([]Message, len(messages))
	for i, msg := range messages {
		msg.Index = i
		out[i] = msg
	}
	return out
}
