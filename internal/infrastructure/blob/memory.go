package blob

import (
	"context"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
}

// Memory is an in-process Store used by tests. It mimics the remote
// store's full-overwrite semantics.
type Memory struct {
	mu      sync.Mutex
	objects map[string]memObject

	// ReadErr and WriteErr, when set, are returned by the corresponding
	// operations to simulate remote failures.
	ReadErr  error
	WriteErr error
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memObject)}
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return false, m.ReadErr
	}
	_, ok := m.objects[key]
	return ok, nil
}

func (m *Memory) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, nil
}

func (m *Memory) Write(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[key] = memObject{data: stored, contentType: contentType}
	return nil
}

func (m *Memory) URL(key string) string {
	return "https://storage.test/" + key
}

// ContentType reports the content type recorded for key, or "" when absent.
func (m *Memory) ContentType(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[key].contentType
}
