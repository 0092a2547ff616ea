// internal/state/mock.go
package state

// Mock is a test double for Manager. Writes are stored immediately.
type Mock struct {
	values map[string]string
	writes int
	err    error
	closed bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{values: make(map[string]string)}
}

func (m *Mock) GetString(key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Mock) SetString(key, value string) {
	m.values[key] = value
	m.writes++
}

func (m *Mock) Flush() error { return nil }

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) Writes() int { return m.writes }

func (m *Mock) Value(key string) string { return m.values[key] }

func (m *Mock) Clear() { clear(m.values) }

func (m *Mock) SetError(err error) { m.err = err }

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
