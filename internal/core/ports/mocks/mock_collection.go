package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// Call is one recorded collection operation
type Call struct {
	Op      string // "list", "create", "update", "delete"
	ID      int
	Payload any
}

// MockCollection is an in-memory implementation of ports.Collection for testing
type MockCollection[T domain.Record] struct {
	mu      sync.Mutex
	records []T
	calls   []Call

	// Errors returned by the next calls of each operation, when set
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// BeforeList runs inside List before the records are returned
	BeforeList func()

	// Gate, when set, blocks Create and Update until it is closed or receives
	Gate chan struct{}

	// Saved, when set, builds the record returned by Create and Update
	Saved func(id int, payload any) T
}

// NewMockCollection creates a mock collection holding records
func NewMockCollection[T domain.Record](records ...T) *MockCollection[T] {
	return &MockCollection[T]{records: records}
}

// SetRecords replaces the stored records
func (m *MockCollection[T]) SetRecords(records ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// Calls returns every recorded operation
func (m *MockCollection[T]) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns how many times op was called
func (m *MockCollection[T]) CallCount(op string) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// LastCall returns the most recent non-list call
func (m *MockCollection[T]) LastCall() (Call, bool) {
	calls := m.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Op != "list" {
			return calls[i], true
		}
	}
	return Call{}, false
}

func (m *MockCollection[T]) record(c Call) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}

// List returns the stored records
func (m *MockCollection[T]) List(ctx context.Context) ([]T, error) {
	m.record(Call{Op: "list"})
	if m.BeforeList != nil {
		m.BeforeList()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]T(nil), m.records...), nil
}

// Create records the payload
func (m *MockCollection[T]) Create(ctx context.Context, payload any) (T, error) {
	m.record(Call{Op: "create", Payload: payload})
	return m.save(ctx, 0, payload, m.CreateErr)
}

// Update records the payload for id
func (m *MockCollection[T]) Update(ctx context.Context, id int, payload any) (T, error) {
	m.record(Call{Op: "update", ID: id, Payload: payload})
	return m.save(ctx, id, payload, m.UpdateErr)
}

func (m *MockCollection[T]) save(ctx context.Context, id int, payload any, failure error) (T, error) {
	var zero T
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	if failure != nil {
		return zero, failure
	}
	if m.Saved != nil {
		return m.Saved(id, payload), nil
	}
	return zero, nil
}

// Delete removes the record with id
func (m *MockCollection[T]) Delete(ctx context.Context, id int) error {
	m.record(Call{Op: "delete", ID: id})

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i, r := range m.records {
		if r.RecordID() == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return &domain.HTTPError{Status: 404, Detail: fmt.Sprintf("record %d not found", id)}
}
