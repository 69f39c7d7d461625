package mocks

import (
	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of tweakdb.Store
type Store struct {
	mock.Mock
}

func (m *Store) Get(path string) (any, bool) {
	args := m.Called(path)
	return args.Get(0), args.Bool(1)
}

func (m *Store) Set(path string, value any) {
	m.Called(path, value)
}

func (m *Store) Paths(prefix string) []string {
	args := m.Called(prefix)
	if paths, ok := args.Get(0).([]string); ok {
		return paths
	}
	return nil
}
