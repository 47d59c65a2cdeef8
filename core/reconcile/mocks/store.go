package mocks

import (
	"context"

	"proposal-ingest/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of reconcile.Store
type Store struct {
	mock.Mock
}

func (m *Store) Begin(ctx context.Context) (reconcile.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(reconcile.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// Tx is a mock implementation of reconcile.Tx
type Tx struct {
	mock.Mock
}

func (m *Tx) LoadExistingKeys(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if keys, ok := args.Get(0).(map[string]struct{}); ok {
		return keys, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Tx) Insert(ctx context.Context, rec reconcile.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *Tx) UpdateStatusIfChanged(ctx context.Context, caseNumber string, status *string) (bool, error) {
	args := m.Called(ctx, caseNumber, status)
	return args.Bool(0), args.Error(1)
}

func (m *Tx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *Tx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}
