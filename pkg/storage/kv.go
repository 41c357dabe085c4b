// Package storage provides the key-value backends cart records are persisted in.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no record exists for the key.
	ErrNotFound = errors.New("storage: record not found")
	// ErrQuotaExceeded is returned when a write would exceed the backend quota.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
)

// KV is a flat string key-value store. Writes replace the whole value; there is
// no compare-and-swap, so concurrent writers follow last-write-wins.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
