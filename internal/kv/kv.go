// Package kv provides the device-local key-value stores the record store sits on.
package kv

import (
	"context"
	"errors"
)

var (
	ErrEmptyKey = errors.New("empty key")
	ErrClosed   = errors.New("store closed")
)

// Store is a byte-oriented key-value store. Put replaces the whole value.
type Store interface {
	// Get returns the value for key; found is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
