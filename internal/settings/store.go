package settings

import (
	"context"
	"errors"
)

// Store is the key-value persistence collaborator for terminal
// configuration that must survive restarts, such as the product feed
// URL.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

var ErrNotFound = errors.New("setting not found")
