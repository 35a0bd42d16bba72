// Package identity keeps the client-held user id that scopes history
// queries. The id is created once and reused on every later visit.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Key is the storage key the user id lives under.
const Key = "webquiz_user_id"

var ErrNoIdentity = errors.New("identity: no user id stored")

// Store is a flat string key/value store in the manner of browser local
// storage.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Ensure returns the stored user id, creating and persisting a random v4 id
// on first use.
func Ensure(ctx context.Context, st Store) (string, error) {
	id, ok, err := st.Get(ctx, Key)
	if err != nil {
		return "", fmt.Errorf("read user id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := st.Put(ctx, Key, id); err != nil {
		return "", fmt.Errorf("store user id: %w", err)
	}
	return id, nil
}

// Lookup returns the stored user id without creating one.
func Lookup(ctx context.Context, st Store) (string, error) {
	id, ok, err := st.Get(ctx, Key)
	if err != nil {
		return "", err
	}
	if !ok || id == "" {
		return "", ErrNoIdentity
	}
	return id, nil
}
