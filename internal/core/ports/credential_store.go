package ports

import "context"

// CredentialStore is the durable key/value storage holding bearer tokens.
// Get returns domain.ErrCredentialNotFound when the key is absent; Delete of
// an absent key is not an error.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
