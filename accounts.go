package ollert

import (
	"context"
	"errors"
	"fmt"
)

// ErrDuplicateUsername is returned by UserStore.CreateUser when the username
// is already taken. The store's uniqueness constraint is the source of truth;
// there is deliberately no check-then-insert anywhere.
var ErrDuplicateUsername = errors.New("username already exists")

// User is the durable account record. Username is the identity key (an email
// address in practice) and is immutable after creation.
type User struct {
	Username     string
	PasswordHash string
	Verified     bool

	// Opaque serialized board payload owned by the client
	Boards string
}

// UserUpdate is a partial update; nil fields are left untouched. Last writer
// wins, there is no optimistic concurrency control.
type UserUpdate struct {
	Verified     *bool
	PasswordHash *string
	Boards       *string
}

// UserStore is the durable key-value store behind the account registry.
type UserStore interface {
	// CreateUser inserts a new record, returning ErrDuplicateUsername if the
	// username is already present.
	CreateUser(ctx context.Context, user *User) error

	// GetUser returns (nil, nil) when the user does not exist.
	GetUser(ctx context.Context, username string) (*User, error)

	// UpdateUser merges the given fields into an existing record. Updating a
	// missing user is a no-op.
	UpdateUser(ctx context.Context, username string, upd UserUpdate) error
}

// Accounts is the account registry: it owns the shape of new records and
// composes the password hasher so stores only ever see hashes.
type Accounts struct {
	Store     UserStore
	Passwords *PasswordHasher
}

// Create hashes password and inserts a fresh record with an empty board
// payload. Duplicate usernames surface as ErrDuplicateUsername.
func (a *Accounts) Create(ctx context.Context, username, password string, verified bool) error {
	hash, err := a.Passwords.Hash(ctx, password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return a.Store.CreateUser(ctx, &User{
		Username:     username,
		PasswordHash: hash,
		Verified:     verified,
		Boards:       "[]",
	})
}

func (a *Accounts) Get(ctx context.Context, username string) (*User, error) {
	return a.Store.GetUser(ctx, username)
}

func (a *Accounts) Update(ctx context.Context, username string, upd UserUpdate) error {
	return a.Store.UpdateUser(ctx, username, upd)
}

// SetPassword hashes newPassword and replaces the stored hash. The record is
// also marked verified: proving control of the reset code proves control of
// the mailbox.
func (a *Accounts) SetPassword(ctx context.Context, username, newPassword string) error {
	hash, err := a.Passwords.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}
	verified := true
	return a.Store.UpdateUser(ctx, username, UserUpdate{
		Verified:     &verified,
		PasswordHash: &hash,
	})
}
