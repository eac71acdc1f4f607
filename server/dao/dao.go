// Package dao provides data access objects for use in the grammarkit
// registry server.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories the server needs.
type Store interface {
	Grammars() GrammarRepository
	Credentials() CredentialRepository
	Close() error
}

// RuleInfo describes one declared rule of a compiled grammar, cached
// alongside the grammar's source so a listing request can report rule names
// and kinds without recompiling.
type RuleInfo struct {
	Name string
	Kind string
}

// Grammar is a named, persisted grammar and its compiled-metadata cache.
type Grammar struct {
	ID        uuid.UUID
	Name      string
	Source    string
	EntryRule string
	Rules     []RuleInfo
	Created   time.Time
}

// GrammarRepository persists named grammars.
type GrammarRepository interface {
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetByName(ctx context.Context, name string) (Grammar, error)
	GetAll(ctx context.Context) ([]Grammar, error)
	Delete(ctx context.Context, name string) (Grammar, error)
	Close() error
}

// Credential is a registered API user allowed to manage grammars.
type Credential struct {
	ID             uuid.UUID
	Username       string
	PasswordHash   string
	LastLogoutTime time.Time
}

// CredentialRepository persists API credentials used for bearer auth.
type CredentialRepository interface {
	Create(ctx context.Context, c Credential) (Credential, error)
	GetByID(ctx context.Context, id uuid.UUID) (Credential, error)
	GetByUsername(ctx context.Context, username string) (Credential, error)
	Update(ctx context.Context, id uuid.UUID, c Credential) (Credential, error)
	Close() error
}
