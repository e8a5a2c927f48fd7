// Package ident produces opaque unique identifiers for projects and tasks.
package ident

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Kind labels what an identifier names. It only matters for the
// fallback format, where it becomes a human-readable prefix.
type Kind string

const (
	// KindProject identifies a project.
	KindProject Kind = "project"

	// KindTask identifies a task.
	KindTask Kind = "task"
)

// Generator produces identifiers unique for the lifetime of one store.
//
// Implementations must never return the same identifier twice within a
// single process.
type Generator interface {
	NewID(kind Kind) string
}

// UUIDGenerator is the production Generator. It returns random UUIDs,
// falling back to a time+random string if the system entropy source
// fails.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a ready-to-use UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a fresh identifier for the given kind.
func (g *UUIDGenerator) NewID(kind Kind) string {
	id, err := uuid.NewRandom()
	if err != nil {
		// Entropy exhaustion is effectively unreachable, but the store
		// must still get an identifier.
		return fmt.Sprintf("%s-%d-%05d", kind, time.Now().UnixMilli(), rand.Intn(100000))
	}
	return id.String()
}
