// Package registry defines the domain types and data-source boundary for the
// module dependency graph.
//
// A Module is an installable unit of platform functionality. Modules declare
// directed dependencies on other modules, and a target (a site, client, or
// agency) carries a set of installed modules. The resolution engine in
// pkg/resolve consumes these types through the [Source] and [Mutator]
// interfaces; concrete persistence lives in pkg/store.
package registry

import (
	"context"
	"errors"
)

var (
	// ErrModuleNotFound is returned by [Source.Module] when no module exists
	// with the given ID.
	ErrModuleNotFound = errors.New("module not found")

	// ErrSelfDependency is returned when a module declares a dependency on
	// itself. Self-loops are rejected before they ever reach graph storage.
	ErrSelfDependency = errors.New("module cannot depend on itself")

	// ErrEdgeCycle is returned when adding a dependency edge would close a
	// cycle in the existing graph.
	ErrEdgeCycle = errors.New("dependency would create a cycle")
)

// Status is the publication state of a module.
type Status string

const (
	// StatusPublished marks a module as generally available for installation.
	StatusPublished Status = "published"
	// StatusTesting marks a module as available to testers only.
	StatusTesting Status = "testing"
	// StatusDraft marks a module as work in progress.
	StatusDraft Status = "draft"
	// StatusArchived marks a module as withdrawn from the catalog.
	StatusArchived Status = "archived"
)

// DependencyType classifies how strongly one module needs another.
type DependencyType string

const (
	// DependencyRequired gates installation: the target module must be
	// installed before the dependent module can run.
	DependencyRequired DependencyType = "required"
	// DependencyOptional enables extra functionality when present but never
	// blocks installation or participates in install ordering.
	DependencyOptional DependencyType = "optional"
	// DependencyPeer expects the target module to be provided by the
	// surrounding installation, typically shared infrastructure.
	DependencyPeer DependencyType = "peer"
)

// Module is an immutable snapshot of a catalog entry. It is fetched from a
// [Source] per resolution call and never mutated by the resolver.
type Module struct {
	ID      string `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	Slug    string `json:"slug" bson:"slug"`
	Version string `json:"version" bson:"version"` // published semantic version
	Status  Status `json:"status" bson:"status"`
}

// Published reports whether the module is generally available.
func (m Module) Published() bool { return m.Status == StatusPublished }

// Dependency is a directed edge FromID → ToID in the module graph. Edges are
// declared once per ordered pair; re-declaring the same pair overwrites the
// prior attributes (upsert on the composite key).
type Dependency struct {
	FromID     string         `json:"from_id" bson:"from_id"`
	ToID       string         `json:"to_id" bson:"to_id"`
	Type       DependencyType `json:"type" bson:"type"`
	MinVersion string         `json:"min_version,omitempty" bson:"min_version,omitempty"`
	MaxVersion string         `json:"max_version,omitempty" bson:"max_version,omitempty"`
}

// Source supplies module records and dependency edges on demand. All reads
// are keyed by module or target ID; implementations must be safe for
// concurrent use.
type Source interface {
	// Module returns the catalog entry for id.
	// Returns ErrModuleNotFound if no such module exists.
	Module(ctx context.Context, id string) (Module, error)

	// Edges returns the outgoing dependency edges declared by the module.
	// A module with no declared dependencies yields an empty slice, not an
	// error.
	Edges(ctx context.Context, moduleID string) ([]Dependency, error)

	// Installed returns the set of module IDs currently installed and
	// enabled on the target. Disabled installations are excluded.
	Installed(ctx context.Context, targetID string) (map[string]bool, error)
}

// VersionedSource is an optional extension of [Source] for stores that
// record the module version captured at install time. When a source does not
// implement it, the resolver treats installed presence alone as satisfying
// any version bounds.
type VersionedSource interface {
	Source

	// InstalledVersions returns installed module ID → version recorded at
	// install time for the target. Modules installed before version tracking
	// existed may be absent from the map even when installed.
	InstalledVersions(ctx context.Context, targetID string) (map[string]string, error)
}

// Mutator persists dependency edges. It is the only mutating surface of the
// graph; the resolver itself never writes.
type Mutator interface {
	// UpsertEdge inserts or overwrites the edge keyed by (FromID, ToID).
	UpsertEdge(ctx context.Context, dep Dependency) error

	// DeleteEdge removes the edge from→to if it exists. Deleting a missing
	// edge is not an error.
	DeleteEdge(ctx context.Context, fromID, toID string) error
}

// Store combines read and write access to the module graph.
type Store interface {
	Source
	Mutator
}
