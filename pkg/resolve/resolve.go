// Package resolve decides whether a module can be installed onto a target,
// in what order its transitive dependencies must be installed, and what
// blocks or warnings apply.
//
// The entry point is [Engine.Resolve], which composes the graph snapshot,
// cycle detector, conflict classifier, and topological sorter from
// pkg/depgraph and pkg/version into one structured [Result]. The engine is
// stateless across calls: every resolution builds a fresh snapshot from the
// injected [registry.Source] and discards it, so concurrent calls for
// different (module, target) pairs share no mutable memory.
//
// Resolution never fails loudly. Cycles, unpublished or missing dependencies,
// and version mismatches come back as classified conflicts; even a
// data-source outage is converted into a single error-severity conflict so
// the caller can always render a conflict list.
package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dramac-main/dramac-cms-sub010/pkg/cache"
	"github.com/dramac-main/dramac-cms-sub010/pkg/depgraph"
	"github.com/dramac-main/dramac-cms-sub010/pkg/observability"
	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
)

// Options configures an [Engine].
type Options struct {
	// Logger receives debug and timing output. Defaults to log.Default().
	Logger *log.Logger

	// Cache, when set, stores resolution results keyed by (module, target)
	// and is invalidated by the mutation guard on edge changes. Defaults to
	// no caching.
	Cache cache.Cache

	// CacheTTL bounds how long cached results live. Zero means no expiry;
	// mutation-driven invalidation still applies.
	CacheTTL time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	return o
}

// Engine is the dependency resolution engine. Create instances with [New].
// An Engine is safe for concurrent use.
type Engine struct {
	store registry.Store
	opts  Options
}

// New creates an Engine backed by the given graph store.
func New(store registry.Store, opts Options) *Engine {
	return &Engine{store: store, opts: opts.withDefaults()}
}

// Resolve decides installability of moduleID onto targetID.
//
// Steps, short-circuiting on failure:
//
//  1. Load the reachable subgraph into an in-memory snapshot (one pass of
//     data-source I/O; all later steps are pure).
//  2. Detect cycles over edges of every type. A cycle yields exactly one
//     error conflict carrying the path, and no further processing.
//  3. Classify each direct dependency edge into the required/optional/peer
//     bucket with its status and any conflicts, then classify the transitive
//     required closure so conflicts deep in the install chain also surface.
//  4. Compute the install order over required edges.
//  5. Success = zero error-severity conflicts; CanInstall mirrors Success.
//
// The returned Result is always well-formed; see [Result].
func (e *Engine) Resolve(ctx context.Context, moduleID, targetID string) Result {
	start := time.Now()
	observability.Resolver().OnResolveStart(ctx, moduleID, targetID)

	res := e.resolve(ctx, moduleID, targetID)

	observability.Resolver().OnResolveComplete(ctx, moduleID, targetID,
		res.CanInstall, len(res.Conflicts), time.Since(start), nil)
	e.opts.Logger.Debug("resolved module",
		"module", moduleID, "target", targetID,
		"canInstall", res.CanInstall, "conflicts", len(res.Conflicts),
		"took", time.Since(start).Round(time.Millisecond))
	return res
}

func (e *Engine) resolve(ctx context.Context, moduleID, targetID string) Result {
	res := Result{ModuleID: moduleID, TargetID: targetID}

	if cached, ok := e.cachedResult(ctx, moduleID, targetID); ok {
		return cached
	}

	snap, err := depgraph.Load(ctx, e.store, moduleID)
	if err != nil {
		return e.faulted(res, err)
	}

	if _, ok := snap.Module(moduleID); !ok {
		res.Conflicts = append(res.Conflicts, Conflict{
			ModuleID: moduleID,
			Reason:   fmt.Sprintf("module %s does not exist in the module catalog", moduleID),
			Severity: SeverityError,
		})
		return res
	}

	if cyc, found := snap.FindCycle(moduleID); found {
		observability.Resolver().OnCycleDetected(ctx, moduleID, cyc.Path)
		res.Conflicts = append(res.Conflicts, Conflict{
			ModuleID:   moduleID,
			ModuleName: snap.Name(moduleID),
			Reason:     fmt.Sprintf("circular dependency detected: %s", joinArrow(cyc.Names)),
			Severity:   SeverityError,
			Resolution: "remove one of the dependencies in the cycle",
		})
		return res
	}

	edges := snap.Edges(moduleID)
	if len(edges) == 0 {
		res.Success = true
		res.CanInstall = true
		res.InstallOrder = []string{moduleID}
		e.storeResult(ctx, moduleID, targetID, res)
		return res
	}

	installed, err := e.store.Installed(ctx, targetID)
	if err != nil {
		return e.faulted(res, err)
	}
	installedVersions, err := e.installedVersions(ctx, targetID)
	if err != nil {
		return e.faulted(res, err)
	}

	seen := map[string]bool{moduleID: true}
	var queue []string
	for _, edge := range edges {
		f := classify(snap, edge, installed, installedVersions)
		switch edge.Type {
		case registry.DependencyOptional:
			res.Optional = append(res.Optional, f.node)
		case registry.DependencyPeer:
			res.Peer = append(res.Peer, f.node)
		default:
			res.Required = append(res.Required, f.node)
		}
		res.Conflicts = append(res.Conflicts, f.conflicts...)
		res.Warnings = append(res.Warnings, f.warnings...)

		if edge.Type == registry.DependencyRequired && !seen[edge.ToID] {
			seen[edge.ToID] = true
			queue = append(queue, edge.ToID)
		}
	}

	// Classify the transitive required closure as well: a cascading install
	// pulls in every module down the required chain, so an unpublished or
	// dangling module deep in that chain blocks installation just like a
	// direct one. Each target is classified once, on first reach.
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, edge := range snap.Edges(id) {
			if edge.Type != registry.DependencyRequired || seen[edge.ToID] {
				continue
			}
			seen[edge.ToID] = true
			queue = append(queue, edge.ToID)

			f := classify(snap, edge, installed, installedVersions)
			res.Conflicts = append(res.Conflicts, f.conflicts...)
			res.Warnings = append(res.Warnings, f.warnings...)
		}
	}

	order, err := snap.InstallOrder(moduleID)
	if err != nil {
		// The cycle detector passed, so a cycle here is a resolver bug.
		e.opts.Logger.Error("install ordering failed after cycle check passed",
			"module", moduleID, "err", err)
		return e.faulted(res, err)
	}
	res.InstallOrder = order

	res.Success = len(res.ErrorConflicts()) == 0
	res.CanInstall = res.Success
	e.storeResult(ctx, moduleID, targetID, res)
	return res
}

// ValidateInstall is a thin wrapper over [Engine.Resolve] for the
// installation workflow: it reduces the result to a yes/no plus the blocking
// conflicts as plain strings.
func (e *Engine) ValidateInstall(ctx context.Context, moduleID, targetID string) (bool, []string) {
	res := e.Resolve(ctx, moduleID, targetID)
	if res.CanInstall {
		return true, nil
	}
	var msgs []string
	for _, c := range res.ErrorConflicts() {
		msgs = append(msgs, c.Reason)
	}
	return false, msgs
}

// MultiInstallOrder computes one combined install sequence for several
// modules, preserving each module's relative order and de-duplicating by
// first occurrence.
func (e *Engine) MultiInstallOrder(ctx context.Context, moduleIDs []string) ([]string, error) {
	snap, err := depgraph.Load(ctx, e.store, moduleIDs...)
	if err != nil {
		return nil, fmt.Errorf("load dependency graph: %w", err)
	}
	for _, id := range moduleIDs {
		if cyc, found := snap.FindCycle(id); found {
			observability.Resolver().OnCycleDetected(ctx, id, cyc.Path)
			return nil, fmt.Errorf("%w: %s", registry.ErrEdgeCycle, joinArrow(cyc.Names))
		}
	}
	return snap.MultiInstallOrder(moduleIDs)
}

// installedVersions consults the optional [registry.VersionedSource]
// extension. A store without version tracking yields nil, which makes
// presence alone satisfy version bounds.
func (e *Engine) installedVersions(ctx context.Context, targetID string) (map[string]string, error) {
	vs, ok := e.store.(registry.VersionedSource)
	if !ok {
		return nil, nil
	}
	return vs.InstalledVersions(ctx, targetID)
}

// faulted converts a data-source failure into a structured result with a
// single synthetic error conflict. Resolution never propagates a raw fault.
func (e *Engine) faulted(res Result, err error) Result {
	e.opts.Logger.Warn("resolution aborted", "module", res.ModuleID, "err", err)
	res.Success = false
	res.CanInstall = false
	res.Conflicts = append(res.Conflicts, Conflict{
		ModuleID: res.ModuleID,
		Reason:   fmt.Sprintf("failed to resolve dependencies: %v", err),
		Severity: SeverityError,
		Resolution: "retry once the module graph is reachable; if the problem " +
			"persists check the graph store",
	})
	return res
}

func joinArrow(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " → "
		}
		out += n
	}
	return out
}
