package resolve

import "github.com/dramac-main/dramac-cms-sub010/pkg/registry"

// DependencyStatus is the classifier's verdict for a single dependency edge.
type DependencyStatus string

const (
	// StatusInstalled means the dependency is present and enabled on the
	// target, and any version bounds are satisfied.
	StatusInstalled DependencyStatus = "installed"
	// StatusAvailable means the dependency is published but not installed on
	// the target. Required dependencies in this state are satisfiable by a
	// cascading install and do not block.
	StatusAvailable DependencyStatus = "available"
	// StatusMissing means the edge points at a module the catalog does not
	// know about (dangling reference).
	StatusMissing DependencyStatus = "missing"
	// StatusVersionMismatch means the dependency is installed but outside
	// the declared version bounds.
	StatusVersionMismatch DependencyStatus = "version_mismatch"
	// StatusNotPublished means the dependency exists but is not in the
	// published state.
	StatusNotPublished DependencyStatus = "not_published"
)

// Severity grades a conflict. Error-severity conflicts block installation;
// warnings are informational.
type Severity string

const (
	// SeverityError blocks installation.
	SeverityError Severity = "error"
	// SeverityWarning is informational.
	SeverityWarning Severity = "warning"
)

// DependencyNode is a dependency edge enriched with the resolved target
// module and its classification. Each node appears in exactly one of the
// result's Required, Optional, or Peer lists, mirroring the edge type.
type DependencyNode struct {
	ModuleID   string                  `json:"module_id"`
	ModuleName string                  `json:"module_name"`
	Slug       string                  `json:"slug,omitempty"`
	Type       registry.DependencyType `json:"type"`
	MinVersion string                  `json:"min_version,omitempty"`
	MaxVersion string                  `json:"max_version,omitempty"`
	Status     DependencyStatus        `json:"status"`
}

// Conflict is a classified finding that may or may not block installation.
type Conflict struct {
	ModuleID   string   `json:"module_id"`
	ModuleName string   `json:"module_name"`
	Reason     string   `json:"reason"`
	Severity   Severity `json:"severity"`
	Resolution string   `json:"resolution,omitempty"`
}

// Blocking reports whether the conflict prevents installation.
func (c Conflict) Blocking() bool { return c.Severity == SeverityError }

// Result is the aggregate outcome of one resolution call. It is always
// well-formed: even a data-source failure mid-resolution yields a Result with
// a single error conflict rather than a propagated fault, so callers can
// render the conflict list unconditionally.
type Result struct {
	ModuleID   string `json:"module_id"`
	TargetID   string `json:"target_id"`
	Success    bool   `json:"success"`
	CanInstall bool   `json:"can_install"`

	Required []DependencyNode `json:"required"`
	Optional []DependencyNode `json:"optional"`
	Peer     []DependencyNode `json:"peer"`

	Conflicts []Conflict `json:"conflicts"`

	// InstallOrder lists module IDs in install sequence, the requested
	// module last, every module preceded by all of its required
	// dependencies. It includes required dependencies that are already
	// installed on the target; the installation workflow decides whether to
	// skip those. Empty when a cycle or load failure aborted resolution.
	InstallOrder []string `json:"install_order,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// ErrorConflicts returns only the blocking conflicts.
func (r Result) ErrorConflicts() []Conflict {
	var out []Conflict
	for _, c := range r.Conflicts {
		if c.Blocking() {
			out = append(out, c)
		}
	}
	return out
}

// TreeNode is one node of the bounded-depth dependency tree built by
// [Engine.Tree]. The tree expands edges of every type and is meant for
// visualization, independent of install-order semantics.
type TreeNode struct {
	ModuleID   string                  `json:"module_id"`
	ModuleName string                  `json:"module_name"`
	Version    string                  `json:"version,omitempty"`
	Status     registry.Status         `json:"status,omitempty"`
	Type       registry.DependencyType `json:"type,omitempty"` // edge type from the parent; empty at the root
	Missing    bool                    `json:"missing,omitempty"`
	// Cyclic marks a node already expanded further up the branch; its
	// children are not repeated.
	Cyclic   bool       `json:"cyclic,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
}
