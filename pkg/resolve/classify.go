package resolve

import (
	"fmt"

	"github.com/dramac-main/dramac-cms-sub010/pkg/depgraph"
	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
	"github.com/dramac-main/dramac-cms-sub010/pkg/version"
)

// finding pairs a classified dependency node with the conflicts it raised.
type finding struct {
	node      DependencyNode
	conflicts []Conflict
	warnings  []string
}

// classify turns a raw dependency edge plus live catalog and installation
// state into a categorized finding.
//
// Classification order matters: a dangling reference short-circuits (there is
// no module to inspect), then publication state, then installation state.
// "Available" required dependencies produce an advisory warning rather than an
// error because the installation workflow auto-installs them; see the Result
// docs for the contract.
//
// installedVersions maps module ID to the version recorded at install time.
// When a module is installed but its version is unknown, presence alone
// satisfies any bounds.
func classify(snap *depgraph.Snapshot, edge registry.Dependency, installed map[string]bool, installedVersions map[string]string) finding {
	required := edge.Type == registry.DependencyRequired

	node := DependencyNode{
		ModuleID:   edge.ToID,
		Type:       edge.Type,
		MinVersion: edge.MinVersion,
		MaxVersion: edge.MaxVersion,
	}

	mod, ok := snap.Module(edge.ToID)
	if !ok {
		node.ModuleName = edge.ToID
		node.Status = StatusMissing
		sev := SeverityWarning
		if required {
			sev = SeverityError
		}
		return finding{node: node, conflicts: []Conflict{{
			ModuleID:   edge.ToID,
			ModuleName: edge.ToID,
			Reason:     fmt.Sprintf("dependency %s does not exist in the module catalog", edge.ToID),
			Severity:   sev,
			Resolution: "remove the dependency or restore the referenced module",
		}}}
	}

	node.ModuleName = mod.Name
	node.Slug = mod.Slug

	if !mod.Published() {
		node.Status = StatusNotPublished
		sev := SeverityWarning
		if required {
			sev = SeverityError
		}
		return finding{node: node, conflicts: []Conflict{{
			ModuleID:   mod.ID,
			ModuleName: mod.Name,
			Reason:     fmt.Sprintf("%s is not published (status: %s)", mod.Name, mod.Status),
			Severity:   sev,
			Resolution: fmt.Sprintf("publish %s before installing dependents", mod.Name),
		}}}
	}

	if installed[edge.ToID] {
		installedVersion, known := installedVersions[edge.ToID]
		if !known {
			// Presence alone satisfies the constraint when the installed
			// version was not recorded.
			node.Status = StatusInstalled
			return finding{node: node}
		}
		compat := version.Check(installedVersion, edge.MinVersion, edge.MaxVersion)
		if compat.Compatible {
			node.Status = StatusInstalled
			return finding{node: node}
		}
		node.Status = StatusVersionMismatch
		sev := SeverityWarning
		if required {
			sev = SeverityError
		}
		return finding{node: node, conflicts: []Conflict{{
			ModuleID:   mod.ID,
			ModuleName: mod.Name,
			Reason:     fmt.Sprintf("%s: %s", mod.Name, compat.Reason),
			Severity:   sev,
			Resolution: compat.Resolution,
		}}}
	}

	node.Status = StatusAvailable
	f := finding{node: node}
	if required {
		f.warnings = append(f.warnings,
			fmt.Sprintf("%s is required and will be installed automatically", mod.Name))
	}
	return f
}
