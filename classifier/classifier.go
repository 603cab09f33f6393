// Package classifier decides what counts as a component file and what counts as a manifest.
// Both the tree walker and the dependency extractor rely on these predicates only.
package classifier

import (
	"path"
	"strings"
)

// componentExtensions lists UI component files and source files of languages
// usually structured around controllers, services and models
var componentExtensions = map[string]bool{
	".jsx":    true,
	".tsx":    true,
	".vue":    true,
	".svelte": true,
	".py":     true,
	".java":   true,
	".go":     true,
	".rb":     true,
	".php":    true,
	".cs":     true,
	".kt":     true,
	".swift":  true,
}

var structuralRoles = []string{
	"component",
	"controller",
	"service",
	"model",
	"view",
	"handler",
}

// Ecosystem tags registered for manifest files
const (
	EcosystemNPM      = "npm"
	EcosystemYarn     = "yarn"
	EcosystemPNPM     = "pnpm"
	EcosystemPip      = "pip"
	EcosystemPipenv   = "pipenv"
	EcosystemGo       = "go"
	EcosystemCargo    = "cargo"
	EcosystemComposer = "composer"
	EcosystemBundler  = "bundler"
)

// manifestKinds is keyed by the lowercased exact filename
var manifestKinds = map[string]string{
	"package.json":      EcosystemNPM,
	"package-lock.json": EcosystemNPM,
	"yarn.lock":         EcosystemYarn,
	"pnpm-lock.yaml":    EcosystemPNPM,
	"requirements.txt":  EcosystemPip,
	"setup.py":          EcosystemPip,
	"pyproject.toml":    EcosystemPip,
	"pipfile":           EcosystemPipenv,
	"go.mod":            EcosystemGo,
	"cargo.toml":        EcosystemCargo,
	"composer.json":     EcosystemComposer,
	"gemfile":           EcosystemBundler,
}

// IsComponentFile returns true when the file name looks like a discrete UI, service or data unit
func IsComponentFile(name string) bool {
	lower := strings.ToLower(name)

	if componentExtensions[path.Ext(lower)] {
		return true
	}

	for _, role := range structuralRoles {
		if strings.Contains(lower, role) {
			return true
		}
	}

	return false
}

// ManifestKind returns the ecosystem tag of a manifest file, ok is false for other files
func ManifestKind(name string) (ecosystem string, ok bool) {
	ecosystem, ok = manifestKinds[strings.ToLower(name)]
	return ecosystem, ok
}
