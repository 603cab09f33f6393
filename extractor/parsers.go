package extractor

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/FlorianRuen/repo-cost-estimator/classifier"
	"github.com/FlorianRuen/repo-cost-estimator/model"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
)

// PackageJSONParser counts production and development dependencies of a package.json
// a name declared in both mappings is counted twice
type PackageJSONParser struct{}

func (PackageJSONParser) Ecosystem() string { return classifier.EcosystemNPM }

func (PackageJSONParser) Parse(content string) (Manifest, error) {
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}

	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return Manifest{}, fmt.Errorf("%w: package.json: %v", model.ErrParse, err)
	}

	names := append(mapKeys(pkg.Dependencies), mapKeys(pkg.DevDependencies)...)
	return Manifest{Names: names, Count: len(names)}, nil
}

// GoModParser counts every require directive, indirect ones included
type GoModParser struct{}

func (GoModParser) Ecosystem() string { return classifier.EcosystemGo }

func (GoModParser) Parse(content string) (Manifest, error) {
	f, err := modfile.ParseLax("go.mod", []byte(content), nil)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: go.mod: %v", model.ErrParse, err)
	}

	names := make([]string, 0, len(f.Require))
	for _, req := range f.Require {
		names = append(names, req.Mod.Path)
	}

	return Manifest{Names: names, Count: len(names)}, nil
}

type CargoParser struct{}

func (CargoParser) Ecosystem() string { return classifier.EcosystemCargo }

func (CargoParser) Parse(content string) (Manifest, error) {
	var cargo struct {
		Dependencies      map[string]any `toml:"dependencies"`
		DevDependencies   map[string]any `toml:"dev-dependencies"`
		BuildDependencies map[string]any `toml:"build-dependencies"`
	}

	if err := toml.Unmarshal([]byte(content), &cargo); err != nil {
		return Manifest{}, fmt.Errorf("%w: Cargo.toml: %v", model.ErrParse, err)
	}

	names := append(mapKeys(cargo.Dependencies), mapKeys(cargo.DevDependencies)...)
	names = append(names, mapKeys(cargo.BuildDependencies)...)
	return Manifest{Names: names, Count: len(names)}, nil
}

// PyProjectParser reads both PEP 621 project dependencies and poetry tables
type PyProjectParser struct{}

func (PyProjectParser) Ecosystem() string { return classifier.EcosystemPip }

func (PyProjectParser) Parse(content string) (Manifest, error) {
	var pyproject struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}

	if err := toml.Unmarshal([]byte(content), &pyproject); err != nil {
		return Manifest{}, fmt.Errorf("%w: pyproject.toml: %v", model.ErrParse, err)
	}

	names := make([]string, 0)
	for _, requirement := range pyproject.Project.Dependencies {
		if name := requirementName(requirement); name != "" {
			names = append(names, name)
		}
	}

	// poetry lists the interpreter constraint next to the dependencies
	for _, name := range append(mapKeys(pyproject.Tool.Poetry.Dependencies), mapKeys(pyproject.Tool.Poetry.DevDependencies)...) {
		if strings.EqualFold(name, "python") {
			continue
		}
		names = append(names, strings.ToLower(name))
	}

	return Manifest{Names: names, Count: len(names)}, nil
}

// RequirementsParser counts one dependency per requirement line
// options (-r, -e, --index-url) and comments are ignored
type RequirementsParser struct{}

func (RequirementsParser) Ecosystem() string { return classifier.EcosystemPip }

func (RequirementsParser) Parse(content string) (Manifest, error) {
	names := make([]string, 0)
	scanner := bufio.NewScanner(strings.NewReader(content))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}

		if name := requirementName(line); name != "" {
			names = append(names, name)
		}
	}

	if err := scanner.Err(); err != nil {
		return Manifest{}, fmt.Errorf("%w: requirements.txt: %v", model.ErrParse, err)
	}

	return Manifest{Names: names, Count: len(names)}, nil
}

type ComposerParser struct{}

func (ComposerParser) Ecosystem() string { return classifier.EcosystemComposer }

func (ComposerParser) Parse(content string) (Manifest, error) {
	var composer struct {
		Require    map[string]string `json:"require"`
		RequireDev map[string]string `json:"require-dev"`
	}

	if err := json.Unmarshal([]byte(content), &composer); err != nil {
		return Manifest{}, fmt.Errorf("%w: composer.json: %v", model.ErrParse, err)
	}

	names := make([]string, 0, len(composer.Require)+len(composer.RequireDev))
	for _, name := range append(mapKeys(composer.Require), mapKeys(composer.RequireDev)...) {
		// platform requirements are not packages
		if name == "php" || strings.HasPrefix(name, "ext-") {
			continue
		}
		names = append(names, name)
	}

	return Manifest{Names: names, Count: len(names)}, nil
}

// requirementName strips version specifiers, extras and markers from a python requirement
func requirementName(requirement string) string {
	requirement = strings.TrimSpace(requirement)
	if idx := strings.IndexAny(requirement, "=<>!~[;@ "); idx >= 0 {
		requirement = requirement[:idx]
	}
	return strings.ToLower(requirement)
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
