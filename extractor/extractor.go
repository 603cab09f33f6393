// Package extractor turns manifest content into a dependency count and feature tags.
package extractor

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// DefaultDependencyCount is used when a manifest cannot be parsed
const DefaultDependencyCount = 20

// Manifest is the parsed content of a single manifest file
type Manifest struct {
	// Names of declared dependencies, a name declared twice appears twice
	Names []string

	// Count is the number of declared entries, it can differ from the distinct names count
	Count int
}

// Parser reads a manifest for one package ecosystem
// parse failures must wrap model.ErrParse
type Parser interface {
	Ecosystem() string
	Parse(content string) (Manifest, error)
}

type Extraction struct {
	DependencyCount int
	Features        []string
	Parsed          bool
}

type Extractor struct {
	// parsers is keyed by lowercased manifest filename
	parsers  map[string]Parser
	features FeatureTable
}

func New(parsers map[string]Parser, features FeatureTable) *Extractor {
	registered := make(map[string]Parser, len(parsers))
	for name, p := range parsers {
		registered[strings.ToLower(name)] = p
	}

	return &Extractor{
		parsers:  registered,
		features: features,
	}
}

// NewDefault only parses package.json unless parseAllManifests is set
func NewDefault(parseAllManifests bool) *Extractor {
	parsers := map[string]Parser{
		"package.json": PackageJSONParser{},
	}

	if parseAllManifests {
		parsers["go.mod"] = GoModParser{}
		parsers["cargo.toml"] = CargoParser{}
		parsers["pyproject.toml"] = PyProjectParser{}
		parsers["requirements.txt"] = RequirementsParser{}
		parsers["composer.json"] = ComposerParser{}
	}

	return New(parsers, DefaultFeatureTable())
}

// ParserFor returns the parser registered for a manifest filename
func (e *Extractor) ParserFor(filename string) (Parser, bool) {
	p, ok := e.parsers[strings.ToLower(filename)]
	return p, ok
}

// Extract never fails, malformed content yields DefaultDependencyCount and no features
func (e *Extractor) Extract(filename string, content string) Extraction {
	parser, ok := e.ParserFor(filename)
	if !ok {
		return Extraction{}
	}

	manifest, err := parser.Parse(content)
	if err != nil {
		log.WithFields(log.Fields{
			"manifest":  filename,
			"ecosystem": parser.Ecosystem(),
		}).WithError(err).Warning("unable to parse manifest, using default dependency count")

		return Extraction{DependencyCount: DefaultDependencyCount}
	}

	return Extraction{
		DependencyCount: manifest.Count,
		Features:        e.features.Match(manifest.Names),
		Parsed:          true,
	}
}
