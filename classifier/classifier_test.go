package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsComponentFile(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{name: "Button.tsx", expected: true},
		{name: "App.JSX", expected: true},
		{name: "Layout.vue", expected: true},
		{name: "main.go", expected: true},
		{name: "views.py", expected: true},
		{name: "UserController.ts", expected: true},
		{name: "auth.service.ts", expected: true},
		{name: "eventHandler.js", expected: true},
		{name: "README.md", expected: false},
		{name: "index.ts", expected: false},
		{name: "styles.css", expected: false},
		{name: "Makefile", expected: false},
		{name: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsComponentFile(tt.name))
		})
	}
}

func TestManifestKind(t *testing.T) {
	tests := []struct {
		name          string
		expectedKind  string
		expectedFound bool
	}{
		{name: "package.json", expectedKind: EcosystemNPM, expectedFound: true},
		{name: "Package.JSON", expectedKind: EcosystemNPM, expectedFound: true},
		{name: "yarn.lock", expectedKind: EcosystemYarn, expectedFound: true},
		{name: "requirements.txt", expectedKind: EcosystemPip, expectedFound: true},
		{name: "Pipfile", expectedKind: EcosystemPipenv, expectedFound: true},
		{name: "go.mod", expectedKind: EcosystemGo, expectedFound: true},
		{name: "Cargo.toml", expectedKind: EcosystemCargo, expectedFound: true},
		{name: "composer.json", expectedKind: EcosystemComposer, expectedFound: true},
		{name: "go.sum", expectedFound: false},
		{name: "tsconfig.json", expectedFound: false},
		{name: "src/package.json", expectedFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, found := ManifestKind(tt.name)
			assert.Equal(t, tt.expectedFound, found)
			assert.Equal(t, tt.expectedKind, kind)
		})
	}
}
