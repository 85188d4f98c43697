package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/promptpack/promptpack/internal/render"
	"github.com/promptpack/promptpack/internal/types"
)

func writeManifest(t *testing.T, directory string, name string, content string) {
	t.Helper()
	if writeError := os.WriteFile(filepath.Join(directory, name), []byte(content), 0o644); writeError != nil {
		t.Fatalf("write %s: %v", name, writeError)
	}
}

func dependencyNames(section render.ManifestSection) []string {
	names := make([]string, 0, len(section.Dependencies))
	for _, dependency := range section.Dependencies {
		names = append(names, dependency.Name)
	}
	return names
}

func TestCollectManifestsPackageJSON(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeManifest(t, rootDirectory, "package.json", `{
  "dependencies": {"react": "^18.2.0", "axios": "^1.6.0"},
  "devDependencies": {"vitest": "^1.0.0"}
}`)

	sections := render.CollectManifests([]types.ValidatedPath{
		{AbsolutePath: rootDirectory, DisplayPath: ".", IsDir: true},
	})
	if len(sections) != 1 {
		t.Fatalf("expected one section, got %d", len(sections))
	}
	if sections[0].Source != "package.json" {
		t.Fatalf("unexpected source %q", sections[0].Source)
	}

	names := dependencyNames(sections[0])
	expected := []string{"axios", "react", "vitest"}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for index := range expected {
		if names[index] != expected[index] {
			t.Fatalf("expected sorted names %v, got %v", expected, names)
		}
	}
}

func TestCollectManifestsCargoTOML(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeManifest(t, rootDirectory, "Cargo.toml", `[package]
name = "demo"

[dependencies]
serde = { version = "1.0", features = ["derive"] }
tokio = "1.35"
`)

	sections := render.CollectManifests([]types.ValidatedPath{
		{AbsolutePath: rootDirectory, DisplayPath: ".", IsDir: true},
	})
	if len(sections) != 1 {
		t.Fatalf("expected one section, got %d", len(sections))
	}

	versionsByName := make(map[string]string)
	for _, dependency := range sections[0].Dependencies {
		versionsByName[dependency.Name] = dependency.Version
	}
	if versionsByName["serde"] != "1.0" {
		t.Fatalf("inline table version not extracted: %v", versionsByName)
	}
	if versionsByName["tokio"] != "1.35" {
		t.Fatalf("bare version not extracted: %v", versionsByName)
	}
}

func TestCollectManifestsPyprojectAndRequirements(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeManifest(t, rootDirectory, "pyproject.toml", `[project]
name = "demo"
dependencies = ["requests>=2.31", "click"]

[tool.poetry.dependencies]
flask = "^3.0"
`)
	writeManifest(t, rootDirectory, "requirements.txt", `# pinned
numpy==1.26.0

pandas==2.1.0
`)

	sections := render.CollectManifests([]types.ValidatedPath{
		{AbsolutePath: rootDirectory, DisplayPath: ".", IsDir: true},
	})
	if len(sections) != 2 {
		t.Fatalf("expected two sections, got %d", len(sections))
	}

	pyprojectNames := dependencyNames(sections[0])
	if len(pyprojectNames) != 3 {
		t.Fatalf("expected three pyproject dependencies, got %v", pyprojectNames)
	}
	requirementNames := dependencyNames(sections[1])
	if len(requirementNames) != 2 || requirementNames[0] != "numpy==1.26.0" {
		t.Fatalf("unexpected requirements entries: %v", requirementNames)
	}
}

func TestCollectManifestsGoModule(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeManifest(t, rootDirectory, "go.mod", `module example.com/demo

go 1.22

require (
	github.com/spf13/cobra v1.8.0
	go.uber.org/zap v1.27.0
)

require github.com/inconshreveable/mousetrap v1.1.0 // indirect
`)

	sections := render.CollectManifests([]types.ValidatedPath{
		{AbsolutePath: rootDirectory, DisplayPath: ".", IsDir: true},
	})
	if len(sections) != 1 {
		t.Fatalf("expected one section, got %d", len(sections))
	}

	names := dependencyNames(sections[0])
	if len(names) != 2 {
		t.Fatalf("indirect requirements must be skipped: %v", names)
	}
	if names[0] != "github.com/spf13/cobra" || names[1] != "go.uber.org/zap" {
		t.Fatalf("unexpected module requirements: %v", names)
	}
}

func TestCollectManifestsIgnoresMalformedAndMissing(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeManifest(t, rootDirectory, "package.json", "{ not json")

	sections := render.CollectManifests([]types.ValidatedPath{
		{AbsolutePath: rootDirectory, DisplayPath: ".", IsDir: true},
		{AbsolutePath: filepath.Join(rootDirectory, "file.txt"), DisplayPath: "file.txt", IsDir: false},
	})
	if len(sections) != 0 {
		t.Fatalf("expected no sections, got %d", len(sections))
	}
}

func TestRenderTreeStructure(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	for _, relativeDirectory := range []string{"src/nested", "node_modules/pkg"} {
		if mkdirError := os.MkdirAll(filepath.Join(rootDirectory, filepath.FromSlash(relativeDirectory)), 0o755); mkdirError != nil {
			t.Fatalf("mkdir: %v", mkdirError)
		}
	}
	writeManifest(t, rootDirectory, "zed.txt", "z\n")
	writeManifest(t, filepath.Join(rootDirectory, "src"), "app.go", "package app\n")
	writeManifest(t, filepath.Join(rootDirectory, "src", "nested"), "deep.go", "package nested\n")

	rendered := render.RenderTree([]types.ValidatedPath{
		{AbsolutePath: rootDirectory, DisplayPath: ".", IsDir: true},
	}, 2)

	expected := "./\n" +
		"├── src/\n" +
		"│   ├── app.go\n" +
		"│   └── nested/\n" +
		"└── zed.txt\n"
	if rendered != expected {
		t.Fatalf("tree mismatch:\n%q\nexpected:\n%q", rendered, expected)
	}
}

func TestRenderTreeFileRoot(t *testing.T) {
	t.Parallel()

	rendered := render.RenderTree([]types.ValidatedPath{
		{AbsolutePath: "/tmp/somewhere/file.txt", DisplayPath: "file.txt", IsDir: false},
	}, 0)
	if rendered != "file.txt\n" {
		t.Fatalf("unexpected file-root tree: %q", rendered)
	}
}
