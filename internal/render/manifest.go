package render

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"

	"github.com/promptpack/promptpack/internal/types"
)

// ManifestDependency is one declared dependency extracted from a manifest.
type ManifestDependency struct {
	Name    string
	Version string
}

// ManifestSection groups the dependencies found in one recognized manifest
// file alongside a root.
type ManifestSection struct {
	Source       string
	Dependencies []ManifestDependency
}

// manifestParsers maps the small fixed set of recognized manifest file names
// to their parsers. Any other build metadata format is ignored.
var manifestParsers = map[string]func([]byte) []ManifestDependency{
	"package.json":     parsePackageJSON,
	"pyproject.toml":   parsePyprojectTOML,
	"Cargo.toml":       parseCargoTOML,
	"requirements.txt": parseRequirementsText,
	"go.mod":           parseGoModule,
}

// manifestFileNames lists recognized manifests in a fixed scan order.
var manifestFileNames = []string{
	"package.json",
	"pyproject.toml",
	"Cargo.toml",
	"requirements.txt",
	"go.mod",
}

// CollectManifests extracts declared dependencies from recognized manifest
// files found alongside each directory root. The extraction is best-effort
// and read-only: parse failures are swallowed because this section is
// advisory and never fails the run.
func CollectManifests(roots []types.ValidatedPath) []ManifestSection {
	var sections []ManifestSection
	seenManifests := make(map[string]struct{})

	for _, root := range roots {
		if !root.IsDir {
			continue
		}
		for _, manifestName := range manifestFileNames {
			manifestPath := filepath.Join(root.AbsolutePath, manifestName)
			if _, alreadySeen := seenManifests[manifestPath]; alreadySeen {
				continue
			}
			manifestBytes, readError := os.ReadFile(manifestPath)
			if readError != nil {
				continue
			}
			seenManifests[manifestPath] = struct{}{}

			dependencies := manifestParsers[manifestName](manifestBytes)
			if len(dependencies) == 0 {
				continue
			}
			sort.Slice(dependencies, func(firstIndex, secondIndex int) bool {
				return dependencies[firstIndex].Name < dependencies[secondIndex].Name
			})
			sections = append(sections, ManifestSection{
				Source:       filepath.ToSlash(filepath.Join(root.DisplayPath, manifestName)),
				Dependencies: dependencies,
			})
		}
	}
	return sections
}

// parsePackageJSON reads the dependencies and devDependencies maps of an npm
// manifest.
func parsePackageJSON(manifestBytes []byte) []ManifestDependency {
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if decodeError := json.Unmarshal(manifestBytes, &manifest); decodeError != nil {
		return nil
	}
	var dependencies []ManifestDependency
	for name, version := range manifest.Dependencies {
		dependencies = append(dependencies, ManifestDependency{Name: name, Version: version})
	}
	for name, version := range manifest.DevDependencies {
		dependencies = append(dependencies, ManifestDependency{Name: name, Version: version})
	}
	return dependencies
}

// parsePyprojectTOML reads PEP 621 project dependencies and the poetry
// dependency table.
func parsePyprojectTOML(manifestBytes []byte) []ManifestDependency {
	var manifest struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies map[string]interface{} `toml:"dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if decodeError := toml.Unmarshal(manifestBytes, &manifest); decodeError != nil {
		return nil
	}
	var dependencies []ManifestDependency
	for _, requirement := range manifest.Project.Dependencies {
		dependencies = append(dependencies, ManifestDependency{Name: strings.TrimSpace(requirement)})
	}
	for name, specifier := range manifest.Tool.Poetry.Dependencies {
		dependencies = append(dependencies, ManifestDependency{Name: name, Version: tomlVersionString(specifier)})
	}
	return dependencies
}

// parseCargoTOML reads the [dependencies] table of a Cargo manifest.
func parseCargoTOML(manifestBytes []byte) []ManifestDependency {
	var manifest struct {
		Dependencies map[string]interface{} `toml:"dependencies"`
	}
	if decodeError := toml.Unmarshal(manifestBytes, &manifest); decodeError != nil {
		return nil
	}
	var dependencies []ManifestDependency
	for name, specifier := range manifest.Dependencies {
		dependencies = append(dependencies, ManifestDependency{Name: name, Version: tomlVersionString(specifier)})
	}
	return dependencies
}

// tomlVersionString extracts a version from either a bare string specifier or
// an inline table with a version key.
func tomlVersionString(specifier interface{}) string {
	switch value := specifier.(type) {
	case string:
		return value
	case map[string]interface{}:
		if version, hasVersion := value["version"].(string); hasVersion {
			return version
		}
	}
	return ""
}

// parseRequirementsText reads the non-comment lines of a pip requirements
// file.
func parseRequirementsText(manifestBytes []byte) []ManifestDependency {
	var dependencies []ManifestDependency
	scanner := bufio.NewScanner(strings.NewReader(string(manifestBytes)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dependencies = append(dependencies, ManifestDependency{Name: line})
	}
	return dependencies
}

// parseGoModule reads the require block of a Go module file.
func parseGoModule(manifestBytes []byte) []ManifestDependency {
	parsedModule, parseError := modfile.Parse("go.mod", manifestBytes, nil)
	if parseError != nil {
		return nil
	}
	var dependencies []ManifestDependency
	for _, requirement := range parsedModule.Require {
		if requirement.Indirect {
			continue
		}
		dependencies = append(dependencies, ManifestDependency{
			Name:    requirement.Mod.Path,
			Version: requirement.Mod.Version,
		})
	}
	return dependencies
}
