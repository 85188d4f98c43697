package render

import "encoding/json"

const (
	jsonIndentPrefix = ""
	jsonIndentSpacer = "  "
)

type jsonFileRecord struct {
	Path     string `json:"path"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content"`
	Tokens   int    `json:"tokens"`
	Bytes    int64  `json:"bytes"`
}

type jsonManifestRecord struct {
	Source       string            `json:"source"`
	Dependencies map[string]string `json:"dependencies"`
}

type jsonDocument struct {
	Roots        []string             `json:"roots"`
	Tree         string               `json:"tree,omitempty"`
	Dependencies []jsonManifestRecord `json:"dependencies,omitempty"`
	Files        []jsonFileRecord     `json:"files"`
	TotalFiles   int                  `json:"totalFiles"`
	TotalBytes   int64                `json:"totalBytes"`
	TotalTokens  int                  `json:"totalTokens"`
}

// renderJSON serializes the document as a machine-readable record: an ordered
// file list plus aggregate totals.
func renderJSON(assembled document, options Options) (string, error) {
	jsonOutput := jsonDocument{
		Files:       make([]jsonFileRecord, 0, len(assembled.Entries)),
		TotalFiles:  len(assembled.Entries),
		TotalBytes:  assembled.TotalBytes,
		TotalTokens: assembled.TotalTokens,
	}
	for _, root := range assembled.Roots {
		jsonOutput.Roots = append(jsonOutput.Roots, root.DisplayPath)
	}
	jsonOutput.Tree = assembled.Tree
	for _, manifest := range assembled.Manifests {
		record := jsonManifestRecord{Source: manifest.Source, Dependencies: make(map[string]string, len(manifest.Dependencies))}
		for _, dependency := range manifest.Dependencies {
			record.Dependencies[dependency.Name] = dependency.Version
		}
		jsonOutput.Dependencies = append(jsonOutput.Dependencies, record)
	}

	if options.GroupByCategory {
		for _, group := range assembled.Groups {
			for _, entry := range group.Entries {
				jsonOutput.Files = append(jsonOutput.Files, jsonRecordFor(entry, true))
			}
		}
	} else {
		for _, entry := range assembled.Entries {
			jsonOutput.Files = append(jsonOutput.Files, jsonRecordFor(entry, false))
		}
	}

	encodedDocument, encodeError := json.MarshalIndent(jsonOutput, jsonIndentPrefix, jsonIndentSpacer)
	if encodeError != nil {
		return "", encodeError
	}
	return string(encodedDocument) + "\n", nil
}

func jsonRecordFor(entry fileEntry, withCategory bool) jsonFileRecord {
	record := jsonFileRecord{
		Path:    entry.Path,
		Content: entry.Content,
		Tokens:  entry.Tokens,
		Bytes:   entry.Bytes,
	}
	if withCategory {
		record.Category = entry.Category
	}
	return record
}
