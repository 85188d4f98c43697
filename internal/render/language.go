package render

import (
	"path/filepath"
	"strings"
)

// fenceLabelsByExtension maps file extensions to fenced-block language
// labels. Adding a recognized extension is a data change, not a control-flow
// change. Unrecognized extensions render an untagged block.
var fenceLabelsByExtension = map[string]string{
	"go":    "go",
	"py":    "python",
	"js":    "javascript",
	"jsx":   "jsx",
	"ts":    "typescript",
	"tsx":   "tsx",
	"rs":    "rust",
	"rb":    "ruby",
	"java":  "java",
	"kt":    "kotlin",
	"swift": "swift",
	"c":     "c",
	"h":     "c",
	"cpp":   "cpp",
	"cc":    "cpp",
	"hpp":   "cpp",
	"cs":    "csharp",
	"php":   "php",
	"pl":    "perl",
	"sh":    "bash",
	"bash":  "bash",
	"zsh":   "bash",
	"fish":  "fish",
	"ps1":   "powershell",
	"sql":   "sql",
	"html":  "html",
	"htm":   "html",
	"xml":   "xml",
	"css":   "css",
	"scss":  "scss",
	"less":  "less",
	"md":    "markdown",
	"rst":   "rst",
	"json":  "json",
	"yaml":  "yaml",
	"yml":   "yaml",
	"toml":  "toml",
	"ini":   "ini",
	"proto": "protobuf",
	"tf":    "hcl",
	"lua":   "lua",
	"r":     "r",
	"ex":    "elixir",
	"exs":   "elixir",
	"erl":   "erlang",
	"hs":    "haskell",
	"scala": "scala",
	"vim":   "vim",
	"txt":   "text",
}

// fenceLabelsByFileName covers well-known extensionless files.
var fenceLabelsByFileName = map[string]string{
	"Dockerfile": "dockerfile",
	"Makefile":   "makefile",
	"Rakefile":   "ruby",
	"Gemfile":    "ruby",
}

// LanguageLabel infers the fenced-block language label for a path, returning
// an empty string when the extension is unrecognized.
func LanguageLabel(path string) string {
	baseName := filepath.Base(path)
	if label, known := fenceLabelsByFileName[baseName]; known {
		return label
	}
	extensionToken := strings.ToLower(strings.TrimPrefix(filepath.Ext(baseName), "."))
	return fenceLabelsByExtension[extensionToken]
}
