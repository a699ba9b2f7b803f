// Package extract parses source files with a grammar-driven syntax tree
// parser and walks the tree with a scope-aware cursor to produce symbols,
// references, and import edges.
package extract

import (
	"path/filepath"
	"strings"
)

// extToLanguage maps a lowercase file extension (without the dot) to the
// canonical language name used throughout the package.
var extToLanguage = map[string]string{
	"ts":   "typescript",
	"tsx":  "typescript",
	"js":   "javascript",
	"jsx":  "javascript",
	"py":   "python",
	"rs":   "rust",
	"go":   "go",
	"java": "java",
	"c":    "c",
	"h":    "c",
	"cpp":  "cpp",
	"cc":   "cpp",
	"cxx":  "cpp",
	"hpp":  "cpp",
	"hh":   "cpp",
	"hxx":  "cpp",
	"rb":   "ruby",
	"php":  "php",
}

// LanguageForFile returns the canonical language name for path based on its
// extension. Unknown extensions return ("", false): the file has no
// language and the pipeline skips it.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// LanguageForFileWithExtras resolves path the same way LanguageForFile does,
// but additional extensions the caller supplies (the [index]
// additional_extensions config key) are also recognized: an extension
// matching the built-in table wins outright, otherwise a match against
// additional returns the synthetic "text" language, which carries a file
// into the index (line count, searchability via ls/status) without symbol
// extraction.
func LanguageForFileWithExtras(path string, additional []string) (string, bool) {
	if lang, ok := LanguageForFile(path); ok {
		return lang, true
	}
	if len(additional) == 0 {
		return "", false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, a := range additional {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == ext {
			return "text", true
		}
	}
	return "", false
}
