package analyzer

import "os/exec"

// ToolInfo describes one configured analyzer for the tools catalog.
type ToolInfo struct {
	Name      string `json:"name"`
	Tool      string `json:"tool"`
	Category  string `json:"category"`
	Available bool   `json:"available"`
}

// probed lets tests substitute the PATH lookup.
var lookPath = exec.LookPath

// registryEntry pairs an analyzer with its catalog metadata.
type registryEntry struct {
	analyzer Analyzer
	tool     string
	category string
}

// Registry fixes the analyzer set and its ordering. Reports always list
// sections in this order, regardless of which analyzer finished first.
type Registry struct {
	entries []registryEntry
}

// NewRegistry builds the default analyzer set, mirroring the documented
// tool chain: syntax, ruff, mypy, bandit, black, isort, pydocstyle.
func NewRegistry(python string) *Registry {
	if python == "" {
		python = "python3"
	}
	return &Registry{entries: []registryEntry{
		{&SyntaxChecker{Python: python}, python, "Syntax"},
		{&RuffChecker{}, "ruff", "Lint/Style"},
		{&MypyChecker{}, "mypy", "Types"},
		{&BanditChecker{}, "bandit", "Security"},
		{&BlackChecker{}, "black", "Formatting"},
		{&IsortChecker{}, "isort", "Import Order"},
		{&PydocstyleChecker{}, "pydocstyle", "Docstrings"},
	}}
}

// Analyzers returns the analyzers in registry order.
func (r *Registry) Analyzers() []Analyzer {
	out := make([]Analyzer, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.analyzer)
	}
	return out
}

// Names returns the analyzer names in registry order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.analyzer.Name())
	}
	return out
}

// Tools probes the PATH for each analyzer's binary and reports availability.
func (r *Registry) Tools() []ToolInfo {
	out := make([]ToolInfo, 0, len(r.entries))
	for _, e := range r.entries {
		_, err := lookPath(e.tool)
		out = append(out, ToolInfo{
			Name:      e.analyzer.Name(),
			Tool:      e.tool,
			Category:  e.category,
			Available: err == nil,
		})
	}
	return out
}
