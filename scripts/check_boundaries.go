// Command check_boundaries enforces the layering rules between and inside
// bounded contexts. Run it from the repository root.
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "ballotbridge"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists what one layer of a service may import besides the
// standard library. Own-service prefixes are relative to the service root.
type layerRule struct {
	ownLayers []string
	libraries []string
	platform  bool
}

var layerRules = map[string]layerRule{
	"domain": {
		ownLayers: []string{"domain"},
	},
	"ports": {
		ownLayers: []string{"domain"},
	},
	"application": {
		ownLayers: []string{"application", "domain", "ports"},
		libraries: []string{"golang.org/x/sync"},
	},
	"transport": {
		ownLayers: []string{"transport"},
	},
}

func main() {
	violations, err := collectViolations("contexts")
	if err != nil {
		fmt.Fprintf(os.Stderr, "walk contexts: %v\n", err)
		os.Exit(2)
	}
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks every non-test Go file below root, which must be
// a directory named "contexts" laid out as contexts/<context>/<service>/...
func collectViolations(root string) ([]violation, error) {
	var violations []violation
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 3 {
			return nil
		}
		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[0], parts[1])
		layer := ""
		if len(parts) > 3 {
			layer = parts[2]
		}
		display := filepath.ToSlash(filepath.Join("contexts", rel))
		violations = append(violations, validateFile(path, display, layer, servicePrefix)...)
		return nil
	})
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})
	return violations, err
}

func validateFile(path string, display string, layer string, servicePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: display, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line
		add := func(rule string) {
			violations = append(violations, violation{File: display, Line: line, Import: importPath, Rule: rule})
		}

		if hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, servicePrefix) {
			add("cross-context imports are forbidden; bridge in internal/app/bootstrap")
		}
		if hasPrefix(importPath, modulePath+"/internal/app") {
			add("contexts must not import the composition root")
		}

		rule, ok := layerRules[layer]
		if !ok {
			continue
		}
		if strings.Contains(importPath, "/adapters/") {
			add(layer + " must not import adapters")
			continue
		}
		if !rule.platform && hasPrefix(importPath, modulePath+"/internal") {
			add(layer + " must not import runtime infrastructure")
			continue
		}
		if !isStdlib(importPath) && !rule.allows(importPath, servicePrefix) {
			add(layer + " import is outside explicit allowlist")
		}
	}
	return violations
}

func (r layerRule) allows(importPath string, servicePrefix string) bool {
	for _, layer := range r.ownLayers {
		if hasPrefix(importPath, servicePrefix+"/"+layer) {
			return true
		}
	}
	for _, library := range r.libraries {
		if hasPrefix(importPath, library) {
			return true
		}
	}
	return false
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
