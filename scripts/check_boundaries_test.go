package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, root string, rel string, imports ...string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := "package x\n\nimport (\n"
	for _, imp := range imports {
		src += "\t_ \"" + imp + "\"\n"
	}
	src += ")\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestRepositoryContextsRespectBoundaries(t *testing.T) {
	violations, err := collectViolations(filepath.Join("..", "contexts"))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, v := range violations {
		t.Errorf("%s:%d imports %q (%s)", v.File, v.Line, v.Import, v.Rule)
	}
}

func TestCollectViolationsFlagsLayerBreaches(t *testing.T) {
	root := filepath.Join(t.TempDir(), "contexts")
	writeSource(t, root, "ops/svc/domain/entities/a.go",
		"time",
		"ballotbridge/contexts/ops/svc/domain/errors",
		"ballotbridge/contexts/ops/svc/ports",
	)
	writeSource(t, root, "ops/svc/application/commands/b.go",
		"golang.org/x/sync/errgroup",
		"ballotbridge/internal/platform/ledger",
		"ballotbridge/contexts/ops/svc/adapters/memory",
		"gorm.io/gorm",
	)
	writeSource(t, root, "ops/svc/adapters/postgres/c.go",
		"gorm.io/gorm",
		"ballotbridge/internal/platform/db",
		"ballotbridge/contexts/other/svc/domain/errors",
	)
	writeSource(t, root, "ops/svc/module.go",
		"ballotbridge/internal/app/bootstrap",
	)

	violations, err := collectViolations(root)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	got := make(map[string]string, len(violations))
	for _, v := range violations {
		got[v.Import] = v.Rule
	}
	want := map[string]string{
		"ballotbridge/contexts/ops/svc/ports":           "domain import is outside explicit allowlist",
		"ballotbridge/internal/platform/ledger":         "application must not import runtime infrastructure",
		"ballotbridge/contexts/ops/svc/adapters/memory": "application must not import adapters",
		"gorm.io/gorm": "application import is outside explicit allowlist",
		"ballotbridge/contexts/other/svc/domain/errors": "cross-context imports are forbidden; bridge in internal/app/bootstrap",
		"ballotbridge/internal/app/bootstrap":           "contexts must not import the composition root",
	}
	if len(violations) != len(want) {
		t.Fatalf("expected %d violations, got %+v", len(want), violations)
	}
	for imp, rule := range want {
		if got[imp] != rule {
			t.Fatalf("import %s: expected rule %q, got %q", imp, rule, got[imp])
		}
	}
}
