// Package testutil holds layering guards shared by package tests.
//
// farmcore keeps its layers one-directional: pkg/domain depends on the
// standard library only, the business, flows, dynaflow and reports layers
// never reach for HTTP or CLI packages, and only core and blob know about
// the concrete infra stores.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Predicate reports whether an import path is forbidden.
type Predicate func(importPath string) bool

// AssertNoDirectImports scans the non-test .go files in dir and fails if any
// import matches one of the predicates. Build tags are ignored.
func AssertNoDirectImports(t testing.TB, dir, reason string, forbidden ...Predicate) {
	t.Helper()
	viols, err := directImportViolations(dir, anyOf(forbidden))
	if err != nil {
		t.Fatalf("scan %s: %v", dir, err)
	}
	failIfViolations(t, reason, viols)
}

// ThirdPartyImport matches any import outside the standard library and the
// farmcore module.
func ThirdPartyImport(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return strings.Contains(first, ".")
}

// InternalImport matches farmcore/internal packages.
func InternalImport(path string) bool {
	return strings.HasPrefix(path, "farmcore/internal/")
}

// InfraImport matches the concrete storage and blob backends.
func InfraImport(path string) bool {
	return strings.HasPrefix(path, "farmcore/internal/infra/")
}

// TransportImport matches the HTTP and CLI layers and their libraries.
func TransportImport(path string) bool {
	switch {
	case strings.HasPrefix(path, "github.com/gin-gonic/"),
		strings.HasPrefix(path, "github.com/spf13/cobra"),
		path == "farmcore/internal/server",
		strings.HasPrefix(path, "farmcore/cmd/"):
		return true
	}
	return false
}

func anyOf(preds []Predicate) Predicate {
	return func(path string) bool {
		for _, p := range preds {
			if p(path) {
				return true
			}
		}
		return false
	}
}

func directImportViolations(dir string, forbidden Predicate) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var viols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range file.Imports {
			ip := strings.Trim(imp.Path.Value, `"`)
			if forbidden(ip) {
				viols = append(viols, ip+" (in "+name+")")
			}
		}
	}
	sort.Strings(viols)
	return viols, nil
}

type fatalLogger interface {
	Fatalf(format string, args ...any)
}

func failIfViolations(t fatalLogger, reason string, viols []string) {
	if len(viols) > 0 {
		t.Fatalf("forbidden imports detected (%s):\n%s", reason, strings.Join(viols, "\n"))
	}
}
