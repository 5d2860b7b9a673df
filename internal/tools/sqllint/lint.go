package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	sqlStatementPattern = regexp.MustCompile(`(?i)^(select\b|insert\s+into\b|update\s+\w+\s+set\b|delete\s+from\b|with\s+\w+\s+as\s*\()`)
	uuidMarkerPattern   = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

type violation struct {
	file    string
	name    string
	line    int
	message string
}

// linter collects marker violations across files. Markers must be unique
// across every file it sees, since SQLRunner logs them as query ids.
type linter struct {
	seen       map[string]string
	violations []violation
}

func newLinter() *linter {
	return &linter{seen: make(map[string]string)}
}

func (l *linter) lintPath(target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if filepath.Ext(target) == ".go" {
			return l.lintFile(target)
		}
		return nil
	}
	return filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != target && (strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		return l.lintFile(path)
	})
}

func (l *linter) lintFile(path string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	ast.Inspect(file, func(n ast.Node) bool {
		vs, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for _, value := range vs.Values {
			bl, ok := value.(*ast.BasicLit)
			if !ok || bl.Kind != token.STRING {
				continue
			}
			raw, err := unquote(bl.Value)
			if err != nil {
				continue
			}
			marker, body := splitMarker(raw)
			if !sqlStatementPattern.MatchString(body) {
				continue
			}
			pos := fset.Position(bl.Pos())
			v := violation{file: path, line: pos.Line, name: joinNames(vs.Names)}
			if !uuidMarkerPattern.MatchString(marker) {
				v.message = "missing or invalid --sql <uuid> marker"
				l.violations = append(l.violations, v)
				continue
			}
			if prev, dup := l.seen[marker]; dup {
				v.message = "marker already used by " + prev
				l.violations = append(l.violations, v)
				continue
			}
			l.seen[marker] = v.name
		}
		return true
	})
	return nil
}

// splitMarker returns the leading marker line, if any, and the statement
// text that follows it.
func splitMarker(s string) (string, string) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "--") {
		return "", s
	}
	first, rest, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(first), strings.TrimSpace(rest)
}

func unquote(v string) (string, error) {
	if len(v) == 0 {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

func joinNames(idents []*ast.Ident) string {
	parts := make([]string, 0, len(idents))
	for _, ident := range idents {
		if ident == nil {
			continue
		}
		parts = append(parts, ident.Name)
	}
	return strings.Join(parts, ",")
}
