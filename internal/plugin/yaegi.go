// ABOUTME: Interprets Go plugin source files with yaegi and returns their exported values.
// ABOUTME: Plugins import the standard library and the lichobi/sdk symbol table.

package plugin

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// YaegiImporter imports plugin modules by interpreting them. Each file gets
// its own interpreter, so plugins cannot see each other's symbols.
type YaegiImporter struct {
	symbols []interp.Exports
}

// NewYaegiImporter creates an importer exposing the standard library and the
// SDK symbols. Extra symbol tables may be added for tests or embedders.
func NewYaegiImporter(extra ...interp.Exports) *YaegiImporter {
	symbols := append([]interp.Exports{stdlib.Symbols, Symbols}, extra...)
	return &YaegiImporter{symbols: symbols}
}

// Import evaluates the file at path and returns its exported top-level
// functions and variables.
func (y *YaegiImporter) Import(ctx context.Context, path string) ([]Export, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	pkg := file.Name.Name

	i := interp.New(interp.Options{})
	for _, symbols := range y.symbols {
		if err := i.Use(symbols); err != nil {
			return nil, fmt.Errorf("loading symbols: %w", err)
		}
	}
	if _, err := i.EvalWithContext(ctx, string(src)); err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", path, err)
	}

	var exports []Export
	for _, name := range exportedNames(file) {
		v, err := i.Eval(pkg + "." + name)
		if err != nil || !v.IsValid() || !v.CanInterface() {
			continue
		}
		exports = append(exports, Export{Name: name, Value: v.Interface()})
	}
	return exports, nil
}

// exportedNames lists exported package-level functions and variables.
func exportedNames(file *ast.File) []string {
	var names []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.IsExported() {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, n := range vs.Names {
					if n.IsExported() {
						names = append(names, n.Name)
					}
				}
			}
		}
	}
	return names
}
