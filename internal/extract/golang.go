package extract

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"

	"uno/internal/source"
)

func (x *Extractor) extractGo(f *source.File) ([]Site, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, f.Path, f.Content, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	want := make(map[string]bool, len(x.cfg.Functions))
	for _, fn := range x.cfg.Functions {
		want[fn] = true
	}
	var sites []Site
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		name := callName(call.Fun)
		if name == "" || !want[name] {
			return true
		}
		for _, arg := range call.Args {
			lit, ok := arg.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			value, err := strconv.Unquote(lit.Value)
			if err != nil {
				continue
			}
			start := fset.Position(lit.Pos()).Offset
			end := fset.Position(lit.End()).Offset
			sites = append(sites, Site{
				Span:     spanOf(f, start, end),
				Value:    value,
				Kind:     KindGoLiteral,
				Quote:    lit.Value[0],
				Name:     name,
				verbatim: lit.Value[1:len(lit.Value)-1] == value,
			})
		}
		return true
	})
	return sites, nil
}

// callName renders `pkg.Func` or `Func`; other callees yield "".
func callName(fun ast.Expr) string {
	switch fn := fun.(type) {
	case *ast.Ident:
		return fn.Name
	case *ast.SelectorExpr:
		if id, ok := fn.X.(*ast.Ident); ok {
			return id.Name + "." + fn.Sel.Name
		}
	case *ast.IndexExpr:
		return callName(fn.X)
	}
	return ""
}

