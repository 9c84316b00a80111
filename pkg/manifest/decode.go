// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/noderesolve/noderesolve/pkg/fieldmap"
)

// decode parses JSON into an ordered tree. The syntax tree is walked
// directly rather than evaluated, so a repeated key replaces the earlier
// value in place instead of being unified with it.
func decode(path string, data []byte) (*fieldmap.Node, error) {
	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return nil, err
	}
	return toNode(expr)
}

func toNode(expr ast.Expr) (*fieldmap.Node, error) {
	switch x := expr.(type) {
	case *ast.StructLit:
		var fields []fieldmap.Field
		index := make(map[string]int)
		for _, elt := range x.Elts {
			f, ok := elt.(*ast.Field)
			if !ok {
				return nil, fmt.Errorf("%s: unexpected %T in object", elt.Pos(), elt)
			}
			key, err := labelName(f.Label)
			if err != nil {
				return nil, err
			}
			value, err := toNode(f.Value)
			if err != nil {
				return nil, err
			}
			if i, seen := index[key]; seen {
				fields[i].Value = value
				continue
			}
			index[key] = len(fields)
			fields = append(fields, fieldmap.Field{Key: key, Value: value})
		}
		return fieldmap.ObjectNode(fields...), nil
	case *ast.ListLit:
		items := make([]*fieldmap.Node, 0, len(x.Elts))
		for _, elt := range x.Elts {
			item, err := toNode(elt)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return fieldmap.ArrayNode(items...), nil
	case *ast.UnaryExpr:
		lit, ok := x.X.(*ast.BasicLit)
		if x.Op != token.SUB || !ok || (lit.Kind != token.INT && lit.Kind != token.FLOAT) {
			return nil, fmt.Errorf("%s: unexpected expression", x.Pos())
		}
		return &fieldmap.Node{Kind: fieldmap.KindNumber, Number: "-" + lit.Value}, nil
	case *ast.BasicLit:
		switch x.Kind {
		case token.NULL:
			return fieldmap.NullNode(), nil
		case token.TRUE:
			return fieldmap.BoolNode(true), nil
		case token.FALSE:
			return fieldmap.BoolNode(false), nil
		case token.INT, token.FLOAT:
			return &fieldmap.Node{Kind: fieldmap.KindNumber, Number: x.Value}, nil
		case token.STRING:
			s, err := literal.Unquote(x.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", x.Pos(), err)
			}
			return fieldmap.StringNode(s), nil
		}
		return nil, fmt.Errorf("%s: unexpected literal %s", x.Pos(), x.Value)
	default:
		return nil, fmt.Errorf("%s: unexpected %T", expr.Pos(), expr)
	}
}

// labelName returns the key of a JSON object field. Extract turns keys that
// are valid identifiers into *ast.Ident and leaves the rest quoted.
func labelName(l ast.Label) (string, error) {
	switch x := l.(type) {
	case *ast.Ident:
		return x.Name, nil
	case *ast.BasicLit:
		if x.Kind == token.STRING {
			return literal.Unquote(x.Value)
		}
	}
	return "", fmt.Errorf("%s: unexpected object key", l.Pos())
}
