// SPDX-License-Identifier: MPL-2.0

package fieldmap

import (
	"errors"
	"slices"
	"testing"
)

func obj(kv ...any) *Node {
	fields := make([]Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		var value *Node
		switch v := kv[i+1].(type) {
		case string:
			value = StringNode(v)
		case *Node:
			value = v
		case nil:
			value = NullNode()
		}
		fields = append(fields, Field{Key: kv[i].(string), Value: value})
	}
	return ObjectNode(fields...)
}

func TestExportsProcess(t *testing.T) {
	t.Parallel()

	exports := obj(
		".", obj("import", "./index.mjs", "require", "./index.cjs", "default", "./index.js"),
		"./util", "./lib/util.js",
		"./features/*", "./src/features/*.js",
		"./features/internal/*", nil,
		"./legacy/", "./old/",
		"./multi", ArrayNode(StringNode("./a.js"), obj("node", "./b.js"), StringNode("./c.js")),
		"./nested", obj("node", obj("import", "./n.mjs"), "default", "./n.js"),
		"./package.json", "./package.json",
	)
	tree := NewExportsTree(exports)

	tests := []struct {
		name       string
		key        string
		conditions []string
		want       []string
	}{
		{name: "root require", key: ".", conditions: []string{"node", "require"}, want: []string{"./index.cjs"}},
		{name: "root import", key: ".", conditions: []string{"import"}, want: []string{"./index.mjs"}},
		{name: "root default", key: ".", conditions: nil, want: []string{"./index.js"}},
		{name: "exact subpath", key: "./util", want: []string{"./lib/util.js"}},
		{name: "pattern", key: "./features/a/b", want: []string{"./src/features/a/b.js"}},
		{name: "more specific null pattern", key: "./features/internal/x", want: nil},
		{name: "legacy folder", key: "./legacy/x.js", want: []string{"./old/x.js"}},
		{name: "array with conditions", key: "./multi", conditions: []string{"node"}, want: []string{"./a.js", "./b.js", "./c.js"}},
		{name: "array skips inactive", key: "./multi", want: []string{"./a.js", "./c.js"}},
		{name: "nested falls through", key: "./nested", conditions: []string{"node"}, want: []string{"./n.js"}},
		{name: "nested matches", key: "./nested", conditions: []string{"node", "import"}, want: []string{"./n.mjs"}},
		{name: "unmapped", key: "./missing", want: nil},
		{name: "query kept", key: "./util?raw", want: []string{"./lib/util.js?raw"}},
		{name: "root query", key: "./?raw", want: []string{"./index.js?raw"}},
		{name: "fragment kept", key: "./util#top", want: []string{"./lib/util.js#top"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tree.Process(tt.key, tt.conditions)
			if err != nil {
				t.Fatalf("Process(%q) error: %v", tt.key, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Process(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestExportsSugar(t *testing.T) {
	t.Parallel()

	got, err := NewExportsTree(StringNode("./main.js")).Process(".", nil)
	if err != nil || !slices.Equal(got, []string{"./main.js"}) {
		t.Errorf("string sugar = %q, %v", got, err)
	}

	conditional := obj("browser", "./b.js", "default", "./d.js")
	got, err = NewExportsTree(conditional).Process(".", []string{"browser"})
	if err != nil || !slices.Equal(got, []string{"./b.js"}) {
		t.Errorf("conditional sugar = %q, %v", got, err)
	}

	got, err = NewExportsTree(ArrayNode(StringNode("./x.js"), StringNode("./y.js"))).Process(".", nil)
	if err != nil || !slices.Equal(got, []string{"./x.js", "./y.js"}) {
		t.Errorf("array sugar = %q, %v", got, err)
	}
}

func TestExportsPatternSpecificity(t *testing.T) {
	t.Parallel()

	tree := NewExportsTree(obj(
		"./*", "./any/*.js",
		"./a/*", "./a-dir/*.js",
		"./a/b/*", "./ab-dir/*.js",
		"./a/*.css", "./css/*.css",
	))

	tests := map[string]string{
		"./x":           "./any/x.js",
		"./a/x":         "./a-dir/x.js",
		"./a/b/x":       "./ab-dir/x.js",
		"./a/style.css": "./css/style.css",
	}
	for key, want := range tests {
		got, err := tree.Process(key, nil)
		if err != nil {
			t.Fatalf("Process(%q) error: %v", key, err)
		}
		if !slices.Equal(got, []string{want}) {
			t.Errorf("Process(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestExportsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field *Node
		key   string
		want  error
	}{
		{name: "mixed keys", field: obj("node", "./a.js", "./sub", "./b.js"), key: ".", want: ErrInvalidField},
		{name: "key without slash", field: obj(".", "./a.js", ".sub", "./b.js"), key: ".", want: ErrInvalidField},
		{name: "condition after subpath", field: obj(".", "./a.js", "node", "./b.js"), key: ".", want: ErrInvalidField},
		{name: "boolean field", field: BoolNode(true), key: ".", want: ErrInvalidField},
		{name: "request without dot", field: obj(".", "./a.js"), key: "sub", want: ErrInvalidRequest},
		{name: "directory request", field: obj("./lib/", "./lib/"), key: "./lib/", want: ErrInvalidRequest},
		{name: "target not relative", field: obj(".", "index.js"), key: ".", want: ErrInvalidTarget},
		{name: "folder mapping to file", field: obj("./lib/", "./lib.js"), key: "./lib/a.js", want: ErrInvalidTarget},
		{name: "file mapping to folder", field: obj("./a", "./a/"), key: "./a", want: ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewExportsTree(tt.field).Process(tt.key, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Process(%q) error = %v, want %v", tt.key, err, tt.want)
			}
		})
	}
}

func TestImportsProcess(t *testing.T) {
	t.Parallel()

	tree := NewImportsTree(obj(
		"#dep", obj("node", "dep-node-native", "default", "./dep-polyfill.js"),
		"#internal/*", "./src/internal/*.js",
	))

	tests := []struct {
		key        string
		conditions []string
		want       []string
	}{
		{key: "#dep", conditions: []string{"node"}, want: []string{"dep-node-native"}},
		{key: "#dep", want: []string{"./dep-polyfill.js"}},
		{key: "#internal/z", want: []string{"./src/internal/z.js"}},
		{key: "#internal/z?q", want: []string{"./src/internal/z.js?q"}},
		{key: "#missing", want: nil},
	}
	for _, tt := range tests {
		got, err := tree.Process(tt.key, tt.conditions)
		if err != nil {
			t.Fatalf("Process(%q) error: %v", tt.key, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("Process(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestImportsErrors(t *testing.T) {
	t.Parallel()

	for _, field := range []*Node{
		obj("dep", "./a.js"),
		obj("#", "./a.js"),
		obj("#/a", "./a.js"),
		StringNode("./a.js"),
	} {
		if err := NewImportsTree(field).Err(); !errors.Is(err, ErrInvalidField) {
			t.Errorf("NewImportsTree(%v).Err() = %v, want ErrInvalidField", field.Keys(), err)
		}
	}

	_, err := NewImportsTree(obj("#a", "../outside.js")).Process("#a", nil)
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("parent-relative import target error = %v, want ErrInvalidTarget", err)
	}
	_, err = NewImportsTree(obj("#a", "./a.js")).Process("a", nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("request without hash error = %v, want ErrInvalidRequest", err)
	}
}

func TestPatternKeyCompare(t *testing.T) {
	t.Parallel()

	if patternKeyCompare("", "./a/*") != 1 {
		t.Error("any key should beat the empty best match")
	}
	if patternKeyCompare("./a/*", "./a/b/*") != 1 {
		t.Error("longer prefix should win")
	}
	if patternKeyCompare("./a/b/*", "./a/*") != -1 {
		t.Error("shorter prefix should lose")
	}
	if patternKeyCompare("./a/*", "./a/*.js") != 1 {
		t.Error("longer trailer should win on equal prefix")
	}
}
