// SPDX-License-Identifier: MPL-2.0

package fieldmap

const (
	// KindNull is a JSON null.
	KindNull Kind = iota
	// KindBool is a JSON boolean.
	KindBool
	// KindNumber is a JSON number.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is a JSON array.
	KindArray
	// KindObject is a JSON object with ordered fields.
	KindObject
)

type (
	// Kind is the JSON type of a Node.
	Kind int

	// Node is an ordered JSON value.
	Node struct {
		Kind   Kind
		String string
		Bool   bool
		Number string
		Items  []*Node
		Fields []Field
	}

	// Field is one key/value pair of an object Node.
	Field struct {
		Key   string
		Value *Node
	}
)

// String returns the JSON type name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// StringNode returns a string node.
func StringNode(s string) *Node { return &Node{Kind: KindString, String: s} }

// NullNode returns a null node.
func NullNode() *Node { return &Node{Kind: KindNull} }

// BoolNode returns a boolean node.
func BoolNode(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

// ArrayNode returns an array node.
func ArrayNode(items ...*Node) *Node { return &Node{Kind: KindArray, Items: items} }

// ObjectNode returns an object node with fields in the given order.
func ObjectNode(fields ...Field) *Node { return &Node{Kind: KindObject, Fields: fields} }

// Get returns the value of key in an object node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindObject {
		return nil, false
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the object keys in declaration order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindObject {
		return nil
	}
	keys := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		keys[i] = f.Key
	}
	return keys
}

// IsObject reports whether n is an object node.
func (n *Node) IsObject() bool { return n != nil && n.Kind == KindObject }
