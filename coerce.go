package envgraft

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// coerceScalar parses a raw string into a value of the field's scalar type.
// Parsing is strict: overflow, trailing garbage, and wrong literals all fail
// with CoercionError.
func coerceScalar(f *Field, path, raw string) (reflect.Value, error) {
	out := reflect.New(f.Type).Elem()

	switch f.Kind {
	case KindString:
		// Raw value used verbatim, no parsing.
		out.SetString(raw)

	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, &CoercionError{FieldPath: path, Raw: raw, Expected: KindBool, cause: err}
		}
		out.SetBool(b)

	case KindInt:
		n, err := strconv.ParseInt(raw, 10, f.Type.Bits())
		if err != nil {
			return reflect.Value{}, &CoercionError{FieldPath: path, Raw: raw, Expected: KindInt, cause: err}
		}
		out.SetInt(n)

	case KindUint:
		n, err := strconv.ParseUint(raw, 10, f.Type.Bits())
		if err != nil {
			return reflect.Value{}, &CoercionError{FieldPath: path, Raw: raw, Expected: KindUint, cause: err}
		}
		out.SetUint(n)

	case KindFloat:
		n, err := strconv.ParseFloat(raw, f.Type.Bits())
		if err != nil {
			return reflect.Value{}, &CoercionError{FieldPath: path, Raw: raw, Expected: KindFloat, cause: err}
		}
		out.SetFloat(n)

	case KindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return reflect.Value{}, &CoercionError{FieldPath: path, Raw: raw, Expected: KindDuration, cause: err}
		}
		out.SetInt(int64(d))

	default:
		return reflect.Value{}, &CoercionError{
			FieldPath: path, Raw: raw, Expected: f.Kind,
			cause: fmt.Errorf("not a scalar kind"),
		}
	}

	return out, nil
}

// coerceContainer parses a raw string as a YAML flow literal and coerces it
// into the field's sequence or mapping type. The value must use flow syntax:
// "[e1, e2]" for sequences, "{k1: v1}" for mappings.
func coerceContainer(f *Field, path, raw string) (reflect.Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return reflect.Value{}, &MalformedContainerError{FieldPath: path, Raw: raw}
	}

	opening, closing := "[", "]"
	if f.Kind == KindMapping {
		opening, closing = "{", "}"
	}
	if !strings.HasPrefix(trimmed, opening) || !strings.HasSuffix(trimmed, closing) {
		return reflect.Value{}, &MalformedContainerError{FieldPath: path, Raw: raw}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(trimmed), &doc); err != nil {
		return reflect.Value{}, &MalformedContainerError{FieldPath: path, Raw: raw, cause: err}
	}
	if len(doc.Content) != 1 {
		return reflect.Value{}, &MalformedContainerError{FieldPath: path, Raw: raw}
	}

	return coerceNode(f, path, raw, doc.Content[0])
}

// coerceNode converts a parsed YAML node into a value of the field's type,
// recursing element-wise for containers.
func coerceNode(f *Field, path, raw string, n *yaml.Node) (reflect.Value, error) {
	switch f.Kind {
	case KindSequence:
		return coerceSequenceNode(f, path, raw, n)
	case KindMapping:
		return coerceMappingNode(f, path, raw, n)
	default:
		if n.Kind != yaml.ScalarNode {
			return reflect.Value{}, &CoercionError{
				FieldPath: path, Raw: raw, Expected: f.Kind,
				cause: fmt.Errorf("expected scalar, found %s", nodeKindName(n.Kind)),
			}
		}
		return coerceScalar(f, path, n.Value)
	}
}

func coerceSequenceNode(f *Field, path, raw string, n *yaml.Node) (reflect.Value, error) {
	if n.Kind != yaml.SequenceNode {
		return reflect.Value{}, &CoercionError{
			FieldPath: path, Raw: raw, Expected: KindSequence,
			cause: fmt.Errorf("expected sequence, found %s", nodeKindName(n.Kind)),
		}
	}

	if f.Type.Kind() == reflect.Array && len(n.Content) != f.Type.Len() {
		return reflect.Value{}, &CoercionError{
			FieldPath: path, Raw: raw, Expected: KindSequence,
			cause: fmt.Errorf("expected %d elements, found %d", f.Type.Len(), len(n.Content)),
		}
	}

	var out reflect.Value
	if f.Type.Kind() == reflect.Array {
		out = reflect.New(f.Type).Elem()
	} else {
		out = reflect.MakeSlice(f.Type, len(n.Content), len(n.Content))
	}

	for i, elem := range n.Content {
		ev, err := coerceNode(f.Elem, fmt.Sprintf("%s[%d]", path, i), elemRaw(elem, raw), elem)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}

	return out, nil
}

func coerceMappingNode(f *Field, path, raw string, n *yaml.Node) (reflect.Value, error) {
	if n.Kind != yaml.MappingNode {
		return reflect.Value{}, &CoercionError{
			FieldPath: path, Raw: raw, Expected: KindMapping,
			cause: fmt.Errorf("expected mapping, found %s", nodeKindName(n.Kind)),
		}
	}

	out := reflect.MakeMapWithSize(f.Type, len(n.Content)/2)
	seen := make(map[string]struct{}, len(n.Content)/2)

	// Mapping node content alternates key, value, key, value.
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode {
			return reflect.Value{}, &CoercionError{
				FieldPath: path, Raw: raw, Expected: f.Key.Kind,
				cause: fmt.Errorf("expected scalar key, found %s", nodeKindName(keyNode.Kind)),
			}
		}
		if _, dup := seen[keyNode.Value]; dup {
			return reflect.Value{}, &DuplicateKeyError{FieldPath: path, Key: keyNode.Value}
		}
		seen[keyNode.Value] = struct{}{}

		kv, err := coerceScalar(f.Key, path, keyNode.Value)
		if err != nil {
			return reflect.Value{}, err
		}
		vv, err := coerceNode(f.Elem, fmt.Sprintf("%s[%s]", path, keyNode.Value), elemRaw(valNode, raw), valNode)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(kv, vv)
	}

	return out, nil
}

// elemRaw picks the most precise raw text to report for a container
// element: the scalar's own literal when available, otherwise the whole
// container literal.
func elemRaw(n *yaml.Node, containerRaw string) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return containerRaw
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}
