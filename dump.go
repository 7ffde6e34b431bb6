package envgraft

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/croback/envgraft/internal/envkey"
)

// DumpEnv writes a record as environment variable assignments, one
// "KEY=value" line per leaf field. The output round-trips through Load:
// containers render as YAML flow literals and nil pointer fields render as
// empty values.
func DumpEnv[T any](w io.Writer, prefix string, cfg *T) error {
	if cfg == nil {
		return ErrNilTemplate
	}
	if strings.TrimSpace(prefix) == "" {
		return ErrEmptyPrefix
	}

	fields, err := Describe(cfg)
	if err != nil {
		return err
	}

	root := strings.ToUpper(strings.TrimSpace(prefix))
	return dumpFields(w, fields, root, reflect.ValueOf(cfg).Elem())
}

// VarNames lists every variable name Load would derive for a record type,
// in declaration order. Useful for generating usage documentation.
func VarNames[T any](prefix string, template *T) ([]string, error) {
	if template == nil {
		return nil, ErrNilTemplate
	}
	if strings.TrimSpace(prefix) == "" {
		return nil, ErrEmptyPrefix
	}

	fields, err := Describe(template)
	if err != nil {
		return nil, err
	}

	var names []string
	collectVarNames(fields, strings.ToUpper(strings.TrimSpace(prefix)), &names)
	return names, nil
}

func collectVarNames(fields []Field, prefix string, names *[]string) {
	for i := range fields {
		f := fields[i]
		key := envkey.Join(prefix, f.Name)
		if f.Kind == KindStruct {
			collectVarNames(f.Fields, key, names)
			continue
		}
		*names = append(*names, key)
	}
}

func dumpFields(w io.Writer, fields []Field, prefix string, v reflect.Value) error {
	for i := range fields {
		f := fields[i]
		key := envkey.Join(prefix, f.Name)
		fv := v.Field(f.Index)

		if f.Ptr {
			if fv.IsNil() {
				if f.Kind == KindStruct {
					continue
				}
				if _, err := fmt.Fprintf(w, "%s=\n", key); err != nil {
					return err
				}
				continue
			}
			fv = fv.Elem()
		}

		if f.Kind == KindStruct {
			if err := dumpFields(w, f.Fields, key, fv); err != nil {
				return err
			}
			continue
		}

		text, err := renderValue(&f, fv)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, text); err != nil {
			return err
		}
	}

	return nil
}

// renderValue formats a leaf value the way Load expects to read it back.
func renderValue(f *Field, v reflect.Value) (string, error) {
	switch f.Kind {
	case KindString:
		return v.String(), nil
	case KindBool:
		return strconv.FormatBool(v.Bool()), nil
	case KindInt:
		return strconv.FormatInt(v.Int(), 10), nil
	case KindUint:
		return strconv.FormatUint(v.Uint(), 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, f.Type.Bits()), nil
	case KindDuration:
		return time.Duration(v.Int()).String(), nil
	case KindSequence, KindMapping:
		return renderFlow(f, v)
	default:
		return "", &UnsupportedShapeError{FieldPath: f.GoName, Type: f.Type}
	}
}

// renderFlow encodes a container as a single-line YAML flow literal.
func renderFlow(f *Field, v reflect.Value) (string, error) {
	var node yaml.Node
	if err := node.Encode(exportValue(f, v)); err != nil {
		return "", err
	}
	setFlowStyle(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// exportValue converts a value into plain Go data for YAML encoding, with
// durations rendered in their textual form.
func exportValue(f *Field, v reflect.Value) any {
	switch f.Kind {
	case KindDuration:
		return time.Duration(v.Int()).String()
	case KindSequence:
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = exportValue(f.Elem, v.Index(i))
		}
		return out
	case KindMapping:
		out := make(map[any]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[exportValue(f.Key, iter.Key())] = exportValue(f.Elem, iter.Value())
		}
		return out
	default:
		return v.Interface()
	}
}

func setFlowStyle(n *yaml.Node) {
	n.Style = yaml.FlowStyle
	for _, c := range n.Content {
		setFlowStyle(c)
	}
}
