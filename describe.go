package envgraft

import (
	"reflect"
	"time"

	"github.com/croback/envgraft/internal/envkey"
)

// Kind classifies the shape of a field. The set is closed: coercion
// dispatches exhaustively over it, and anything outside it is rejected at
// describe time with UnsupportedShapeError.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt
	KindUint
	KindFloat
	KindDuration
	KindSequence
	KindMapping
	KindStruct
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindString:   "string",
	KindBool:     "bool",
	KindInt:      "int",
	KindUint:     "uint",
	KindFloat:    "float",
	KindDuration: "duration",
	KindSequence: "sequence",
	KindMapping:  "mapping",
	KindStruct:   "struct",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Field describes one declared field of a record: its derived key segment,
// its shape, and how to reach it.
type Field struct {
	Name   string // Key segment used to derive the variable name
	GoName string // Go field name, used in dot-notation error paths
	Index  int    // Field index within the enclosing struct
	Kind   Kind
	Type   reflect.Type // Concrete Go type of the field (pointer stripped)
	Ptr    bool         // Field is declared as a pointer to Type

	Key    *Field  // Mapping key shape (KindMapping only)
	Elem   *Field  // Sequence element / mapping value shape
	Fields []Field // Nested descriptors (KindStruct only)
}

var durationType = reflect.TypeOf(time.Duration(0))

// Describe walks a record template and returns one descriptor per declared
// field, in declaration order, recursing into nested structs. The template
// must be a struct or pointer to struct; anything else is an
// UnsupportedShapeError. Describe reads only the template's type, never its
// values.
func Describe(template any) ([]Field, error) {
	if template == nil {
		return nil, ErrNilTemplate
	}

	t := reflect.TypeOf(template)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &UnsupportedShapeError{Type: t}
	}

	return describeStruct(t, "")
}

// describeStruct produces descriptors for every exported, non-skipped field
// of a struct type. fieldPath is the dot-notation path of the enclosing
// struct, empty at the top level.
func describeStruct(t reflect.Type, fieldPath string) ([]Field, error) {
	fields := make([]Field, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, ok := envkey.FieldName(sf)
		if !ok {
			continue
		}

		path := sf.Name
		if fieldPath != "" {
			path = fieldPath + "." + sf.Name
		}

		f, err := describeField(sf.Type, path)
		if err != nil {
			return nil, err
		}
		f.Name = name
		f.GoName = sf.Name
		f.Index = i
		fields = append(fields, f)
	}

	return fields, nil
}

// describeField classifies a single field type. Pointer types are described
// by their element shape with Ptr set; double pointers are unsupported.
func describeField(t reflect.Type, path string) (Field, error) {
	f := Field{Type: t}

	if t.Kind() == reflect.Ptr {
		f.Ptr = true
		t = t.Elem()
		f.Type = t
		if t.Kind() == reflect.Ptr {
			return Field{}, &UnsupportedShapeError{FieldPath: path, Type: t}
		}
	}

	if k, ok := scalarKind(t); ok {
		f.Kind = k
		return f, nil
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		elem, err := describeElem(t.Elem(), path)
		if err != nil {
			return Field{}, err
		}
		f.Kind = KindSequence
		f.Elem = elem
		return f, nil

	case reflect.Map:
		key, err := describeMapKey(t.Key(), path)
		if err != nil {
			return Field{}, err
		}
		elem, err := describeElem(t.Elem(), path)
		if err != nil {
			return Field{}, err
		}
		f.Kind = KindMapping
		f.Key = key
		f.Elem = elem
		return f, nil

	case reflect.Struct:
		nested, err := describeStruct(t, path)
		if err != nil {
			return Field{}, err
		}
		f.Kind = KindStruct
		f.Fields = nested
		return f, nil

	default:
		return Field{}, &UnsupportedShapeError{FieldPath: path, Type: t}
	}
}

// describeElem classifies a container element shape. Elements may be
// scalars or further containers; structs inside containers have no
// addressable variable name and are rejected.
func describeElem(t reflect.Type, path string) (*Field, error) {
	f := Field{Type: t}

	if k, ok := scalarKind(t); ok {
		f.Kind = k
		return &f, nil
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		elem, err := describeElem(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		f.Kind = KindSequence
		f.Elem = elem
		return &f, nil

	case reflect.Map:
		key, err := describeMapKey(t.Key(), path)
		if err != nil {
			return nil, err
		}
		elem, err := describeElem(t.Elem(), path)
		if err != nil {
			return nil, err
		}
		f.Kind = KindMapping
		f.Key = key
		f.Elem = elem
		return &f, nil

	default:
		return nil, &UnsupportedShapeError{FieldPath: path, Type: t}
	}
}

// describeMapKey classifies a mapping key shape. Keys must be scalar.
func describeMapKey(t reflect.Type, path string) (*Field, error) {
	k, ok := scalarKind(t)
	if !ok {
		return nil, &UnsupportedShapeError{FieldPath: path, Type: t}
	}
	return &Field{Kind: k, Type: t}, nil
}

// scalarKind maps a Go type to its scalar Kind, if it has one.
// time.Duration is matched before the generic int64 case.
func scalarKind(t reflect.Type) (Kind, bool) {
	if t == durationType {
		return KindDuration, true
	}

	switch t.Kind() {
	case reflect.String:
		return KindString, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, true
	case reflect.Float32, reflect.Float64:
		return KindFloat, true
	default:
		return KindInvalid, false
	}
}
