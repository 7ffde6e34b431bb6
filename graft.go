package envgraft

import (
	"reflect"

	"github.com/croback/envgraft/internal/envkey"
)

// graftStruct walks field descriptors in declaration order and overwrites
// fields of dst for which the snapshot holds a derived variable. dst starts
// as a deep copy of the template, so absent variables retain defaults by
// construction. The first coercion failure aborts the whole walk.
func graftStruct(fields []Field, prefix, fieldPath string, dst reflect.Value, snap map[string]string, prov *[]FieldProvenance) error {
	for i := range fields {
		f := fields[i]

		key := envkey.Join(prefix, f.Name)
		path := f.GoName
		if fieldPath != "" {
			path = fieldPath + "." + f.GoName
		}
		fv := dst.Field(f.Index)

		if f.Kind == KindStruct {
			if err := graftNested(&f, key, path, fv, snap, prov); err != nil {
				return err
			}
			continue
		}

		raw, ok := snap[key]
		if !ok {
			*prov = append(*prov, FieldProvenance{FieldPath: path})
			continue
		}

		// An empty value clears a pointer field back to nil.
		if f.Ptr && raw == "" {
			fv.Set(reflect.Zero(fv.Type()))
			*prov = append(*prov, FieldProvenance{FieldPath: path, Var: key})
			continue
		}

		var val reflect.Value
		var err error
		switch f.Kind {
		case KindSequence, KindMapping:
			val, err = coerceContainer(&f, path, raw)
		default:
			val, err = coerceScalar(&f, path, raw)
		}
		if err != nil {
			return err
		}

		if f.Ptr {
			p := reflect.New(f.Type)
			p.Elem().Set(val)
			fv.Set(p)
		} else {
			fv.Set(val)
		}
		*prov = append(*prov, FieldProvenance{FieldPath: path, Var: key})
	}

	return nil
}

// graftNested recurses into a nested record with an extended prefix. A nil
// pointer field is grafted through a temporary zero value and stays nil
// unless some nested variable actually set a field.
func graftNested(f *Field, key, path string, fv reflect.Value, snap map[string]string, prov *[]FieldProvenance) error {
	if !f.Ptr {
		return graftStruct(f.Fields, key, path, fv, snap, prov)
	}

	if !fv.IsNil() {
		return graftStruct(f.Fields, key, path, fv.Elem(), snap, prov)
	}

	tmp := reflect.New(f.Type)
	before := len(*prov)
	if err := graftStruct(f.Fields, key, path, tmp.Elem(), snap, prov); err != nil {
		return err
	}
	for _, p := range (*prov)[before:] {
		if p.Var != "" {
			fv.Set(tmp)
			return nil
		}
	}
	return nil
}

// deepCopy copies src into the settable, same-typed dst so that the result
// shares no mutable memory with the caller's template. Unexported fields
// are not copied; they are invisible to loading anyway.
func deepCopy(dst, src reflect.Value) {
	switch src.Kind() {
	case reflect.Ptr:
		if src.IsNil() {
			return
		}
		dst.Set(reflect.New(src.Type().Elem()))
		deepCopy(dst.Elem(), src.Elem())

	case reflect.Slice:
		if src.IsNil() {
			return
		}
		dst.Set(reflect.MakeSlice(src.Type(), src.Len(), src.Len()))
		for i := 0; i < src.Len(); i++ {
			deepCopy(dst.Index(i), src.Index(i))
		}

	case reflect.Array:
		for i := 0; i < src.Len(); i++ {
			deepCopy(dst.Index(i), src.Index(i))
		}

	case reflect.Map:
		if src.IsNil() {
			return
		}
		dst.Set(reflect.MakeMapWithSize(src.Type(), src.Len()))
		iter := src.MapRange()
		for iter.Next() {
			val := reflect.New(src.Type().Elem()).Elem()
			deepCopy(val, iter.Value())
			dst.SetMapIndex(iter.Key(), val)
		}

	case reflect.Struct:
		for i := 0; i < src.NumField(); i++ {
			if dst.Field(i).CanSet() {
				deepCopy(dst.Field(i), src.Field(i))
			}
		}

	default:
		dst.Set(src)
	}
}
