package envgraft

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scalarField(t *testing.T, template any) *Field {
	t.Helper()
	fields, err := Describe(template)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	return &fields[0]
}

func TestCoerceScalar(t *testing.T) {
	tests := []struct {
		name     string
		template any
		raw      string
		want     any
	}{
		{"string verbatim", &struct{ V string }{}, "hello world", "hello world"},
		{"string with yaml syntax kept raw", &struct{ V string }{}, "[not, parsed]", "[not, parsed]"},
		{"bool true", &struct{ V bool }{}, "true", true},
		{"bool false", &struct{ V bool }{}, "false", false},
		{"int", &struct{ V int }{}, "42", int(42)},
		{"negative int", &struct{ V int64 }{}, "-7", int64(-7)},
		{"int8 boundary", &struct{ V int8 }{}, "127", int8(127)},
		{"uint", &struct{ V uint16 }{}, "65535", uint16(65535)},
		{"float", &struct{ V float64 }{}, "-3.1415", float64(-3.1415)},
		{"duration", &struct{ V time.Duration }{}, "1m30s", 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := scalarField(t, tt.template)
			got, err := coerceScalar(f, "V", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestCoerceScalar_Failures(t *testing.T) {
	tests := []struct {
		name     string
		template any
		raw      string
		expected Kind
	}{
		{"not a number", &struct{ V int }{}, "notanumber", KindInt},
		{"int overflow", &struct{ V int8 }{}, "128", KindInt},
		{"uint negative", &struct{ V uint }{}, "-1", KindUint},
		{"float garbage", &struct{ V float32 }{}, "1.2.3", KindFloat},
		{"bool garbage", &struct{ V bool }{}, "yep", KindBool},
		{"duration garbage", &struct{ V time.Duration }{}, "30 parsecs", KindDuration},
		{"empty int", &struct{ V int }{}, "", KindInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := scalarField(t, tt.template)
			_, err := coerceScalar(f, "V", tt.raw)

			var cerr *CoercionError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "V", cerr.FieldPath)
			assert.Equal(t, tt.raw, cerr.Raw)
			assert.Equal(t, tt.expected, cerr.Expected)
		})
	}
}

func TestCoerceContainer_Sequences(t *testing.T) {
	t.Run("ints", func(t *testing.T) {
		f := scalarField(t, &struct{ V []int }{})
		got, err := coerceContainer(f, "V", "[1, 2, 3]")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got.Interface())
	})

	t.Run("strings with quoting", func(t *testing.T) {
		f := scalarField(t, &struct{ V []string }{})
		got, err := coerceContainer(f, "V", `[plain, "quoted, with comma", 'single']`)
		require.NoError(t, err)
		assert.Equal(t, []string{"plain", "quoted, with comma", "single"}, got.Interface())
	})

	t.Run("empty sequence", func(t *testing.T) {
		f := scalarField(t, &struct{ V []int }{})
		got, err := coerceContainer(f, "V", "[]")
		require.NoError(t, err)
		assert.Equal(t, []int{}, got.Interface())
	})

	t.Run("fixed-size array", func(t *testing.T) {
		f := scalarField(t, &struct{ V [3]uint }{})
		got, err := coerceContainer(f, "V", "[1, 1, 5]")
		require.NoError(t, err)
		assert.Equal(t, [3]uint{1, 1, 5}, got.Interface())
	})

	t.Run("array length mismatch", func(t *testing.T) {
		f := scalarField(t, &struct{ V [3]uint }{})
		_, err := coerceContainer(f, "V", "[1, 2]")
		var cerr *CoercionError
		require.ErrorAs(t, err, &cerr)
	})

	t.Run("nested sequences", func(t *testing.T) {
		f := scalarField(t, &struct{ V [][]int }{})
		got, err := coerceContainer(f, "V", "[[1, 2], [3]]")
		require.NoError(t, err)
		assert.Equal(t, [][]int{{1, 2}, {3}}, got.Interface())
	})

	t.Run("element coercion failure names element", func(t *testing.T) {
		f := scalarField(t, &struct{ V []int }{})
		_, err := coerceContainer(f, "V", "[1, oops, 3]")

		var cerr *CoercionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "V[1]", cerr.FieldPath)
		assert.Equal(t, "oops", cerr.Raw)
	})
}

func TestCoerceContainer_Mappings(t *testing.T) {
	t.Run("string to int", func(t *testing.T) {
		f := scalarField(t, &struct{ V map[string]int }{})
		got, err := coerceContainer(f, "V", "{a: 1, b: 2}")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, got.Interface())
	})

	t.Run("entry order does not matter", func(t *testing.T) {
		f := scalarField(t, &struct{ V map[string]int }{})
		forward, err := coerceContainer(f, "V", "{a: 1, b: 2}")
		require.NoError(t, err)
		backward, err := coerceContainer(f, "V", "{b: 2, a: 1}")
		require.NoError(t, err)
		assert.Equal(t, forward.Interface(), backward.Interface())
	})

	t.Run("int keys", func(t *testing.T) {
		f := scalarField(t, &struct{ V map[int]string }{})
		got, err := coerceContainer(f, "V", "{1: one, 2: two}")
		require.NoError(t, err)
		assert.Equal(t, map[int]string{1: "one", 2: "two"}, got.Interface())
	})

	t.Run("empty mapping", func(t *testing.T) {
		f := scalarField(t, &struct{ V map[string]int }{})
		got, err := coerceContainer(f, "V", "{}")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{}, got.Interface())
	})

	t.Run("duplicate key", func(t *testing.T) {
		f := scalarField(t, &struct{ V map[string]int }{})
		_, err := coerceContainer(f, "V", "{a: 1, a: 2}")

		var derr *DuplicateKeyError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "V", derr.FieldPath)
		assert.Equal(t, "a", derr.Key)
	})

	t.Run("value coercion failure", func(t *testing.T) {
		f := scalarField(t, &struct{ V map[string]int }{})
		_, err := coerceContainer(f, "V", "{a: notanumber}")

		var cerr *CoercionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "V[a]", cerr.FieldPath)
	})

	t.Run("key coercion failure", func(t *testing.T) {
		f := scalarField(t, &struct{ V map[int]string }{})
		_, err := coerceContainer(f, "V", "{notanumber: x}")

		var cerr *CoercionError
		require.ErrorAs(t, err, &cerr)
	})
}

func TestCoerceContainer_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		template any
		raw      string
	}{
		{"missing brackets", &struct{ V []int }{}, "1, 2, 3"},
		{"unbalanced sequence", &struct{ V []int }{}, "[1, 2, 3"},
		{"unbalanced mapping", &struct{ V map[string]int }{}, "{a: 1"},
		{"mapping syntax for sequence", &struct{ V []int }{}, "{a: 1}"},
		{"sequence syntax for mapping", &struct{ V map[string]int }{}, "[1, 2]"},
		{"empty value", &struct{ V []int }{}, ""},
		{"whitespace only", &struct{ V map[string]int }{}, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := scalarField(t, tt.template)
			_, err := coerceContainer(f, "V", tt.raw)

			var merr *MalformedContainerError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, "V", merr.FieldPath)
			assert.Equal(t, tt.raw, merr.Raw)
		})
	}
}

func TestCoerceContainer_SequenceInsideMappingValue(t *testing.T) {
	f := scalarField(t, &struct{ V map[string][]int }{})
	got, err := coerceContainer(f, "V", "{a: [1, 2], b: []}")
	require.NoError(t, err)
	assert.Equal(t, map[string][]int{"a": {1, 2}, "b": {}}, got.Interface())
}

func TestCoerceScalar_TypeIsConcrete(t *testing.T) {
	f := scalarField(t, &struct{ V int32 }{})
	got, err := coerceScalar(f, "V", "9")
	require.NoError(t, err)
	require.Equal(t, reflect.Int32, got.Kind())
}

func TestCoerceContainer_ScalarWhereContainerExpected(t *testing.T) {
	// A flow literal holding the wrong shape inside the right brackets.
	f := scalarField(t, &struct{ V []int }{})
	_, err := coerceContainer(f, "V", "[[1], 2]")
	require.Error(t, err)
	var cerr *CoercionError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CoercionError, got %T", err)
	}
}
