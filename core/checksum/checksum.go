package checksum

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// mod is the accumulator modulus (Mersenne prime 2^31-1).
const mod = 2147483647

// precision is the number of decimal places numbers are canonicalized to.
// Offsets differing by less than this are considered equal content.
const precision = 4

// Token computes the structural checksum of v.
// Equal content yields equal tokens regardless of map or struct field order.
func Token(v any) uint64 {
	return Sum([]byte(Canonical(v)))
}

// Sum runs the two-accumulator checksum over raw bytes.
func Sum(data []byte) uint64 {
	var s1, s2 uint64
	for _, b := range data {
		s1 = (s1 + uint64(b)) % mod
		s2 = (s2 + s1) % mod
	}
	return s2<<31 | s1
}

// Canonical serializes v into its canonical string form.
func Canonical(v any) string {
	var sb strings.Builder
	writeCanonical(&sb, reflect.ValueOf(v))
	return sb.String()
}

// FormatNumber renders a float in the canonical fixed-precision form used by
// the token computation: four decimals, trailing zeros and dot trimmed.
func FormatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', precision, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" || s == "-0" {
		s = "0"
	}
	return s
}

func writeCanonical(sb *strings.Builder, rv reflect.Value) {
	if !rv.IsValid() {
		sb.WriteString("nil")
		return
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			sb.WriteString("nil")
			return
		}
		writeCanonical(sb, rv.Elem())

	case reflect.String:
		sb.WriteString(strconv.Quote(rv.String()))

	case reflect.Bool:
		if rv.Bool() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}

	case reflect.Float32, reflect.Float64:
		sb.WriteString(FormatNumber(rv.Float()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sb.WriteString(FormatNumber(float64(rv.Int())))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sb.WriteString(FormatNumber(float64(rv.Uint())))

	case reflect.Slice, reflect.Array:
		sb.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, rv.Index(i))
		}
		sb.WriteByte(']')

	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		values := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			values[k] = iter.Value()
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			writeCanonical(sb, values[k])
		}
		sb.WriteByte('}')

	case reflect.Struct:
		type field struct {
			name  string
			value reflect.Value
		}
		t := rv.Type()
		fields := make([]field, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			fv := rv.Field(i)
			// A nil pointer field means "inherit"; treat it like a missing
			// map key so struct and map forms canonicalize identically.
			if fv.Kind() == reflect.Ptr && fv.IsNil() {
				continue
			}
			fields = append(fields, field{name: f.Name, value: fv})
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })
		sb.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(f.name))
			sb.WriteByte(':')
			writeCanonical(sb, f.value)
		}
		sb.WriteByte('}')

	default:
		sb.WriteString(strconv.Quote(fmt.Sprint(rv.Interface())))
	}
}
