package configs

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aarondl/null/v8"
	"github.com/goccy/go-json"

	"github.com/Station-Manager/configs/converters"
)

// convert turns one raw value into a value of s.Type following the shape rules.
func (c *Converter) convert(raw any, s *Shape, depth int) (reflect.Value, error) {
	if depth > c.options.MaxDepth {
		return reflect.Value{}, ErrMaxDepth
	}
	switch s.Kind {
	case KindRecord:
		m, ok := asMapping(raw)
		if !ok {
			return reflect.Value{}, &TypeMismatchError{Expected: "a mapping for " + typeName(s.Type), Got: kindOf(raw)}
		}
		return c.assemble(m, s.Type, depth+1)
	case KindList:
		return c.convertList(raw, s, depth)
	case KindSet:
		return c.convertSet(raw, s, depth)
	case KindTuple:
		return c.convertTuple(raw, s, depth)
	case KindMapping:
		return c.convertMapping(raw, s, depth)
	case KindOptional:
		return c.convertOptional(raw, s, depth)
	case KindLiteral:
		return convertLiteral(raw, s)
	case KindAny:
		return convertAny(raw, s)
	case KindPrimitive:
		return convertPrimitive(raw, s.Type)
	default:
		return reflect.Value{}, &UnsupportedTypeError{Type: s.Type}
	}
}

func (c *Converter) convertList(raw any, s *Shape, depth int) (reflect.Value, error) {
	items, ok := asSequence(raw)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Expected: "a list for " + s.String(), Got: kindOf(raw)}
	}
	out := reflect.MakeSlice(s.Type, len(items), len(items))
	for i, item := range items {
		v, err := c.convert(item, s.Elem, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

// convertSet only accepts sequences; mappings and prebuilt sets are rejected.
func (c *Converter) convertSet(raw any, s *Shape, depth int) (reflect.Value, error) {
	items, ok := asSequence(raw)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Expected: "a list for " + s.String(), Got: kindOf(raw)}
	}
	out := reflect.MakeMapWithSize(s.Type, len(items))
	present := reflect.New(s.Type.Elem()).Elem()
	for _, item := range items {
		k, err := c.convert(item, s.Elem, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, present)
	}
	return out, nil
}

func (c *Converter) convertTuple(raw any, s *Shape, depth int) (reflect.Value, error) {
	items, ok := asSequence(raw)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Expected: "a list for " + s.String(), Got: kindOf(raw)}
	}
	if len(items) != len(s.Items) {
		return reflect.Value{}, &TypeMismatchError{
			Expected: fmt.Sprintf("%d items for %s", len(s.Items), s.String()),
			Got:      fmt.Sprintf("%d", len(items)),
		}
	}
	out := reflect.New(s.Type).Elem()
	for i, item := range items {
		v, err := c.convert(item, s.Items[i], depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		if s.itemIndex != nil {
			out.FieldByIndex(s.itemIndex[i]).Set(v)
		} else {
			out.Index(i).Set(v)
		}
	}
	return out, nil
}

func (c *Converter) convertMapping(raw any, s *Shape, depth int) (reflect.Value, error) {
	m, ok := asMapping(raw)
	if !ok {
		return reflect.Value{}, &TypeMismatchError{Expected: "a mapping for " + s.String(), Got: kindOf(raw)}
	}
	out := reflect.MakeMapWithSize(s.Type, len(m))
	for _, key := range sortedKeys(m) {
		k, err := c.convert(key, s.Key, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := c.convert(m[key], s.Elem, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, v)
	}
	return out, nil
}

func (c *Converter) convertOptional(raw any, s *Shape, depth int) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(s.Type), nil
	}
	v, err := c.convert(raw, s.Elem, depth+1)
	if err != nil {
		return reflect.Value{}, err
	}
	switch s.store {
	case storeNullable:
		out := reflect.New(s.Type).Elem()
		out.Field(0).Set(v)
		out.FieldByName("Valid").SetBool(true)
		return out, nil
	default:
		p := reflect.New(s.Type.Elem())
		p.Elem().Set(v)
		return p, nil
	}
}

func convertLiteral(raw any, s *Shape) (reflect.Value, error) {
	for _, allowed := range s.literals {
		if literalEqual(raw, allowed) {
			av := reflect.ValueOf(allowed)
			if av.Type() == s.Type {
				return av, nil
			}
			if av.Type().ConvertibleTo(s.Type) {
				return av.Convert(s.Type), nil
			}
			return reflect.Value{}, &UnsupportedTypeError{Type: s.Type, Reason: fmt.Sprintf("literal value %v does not fit", allowed)}
		}
	}
	return reflect.Value{}, &ConversionError{From: kindOf(raw), To: typeName(s.Type), Value: raw, Allowed: s.Literals()}
}

// literalEqual compares strings with strings and bools with bools. Numbers compare by
// value across integer and float kinds (3.0 equals 3); "3" never equals 3.
func literalEqual(raw, allowed any) bool {
	rv, av := reflect.ValueOf(raw), reflect.ValueOf(allowed)
	if !rv.IsValid() || !av.IsValid() {
		return !rv.IsValid() && !av.IsValid()
	}
	rk, ak := kindClass(rv.Kind()), kindClass(av.Kind())
	if isNumberClass(rk) && isNumberClass(ak) {
		return numberEqual(raw, allowed)
	}
	switch {
	case rk != ak:
		return false
	case rk == "string":
		return rv.String() == av.String()
	case rk == "bool":
		return rv.Bool() == av.Bool()
	}
	return false
}

func isNumberClass(class string) bool { return class == "int" || class == "float" }

func numberEqual(a, b any) bool {
	ai, aerr := converters.ToInt64(a)
	bi, berr := converters.ToInt64(b)
	if aerr == nil && berr == nil {
		return ai == bi
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if kindClass(av.Kind()) == "int" && kindClass(bv.Kind()) == "int" {
		// both unsigned and beyond int64
		return av.Kind() >= reflect.Uint && bv.Kind() >= reflect.Uint && av.Uint() == bv.Uint()
	}
	af, aerr := converters.ToFloat64(a)
	bf, berr := converters.ToFloat64(b)
	return aerr == nil && berr == nil && af == bf
}

func convertAny(raw any, s *Shape) (reflect.Value, error) {
	if s.store == storeJSON {
		if raw == nil && s.Type == nullJSONType {
			return reflect.Zero(s.Type), nil
		}
		b, err := json.Marshal(raw)
		if err != nil {
			return reflect.Value{}, &ConversionError{From: kindOf(raw), To: typeName(s.Type), Value: raw, Cause: err}
		}
		if s.Type == nullJSONType {
			return reflect.ValueOf(null.JSONFrom(b)), nil
		}
		return reflect.ValueOf(b).Convert(s.Type), nil
	}
	out := reflect.New(s.Type).Elem()
	if raw != nil {
		out.Set(reflect.ValueOf(raw))
	}
	return out, nil
}

// convertPrimitive is the identity short-circuit followed by the explicit primitive table.
func convertPrimitive(raw any, t reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)
	if rv.IsValid() && rv.Type() == t {
		return rv, nil
	}
	out := reflect.New(t).Elem()
	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, &ConversionError{From: kindOf(raw), To: typeName(t), Kind: t.Kind(), Value: raw, Cause: err}
	}

	switch t {
	case durationType:
		d, err := converters.ToDuration(raw)
		if err != nil {
			return fail(err)
		}
		out.SetInt(int64(d))
		return out, nil
	case timeType:
		tm, err := converters.ToTime(raw)
		if err != nil {
			return fail(err)
		}
		out.Set(reflect.ValueOf(tm))
		return out, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		b, err := converters.ToBool(raw)
		if err != nil {
			return fail(err)
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := converters.ToInt64(raw)
		if err != nil {
			return fail(err)
		}
		if out.OverflowInt(n) {
			return fail(fmt.Errorf("%d overflows %s", n, t))
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := converters.ToUint64(raw)
		if err != nil {
			return fail(err)
		}
		if out.OverflowUint(n) {
			return fail(fmt.Errorf("%d overflows %s", n, t))
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := converters.ToFloat64(raw)
		if err != nil {
			return fail(err)
		}
		if out.OverflowFloat(f) {
			return fail(fmt.Errorf("%g overflows %s", f, t))
		}
		out.SetFloat(f)
	case reflect.String:
		str, err := converters.ToString(raw)
		if err != nil {
			return fail(err)
		}
		out.SetString(str)
	default:
		return reflect.Value{}, &UnsupportedTypeError{Type: t}
	}
	return out, nil
}

// asMapping accepts any map value; non-string keys are rendered with fmt.
func asMapping(raw any) (map[string]any, bool) {
	if m, ok := raw.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			k = k.Elem()
		}
		key := fmt.Sprint(k.Interface())
		if k.Kind() == reflect.String {
			key = k.String()
		}
		out[key] = iter.Value().Interface()
	}
	return out, true
}

// asSequence accepts slices and arrays, excluding strings.
func asSequence(raw any) ([]any, bool) {
	if s, ok := raw.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func kindClass(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Map:
		return "mapping"
	case reflect.Slice, reflect.Array:
		return "list"
	}
	return ""
}

// kindOf names the runtime kind of a raw value for error messages.
func kindOf(raw any) string {
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() {
		return "null"
	}
	if k := kindClass(rv.Kind()); k != "" {
		return k
	}
	return fmt.Sprintf("%T", raw)
}
