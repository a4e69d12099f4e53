package configs

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/aarondl/null/v8"
	boilertypes "github.com/aarondl/sqlboiler/v4/types"
	"github.com/goccy/go-json"
)

// Kind is the closed set of shapes a config field can take.
type Kind int

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindRecord
	KindList
	KindSet
	KindTuple
	KindMapping
	KindOptional
	KindLiteral
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindRecord:
		return "record"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindTuple:
		return "tuple"
	case KindMapping:
		return "mapping"
	case KindOptional:
		return "optional"
	case KindLiteral:
		return "literal"
	case KindAny:
		return "any"
	default:
		return "invalid"
	}
}

// Literal is implemented by types whose values are restricted to a fixed set.
// The input must equal one of the returned values exactly; no coercion is attempted.
//
//	type LogLevel string
//
//	func (LogLevel) LiteralValues() []any { return []any{"debug", "info", "warn"} }
type Literal interface {
	LiteralValues() []any
}

// Tuple marks a struct as a fixed-arity tuple. A struct embedding Tuple is filled
// positionally from a sequence: element i goes to the i-th exported field.
type Tuple struct{}

// storage describes how a converted value is placed into its Go type.
type storage int

const (
	storeDirect storage = iota
	storePointer
	storeNullable
	storeJSON
)

// Shape is the resolved structural type of a field.
type Shape struct {
	Kind  Kind
	Type  reflect.Type
	Elem  *Shape   // List, Set and Optional element; Mapping value
	Key   *Shape   // Mapping key
	Items []*Shape // Tuple elements in order

	itemIndex [][]int // struct tuples: field index per item
	literals  []any
	store     storage
}

// Literals returns the allowed values of a Literal shape.
func (s *Shape) Literals() []any { return append([]any(nil), s.literals...) }

func (s *Shape) String() string {
	switch s.Kind {
	case KindList:
		return "list[" + s.Elem.String() + "]"
	case KindSet:
		return "set[" + s.Elem.String() + "]"
	case KindOptional:
		return "optional[" + s.Elem.String() + "]"
	case KindMapping:
		return "mapping[" + s.Key.String() + "," + s.Elem.String() + "]"
	case KindTuple:
		parts := make([]string, len(s.Items))
		for i, it := range s.Items {
			parts[i] = it.String()
		}
		return "tuple[" + strings.Join(parts, ",") + "]"
	default:
		return typeName(s.Type)
	}
}

// FieldSpec describes one visible field of a record type.
type FieldSpec struct {
	Name       string // key in the raw input mapping
	GoName     string
	Index      []int
	Shape      *Shape
	HasDefault bool
	Default    string // raw `default` tag value, if any

	hasDefaultTag bool
}

// Schema is the ordered field list of a record type.
type Schema struct {
	Type   reflect.Type
	Fields []FieldSpec

	byName    map[string]int
	byGoName  map[string]int
	docsIndex []int
}

// Field returns the field spec for an input key.
func (s *Schema) Field(name string) (*FieldSpec, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.Fields[i], true
}

// Documented reports whether the record type embeds Docs.
func (s *Schema) Documented() bool { return s.docsIndex != nil }

var (
	docsType       = reflect.TypeOf(Docs{})
	tupleType      = reflect.TypeOf(Tuple{})
	literalType    = reflect.TypeOf((*Literal)(nil)).Elem()
	durationType   = reflect.TypeOf(time.Duration(0))
	timeType       = reflect.TypeOf(time.Time{})
	nullJSONType   = reflect.TypeOf(null.JSON{})
	boilerJSONType = reflect.TypeOf(boilertypes.JSON{})
	rawMessageType = reflect.TypeOf(json.RawMessage{})
)

// nullableTypes are the aarondl/null wrappers treated as Optional of their first field.
var nullableTypes = map[reflect.Type]bool{
	reflect.TypeOf(null.String{}):  true,
	reflect.TypeOf(null.Bool{}):    true,
	reflect.TypeOf(null.Int{}):     true,
	reflect.TypeOf(null.Int8{}):    true,
	reflect.TypeOf(null.Int16{}):   true,
	reflect.TypeOf(null.Int32{}):   true,
	reflect.TypeOf(null.Int64{}):   true,
	reflect.TypeOf(null.Uint{}):    true,
	reflect.TypeOf(null.Uint8{}):   true,
	reflect.TypeOf(null.Uint16{}):  true,
	reflect.TypeOf(null.Uint32{}):  true,
	reflect.TypeOf(null.Uint64{}):  true,
	reflect.TypeOf(null.Float32{}): true,
	reflect.TypeOf(null.Float64{}): true,
	reflect.TypeOf(null.Time{}):    true,
}

// SchemaOf extracts the schema of a struct type (or pointer to struct) using the
// default `config` tag and snake_case key naming.
func SchemaOf(v any) (*Schema, error) {
	return buildSchema(recordType(v), defaultTagName, SnakeCase)
}

type resolver struct {
	seen map[reflect.Type]*Shape
}

func buildSchema(t reflect.Type, tagName string, nameFn func(string) string) (*Schema, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &UnsupportedTypeError{Type: t, Reason: "config records must be structs"}
	}
	s := &Schema{Type: t, byName: make(map[string]int), byGoName: make(map[string]int)}
	r := &resolver{seen: make(map[reflect.Type]*Shape)}
	if err := r.collect(t, s, nil, tagName, nameFn); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *resolver) collect(t reflect.Type, s *Schema, prefix []int, tagName string, nameFn func(string) string) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(append([]int(nil), prefix...), i)
		name, opts := parseTag(f.Tag.Get(tagName))
		if f.Anonymous {
			switch {
			case f.Type == docsType:
				if prefix == nil {
					s.docsIndex = idx
				}
				continue
			case f.Type == tupleType:
				continue
			case f.Type.Kind() == reflect.Struct && name == "":
				if err := r.collect(f.Type, s, idx, tagName, nameFn); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() || (name == "-" && len(opts) == 0) {
			continue
		}
		if name == "" {
			name = nameFn(f.Name)
		}
		if strings.HasPrefix(name, "_") {
			continue
		}
		if _, dup := s.byName[name]; dup {
			return &UnsupportedTypeError{Type: t, Reason: fmt.Sprintf("duplicate config key %q", name)}
		}
		shape, err := r.resolve(f.Type)
		if err != nil {
			return wrapField(name, err)
		}
		def, hasDef := f.Tag.Lookup("default")
		s.byName[name] = len(s.Fields)
		s.byGoName[f.Name] = len(s.Fields)
		s.Fields = append(s.Fields, FieldSpec{
			Name:          name,
			GoName:        f.Name,
			Index:         idx,
			Shape:         shape,
			HasDefault:    hasDef || opts["optional"],
			Default:       def,
			hasDefaultTag: hasDef,
		})
	}
	return nil
}

func (r *resolver) resolve(t reflect.Type) (*Shape, error) {
	if t == nil {
		return nil, &UnsupportedTypeError{Reason: "nil type"}
	}
	if s, ok := r.seen[t]; ok {
		return s, nil
	}
	s := &Shape{Type: t}
	r.seen[t] = s

	switch {
	case t.Kind() != reflect.Ptr && t.Kind() != reflect.Interface && t.Implements(literalType):
		s.Kind = KindLiteral
		s.literals = reflect.Zero(t).Interface().(Literal).LiteralValues()
		return s, nil
	case t == nullJSONType || t == boilerJSONType || t == rawMessageType:
		s.Kind, s.store = KindAny, storeJSON
		return s, nil
	case nullableTypes[t]:
		elem, err := r.resolve(t.Field(0).Type)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Elem, s.store = KindOptional, elem, storeNullable
		return s, nil
	case t == durationType || t == timeType:
		s.Kind = KindPrimitive
		return s, nil
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		s.Kind = KindPrimitive
	case reflect.Struct:
		if !embedsTuple(t) {
			// Records resolve lazily through the schema cache.
			s.Kind = KindRecord
			return s, nil
		}
		s.Kind = KindTuple
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Type == tupleType || !f.IsExported() {
				continue
			}
			item, err := r.resolve(f.Type)
			if err != nil {
				return nil, err
			}
			s.Items = append(s.Items, item)
			s.itemIndex = append(s.itemIndex, f.Index)
		}
	case reflect.Array:
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		s.Kind = KindTuple
		s.Items = make([]*Shape, t.Len())
		for i := range s.Items {
			s.Items[i] = elem
		}
	case reflect.Slice:
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		s.Kind, s.Elem = KindList, elem
	case reflect.Map:
		key, err := r.resolve(t.Key())
		if err != nil {
			return nil, err
		}
		if key.Kind != KindPrimitive && key.Kind != KindLiteral {
			return nil, &UnsupportedTypeError{Type: t, Reason: "map keys must be primitive"}
		}
		if ev := t.Elem(); ev.Kind() == reflect.Struct && ev.NumField() == 0 {
			s.Kind, s.Elem = KindSet, key
			return s, nil
		}
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		s.Kind, s.Key, s.Elem = KindMapping, key, elem
	case reflect.Ptr:
		elem, err := r.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		s.Kind, s.Elem, s.store = KindOptional, elem, storePointer
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return nil, &UnsupportedTypeError{Type: t, Reason: "only empty interfaces accept arbitrary values"}
		}
		s.Kind = KindAny
	default:
		return nil, &UnsupportedTypeError{Type: t}
	}
	return s, nil
}

func embedsTuple(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.Anonymous && f.Type == tupleType {
			return true
		}
	}
	return false
}

func parseTag(tag string) (string, map[string]bool) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	var opts map[string]bool
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			if opts == nil {
				opts = make(map[string]bool)
			}
			opts[p] = true
		}
	}
	return strings.TrimSpace(parts[0]), opts
}

// SnakeCase converts a Go identifier to its snake_case config key (HTTPPort -> http_port).
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
