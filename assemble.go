package configs

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
)

// Defaulter is implemented by records that fill their own defaults. SetDefaults runs on
// the fresh instance after `default` tags are applied and before input fields are stored.
type Defaulter interface {
	SetDefaults()
}

// PostIniter is the post-construction lifecycle hook. PostInit runs once the record is
// fully assembled and its field docs are attached.
type PostIniter interface {
	PostInit() error
}

// Into converts raw into the struct pointed to by dst. raw must be a mapping.
// dst is only written when the whole record converts; there is no partial success.
func (c *Converter) Into(dst any, raw any) (err error) {
	if dst == nil {
		return fmt.Errorf("dst must not be nil")
	}
	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("dst must be a non-nil pointer, got %T", dst)
	}
	ev := dv.Elem()
	if ev.Kind() != reflect.Struct {
		return fmt.Errorf("dst must point to a struct, got %T", dst)
	}
	m, ok := asMapping(raw)
	if !ok {
		return &TypeMismatchError{Expected: "a mapping", Got: kindOf(raw)}
	}

	defer func() {
		if r := recover(); r != nil {
			err = &InternalError{Err: fmt.Errorf("converting %s: %v", typeName(ev.Type()), r)}
		}
	}()

	rec, err := c.assemble(m, ev.Type(), 0)
	if err != nil {
		return err
	}
	if sv := c.options.StructValidator; sv != nil {
		if err := sv.Struct(rec.Addr().Interface()); err != nil {
			return fmt.Errorf("validating %s: %w", typeName(ev.Type()), err)
		}
	}
	ev.Set(rec)
	return nil
}

// assemble builds one record of type t from an input mapping.
func (c *Converter) assemble(m map[string]any, t reflect.Type, depth int) (reflect.Value, error) {
	if depth > c.options.MaxDepth {
		return reflect.Value{}, ErrMaxDepth
	}
	schema, err := c.schemaFor(t)
	if err != nil {
		return reflect.Value{}, err
	}
	rec := reflect.New(t).Elem()
	if err := c.applyDefaults(rec, schema, m, depth); err != nil {
		return reflect.Value{}, err
	}

	for i := range schema.Fields {
		f := &schema.Fields[i]
		raw, present := m[f.Name]
		if !present {
			if f.HasDefault {
				c.options.Logger.Debug("config field absent, keeping default", "type", typeName(t), "field", f.Name)
				continue
			}
			return reflect.Value{}, &MissingFieldError{Field: f.Name}
		}
		v, err := c.convertField(raw, f, t, depth)
		if err != nil {
			return reflect.Value{}, wrapField(f.Name, err)
		}
		field := rec.FieldByIndex(f.Index)
		field.Set(v)
		if err := c.runValidators(field, f.Name, t); err != nil {
			return reflect.Value{}, wrapField(f.Name, err)
		}
	}

	if err := c.finish(rec, schema); err != nil {
		return reflect.Value{}, err
	}
	return rec, nil
}

// applyDefaults plays the role of the record's constructor: `default` tags first, then SetDefaults.
// Tags of keys present in m are not used and are not converted.
func (c *Converter) applyDefaults(rec reflect.Value, schema *Schema, m map[string]any, depth int) error {
	for i := range schema.Fields {
		f := &schema.Fields[i]
		if !f.hasDefaultTag {
			continue
		}
		if _, present := m[f.Name]; present {
			continue
		}
		var raw any = f.Default
		if !textTarget(f.Shape) {
			if err := json.Unmarshal([]byte(f.Default), &raw); err != nil {
				raw = f.Default
			}
		}
		v, err := c.convert(raw, f.Shape, depth+1)
		if err != nil {
			return wrapField(f.Name, fmt.Errorf("default %q: %w", f.Default, err))
		}
		rec.FieldByIndex(f.Index).Set(v)
	}
	if d, ok := rec.Addr().Interface().(Defaulter); ok {
		d.SetDefaults()
	}
	return nil
}

// textTarget reports whether a default tag is taken as plain text instead of JSON:
// string primitives and literals, optionally wrapped.
func textTarget(s *Shape) bool {
	for s.Kind == KindOptional {
		s = s.Elem
	}
	return (s.Kind == KindPrimitive || s.Kind == KindLiteral) && s.Type.Kind() == reflect.String
}

func (c *Converter) convertField(raw any, f *FieldSpec, record reflect.Type, depth int) (reflect.Value, error) {
	reg := c.converters.Load().(*registry[ConverterFunc])
	fn, ok := reg.lookup(record, f.Name)
	if !ok || fn == nil {
		return c.convert(raw, f.Shape, depth+1)
	}
	out, err := fn(raw)
	if err != nil {
		return reflect.Value{}, &ConversionError{From: kindOf(raw), To: typeName(f.Shape.Type), Value: raw, Cause: err}
	}
	if cv := reflect.ValueOf(out); cv.IsValid() && cv.Type() == f.Shape.Type {
		return cv, nil
	}
	return c.convert(out, f.Shape, depth+1)
}

func (c *Converter) runValidators(field reflect.Value, key string, record reflect.Type) error {
	reg := c.validators.Load().(*registry[ValidatorFunc])
	fn, ok := reg.lookup(record, key)
	if !ok || fn == nil {
		return nil
	}
	return fn(field.Interface())
}

// finish runs the post-construction lifecycle: field docs, then PostInit.
func (c *Converter) finish(rec reflect.Value, schema *Schema) error {
	if schema.Documented() {
		docs, err := c.fieldDocs(schema)
		if err != nil {
			var sv *StructuralViolationError
			if errors.As(err, &sv) {
				return err
			}
			return &InternalError{Err: fmt.Errorf("field docs for %s: %w", typeName(schema.Type), err)}
		}
		rec.FieldByIndex(schema.docsIndex).Addr().Interface().(*Docs).set(docs)
	}
	if h, ok := rec.Addr().Interface().(PostIniter); ok {
		if err := h.PostInit(); err != nil {
			return fmt.Errorf("%s.PostInit: %w", typeName(schema.Type), err)
		}
	}
	return nil
}
