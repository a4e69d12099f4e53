package configs

import (
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
)

// ConverterFunc pre-processes the raw value of a field before shape conversion.
// It is registered by config key. When it returns a value of the field's exact Go
// type that value is stored as is; otherwise the result goes through the field's shape.
type ConverterFunc func(raw any) (any, error)

// ValidatorFunc validates a field value after it has been converted.
type ValidatorFunc func(value any) error

// ComposeConverters chains multiple ConverterFunc instances left-to-right.
// If any converter returns an error it aborts.
// Nil output propagates immediately.
func ComposeConverters(fns ...ConverterFunc) ConverterFunc {
	return func(src any) (any, error) {
		cur := src
		for _, fn := range fns {
			out, err := fn(cur)
			if err != nil {
				return nil, err
			}
			if out == nil {
				return nil, nil
			}
			cur = out
		}
		return cur, nil
	}
}

// MapString returns a ConverterFunc applying f when src is a string; otherwise returns src unchanged.
func MapString(f func(string) string) ConverterFunc {
	return func(src any) (any, error) {
		if s, ok := src.(string); ok {
			return f(s), nil
		}
		return src, nil
	}
}

const (
	defaultTagName  = "config"
	defaultMaxDepth = 64
)

type Options struct {
	TagName         string              // struct tag holding the config key and options
	NameFunc        func(string) string // key for fields without a tag name
	MaxDepth        int                 // maximum record/collection nesting
	Sources         SourceProvider      // declaration source for documented records
	Logger          *slog.Logger
	StructValidator *validator.Validate // optional `validate` tag check after assembly

	warm []reflect.Type
}

type Option func(*Options)

func WithTagName(name string) Option             { return func(o *Options) { o.TagName = name } }
func WithNameFunc(fn func(string) string) Option { return func(o *Options) { o.NameFunc = fn } }
func WithMaxDepth(n int) Option                  { return func(o *Options) { o.MaxDepth = n } }
func WithSourceProvider(p SourceProvider) Option { return func(o *Options) { o.Sources = p } }
func WithLogger(l *slog.Logger) Option           { return func(o *Options) { o.Logger = l } }
func WithStructValidator(v *validator.Validate) Option {
	return func(o *Options) { o.StructValidator = v }
}

// registry stores per-key functions globally and per record type; swapped atomically (copy-on-write).
type registry[F any] struct {
	global   map[string]F
	byRecord map[reflect.Type]map[string]F
}

func newRegistry[F any]() *registry[F] {
	return &registry[F]{global: make(map[string]F), byRecord: make(map[reflect.Type]map[string]F)}
}

func (r *registry[F]) clone() *registry[F] {
	out := &registry[F]{
		global:   make(map[string]F, len(r.global)+1),
		byRecord: make(map[reflect.Type]map[string]F, len(r.byRecord)+1),
	}
	for k, v := range r.global {
		out.global[k] = v
	}
	for t, m := range r.byRecord {
		sub := make(map[string]F, len(m))
		for k, v := range m {
			sub[k] = v
		}
		out.byRecord[t] = sub
	}
	return out
}

func (r *registry[F]) setFor(t reflect.Type, key string, fn F) {
	m := r.byRecord[t]
	if m == nil {
		m = make(map[string]F)
		r.byRecord[t] = m
	}
	m[key] = fn
}

// lookup applies precedence record > global.
func (r *registry[F]) lookup(t reflect.Type, key string) (F, bool) {
	if fn, ok := r.byRecord[t][key]; ok {
		return fn, true
	}
	fn, ok := r.global[key]
	return fn, ok
}

// Converter turns raw value trees into config structs.
// It is safe for concurrent use: registries are copy-on-write and schemas and
// field docs are cached per type.
type Converter struct {
	converters atomic.Value // holds *registry[ConverterFunc]
	validators atomic.Value // holds *registry[ValidatorFunc]
	schemas    sync.Map     // map[reflect.Type]*Schema
	docs       sync.Map     // map[reflect.Type]map[string]string
	mu         sync.Mutex   // serialises registry writers
	options    Options
}

// New creates a Converter with default options.
func New() *Converter { return NewWithOptions() }

// NewWithOptions creates a new Converter with provided options.
func NewWithOptions(opts ...Option) *Converter {
	o := Options{TagName: defaultTagName, NameFunc: SnakeCase, MaxDepth: defaultMaxDepth}
	for _, f := range opts {
		f(&o)
	}
	if o.TagName == "" {
		o.TagName = defaultTagName
	}
	if o.NameFunc == nil {
		o.NameFunc = SnakeCase
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
	if o.Sources == nil {
		o.Sources = PackageSource{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	c := &Converter{options: o}
	c.converters.Store(newRegistry[ConverterFunc]())
	c.validators.Store(newRegistry[ValidatorFunc]())
	return c
}

// RegisterConverter adds a converter for a config key in any record type.
func (c *Converter) RegisterConverter(key string, fn ConverterFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reg := c.converters.Load().(*registry[ConverterFunc]).clone()
	reg.global[key] = fn
	c.converters.Store(reg)
}

// RegisterConverterFor adds a converter scoped to one record type; it takes precedence over global ones.
func (c *Converter) RegisterConverterFor(record any, key string, fn ConverterFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reg := c.converters.Load().(*registry[ConverterFunc]).clone()
	reg.setFor(recordType(record), key, fn)
	c.converters.Store(reg)
}

// RegisterValidator adds a validator for a config key in any record type.
func (c *Converter) RegisterValidator(key string, fn ValidatorFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reg := c.validators.Load().(*registry[ValidatorFunc]).clone()
	reg.global[key] = fn
	c.validators.Store(reg)
}

// RegisterValidatorFor adds a validator scoped to one record type.
func (c *Converter) RegisterValidatorFor(record any, key string, fn ValidatorFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reg := c.validators.Load().(*registry[ValidatorFunc]).clone()
	reg.setFor(recordType(record), key, fn)
	c.validators.Store(reg)
}

// WarmSchema pre-builds schemas for provided example values (pass either a value or a *T or T).
// The first schema error is returned.
func (c *Converter) WarmSchema(examples ...any) error {
	for _, e := range examples {
		if e == nil {
			continue
		}
		if _, err := c.schemaFor(recordType(e)); err != nil {
			return err
		}
	}
	return nil
}

// Schema returns the cached schema of a record type.
func (c *Converter) Schema(record any) (*Schema, error) {
	return c.schemaFor(recordType(record))
}

func (c *Converter) schemaFor(t reflect.Type) (*Schema, error) {
	if cached, ok := c.schemas.Load(t); ok {
		return cached.(*Schema), nil
	}
	s, err := buildSchema(t, c.options.TagName, c.options.NameFunc)
	if err != nil {
		return nil, err
	}
	c.options.Logger.Debug("built config schema", "type", typeName(t), "fields", len(s.Fields))
	actual, _ := c.schemas.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

func recordType(v any) reflect.Type {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
