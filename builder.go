package configs

// Builder provides a fluent API to construct a Converter with options, converters and validators pre-registered.
type Builder struct {
	opts  []Option
	convs *registry[ConverterFunc]
	vals  *registry[ValidatorFunc]
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{convs: newRegistry[ConverterFunc](), vals: newRegistry[ValidatorFunc]()}
}

// WithOptions appends converter options to the builder.
func (b *Builder) WithOptions(opts ...Option) *Builder { b.opts = append(b.opts, opts...); return b }

// AddConverter registers a global converter by config key.
func (b *Builder) AddConverter(key string, fn ConverterFunc) *Builder {
	b.convs.global[key] = fn
	return b
}

// AddConverterFor registers a converter for a record type and config key.
func (b *Builder) AddConverterFor(record any, key string, fn ConverterFunc) *Builder {
	b.convs.setFor(recordType(record), key, fn)
	return b
}

// AddValidator registers a global validator by config key.
func (b *Builder) AddValidator(key string, fn ValidatorFunc) *Builder {
	b.vals.global[key] = fn
	return b
}

// AddValidatorFor registers a validator for a record type and config key.
func (b *Builder) AddValidatorFor(record any, key string, fn ValidatorFunc) *Builder {
	b.vals.setFor(recordType(record), key, fn)
	return b
}

// Warm lists record types whose schemas Build pre-computes.
func (b *Builder) Warm(records ...any) *Builder {
	for _, r := range records {
		t := recordType(r)
		b.opts = append(b.opts, func(o *Options) { o.warm = append(o.warm, t) })
	}
	return b
}

// Build constructs a Converter using a single registry swap for converters and validators.
// It fails if a warmed record type has an invalid schema.
func (b *Builder) Build() (*Converter, error) {
	c := NewWithOptions(b.opts...)
	// Seed registries in one shot to avoid many copy-on-write swaps.
	c.converters.Store(b.convs.clone())
	c.validators.Store(b.vals.clone())
	for _, t := range c.options.warm {
		if _, err := c.schemaFor(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustBuild is Build for package-level converters; it panics on error.
func (b *Builder) MustBuild() *Converter {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
