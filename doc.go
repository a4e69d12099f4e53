// Package configs converts loosely structured data into typed configuration structs.
//
// A document decoder (TOML, JSON, YAML) produces a raw value tree of maps, slices
// and scalars. The Converter walks a target struct's declared field types and coerces
// the tree into it, recursing into nested structs.
//
// Basic Usage
//
//	raw, err := configs.LoadFile("bot.toml")
//	cfg, err := configs.FromRaw[BotConfig](raw)
//
// # Field Keys
//
// Each exported field is read from the input key given by its `config` tag, or the
// snake_case form of its Go name when the tag has no name:
//
//	type BotConfig struct {
//	    Nickname  string              `config:"nickname"`
//	    MaxTokens int                 // key "max_tokens"
//	    Secret    string              `config:"-"` // never read
//	    Aliases   map[string]struct{} `config:",optional"`
//	    Timeout   time.Duration       `default:"30s"`
//	}
//
// Keys starting with an underscore are never read either. A field is required unless
// it has a `default` tag or the `optional` tag option; a missing required field is a
// *MissingFieldError.
//
// # Shapes
//
// Field types resolve to one of a closed set of shapes:
//   - bool, integers, floats, strings, time.Duration, time.Time: primitives
//   - structs: nested records (input must be a mapping)
//   - []T: list; map[K]struct{}: set; map[K]V: mapping
//   - [N]T and structs embedding Tuple: fixed-arity tuples
//   - *T and github.com/aarondl/null wrappers: optional (null input gives nil / invalid)
//   - types implementing Literal: a fixed set of allowed values
//   - any, null.JSON, sqlboiler types.JSON, json.RawMessage: anything, unchecked
//
// Primitives are coerced through an explicit table (see package converters):
// "40" becomes 40 for an int field and "true"/"1"/"false"/"0" become bools. Pairs not
// in the table fail with a *ConversionError.
//
// # Errors
//
// Errors crossing a field boundary are wrapped in *FieldError, so messages read as a
// path ("field 'server' has a type error: field 'port' has a type error: ...").
// Use errors.Is with ErrMissingField, ErrTypeMismatch, ErrUnsupportedType,
// ErrConversion, ErrStructuralViolation or ErrInternal to classify them.
//
// # Field Docs
//
// Structs embedding Docs get their field comments attached after conversion, read
// from the declaring source file through a SourceProvider.
//
// # Thread Safety
//
// The Converter is safe for concurrent use. Registries are copy-on-write and schemas
// and field docs are cached per type.
package configs
