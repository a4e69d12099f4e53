package configs

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_ConverterRecordScopePrecedence(t *testing.T) {
	c, err := NewBuilder().
		AddConverter("name", MapString(strings.ToUpper)).                // global
		AddConverterFor(adminConfig{}, "name", MapString(strings.ToLower)). // record wins
		Build()
	require.NoError(t, err)

	a, err := AssembleTo[adminConfig](c, map[string]any{"name": "MiXeD"})
	require.NoError(t, err)
	assert.Equal(t, "mixed", a.Name)

	u, err := AssembleTo[userConfig](c, map[string]any{"name": "MiXeD", "email": "e"})
	require.NoError(t, err)
	assert.Equal(t, "MIXED", u.Name)
}

func TestBuilder_Validators(t *testing.T) {
	notEmpty := func(v any) error {
		if v.(string) == "" {
			return errors.New("empty")
		}
		return nil
	}
	c := NewBuilder().
		AddValidator("email", notEmpty).
		AddValidatorFor(adminConfig{}, "name", notEmpty).
		MustBuild()

	_, err := AssembleTo[userConfig](c, map[string]any{"name": "", "email": ""})
	assert.EqualError(t, err, "failed to convert field 'email': empty")

	_, err = AssembleTo[adminConfig](c, map[string]any{"name": ""})
	assert.EqualError(t, err, "failed to convert field 'name': empty")
}

func TestBuilder_RegistriesIndependentOfBuilder(t *testing.T) {
	b := NewBuilder().AddConverter("name", MapString(strings.ToUpper))
	c := b.MustBuild()
	b.AddConverter("name", MapString(strings.ToLower))

	a, err := AssembleTo[adminConfig](c, map[string]any{"name": "MiXeD"})
	require.NoError(t, err)
	assert.Equal(t, "MIXED", a.Name)
}

func TestBuilder_WarmFailsOnBadSchema(t *testing.T) {
	type bad struct {
		C chan int `config:"c"`
	}
	_, err := NewBuilder().Warm(scenarioConfig{}, &bad{}).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	assert.Panics(t, func() { NewBuilder().Warm(bad{}).MustBuild() })
}

func TestBuilder_WarmLogsSchema(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := NewBuilder().WithOptions(WithLogger(logger)).Warm(scenarioConfig{}).Build()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "built config schema")
	assert.Contains(t, buf.String(), "type=scenarioConfig")
}

func TestWarmSchema(t *testing.T) {
	c := New()
	require.NoError(t, c.WarmSchema(scenarioConfig{}, &userConfig{}, nil))

	_, ok := c.schemas.Load(recordType(scenarioConfig{}))
	assert.True(t, ok)
	_, ok = c.schemas.Load(recordType(userConfig{}))
	assert.True(t, ok)
}

func TestNewWithOptions_Defaults(t *testing.T) {
	c := NewWithOptions(WithTagName(""), WithNameFunc(nil), WithMaxDepth(-1))
	assert.Equal(t, defaultTagName, c.options.TagName)
	assert.NotNil(t, c.options.NameFunc)
	assert.Equal(t, defaultMaxDepth, c.options.MaxDepth)
	assert.NotNil(t, c.options.Logger)
	assert.IsType(t, PackageSource{}, c.options.Sources)
}

func TestWithStructValidator(t *testing.T) {
	type server struct {
		Host string `config:"host" validate:"required,hostname"`
		Port int    `config:"port" validate:"min=1,max=65535"`
	}
	c := NewWithOptions(WithStructValidator(validator.New()))

	cfg, err := Make[server](c, map[string]any{"host": "example.com", "port": "443"})
	require.NoError(t, err)
	assert.Equal(t, 443, cfg.Port)

	var dst server
	err = c.Into(&dst, map[string]any{"host": "example.com", "port": 70000})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Port", verrs[0].Field())
	assert.Equal(t, server{}, dst)

	// without the option validate tags are ignored
	_, err = Make[server](New(), map[string]any{"host": "example.com", "port": 70000})
	assert.NoError(t, err)
}
