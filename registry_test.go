package configs

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userConfig struct {
	Name  string `config:"name"`
	Email string `config:"email"`
}

type adminConfig struct {
	Name string `config:"name"`
}

func TestRegisterConverter_GlobalAndRecordScope(t *testing.T) {
	c := New()
	c.RegisterConverter("name", MapString(strings.ToUpper))
	c.RegisterConverterFor(adminConfig{}, "name", MapString(strings.ToLower))

	u, err := AssembleTo[userConfig](c, map[string]any{"name": "MiXeD", "email": "e"})
	require.NoError(t, err)
	assert.Equal(t, "MIXED", u.Name)

	a, err := AssembleTo[adminConfig](c, map[string]any{"name": "MiXeD"})
	require.NoError(t, err)
	assert.Equal(t, "mixed", a.Name)
}

func TestRegisterConverter_OutputGoesThroughShape(t *testing.T) {
	type timed struct {
		Timeout time.Duration `config:"timeout"`
		Port    int           `config:"port"`
	}
	c := New()
	// seconds given as a bare number
	c.RegisterConverter("timeout", func(raw any) (any, error) {
		if n, ok := raw.(int); ok {
			return time.Duration(n) * time.Second, nil
		}
		return raw, nil
	})
	c.RegisterConverter("port", func(raw any) (any, error) {
		if s, ok := raw.(string); ok {
			return strings.TrimPrefix(s, ":"), nil
		}
		return raw, nil
	})

	cfg, err := Make[timed](c, map[string]any{"timeout": 5, "port": ":8080"})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 8080, cfg.Port)

	cfg, err = Make[timed](c, map[string]any{"timeout": "1m", "port": 1})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestRegisterConverter_ErrorIsConversionFailure(t *testing.T) {
	c := New()
	cause := errors.New("not allowed")
	c.RegisterConverter("email", func(any) (any, error) { return nil, cause })

	_, err := AssembleTo[userConfig](c, map[string]any{"name": "n", "email": "e"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConversion)
	assert.ErrorIs(t, err, cause)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "email", fe.Field)
}

func TestRegisterConverter_NilResultForOptional(t *testing.T) {
	type opt struct {
		Value *int `config:"value"`
	}
	c := New()
	c.RegisterConverter("value", func(any) (any, error) { return nil, nil })

	cfg, err := Make[opt](c, map[string]any{"value": 42})
	require.NoError(t, err)
	assert.Nil(t, cfg.Value)
}

func TestRegisterValidator(t *testing.T) {
	c := New()
	c.RegisterValidator("email", func(v any) error {
		if !strings.Contains(v.(string), "@") {
			return errors.New("invalid email")
		}
		return nil
	})

	_, err := AssembleTo[userConfig](c, map[string]any{"name": "n", "email": "a@b"})
	require.NoError(t, err)

	_, err = AssembleTo[userConfig](c, map[string]any{"name": "n", "email": "nope"})
	require.Error(t, err)
	assert.EqualError(t, err, "failed to convert field 'email': invalid email")
}

func TestRegisterValidatorFor_OnlyScopedRecord(t *testing.T) {
	c := New()
	c.RegisterValidatorFor(&adminConfig{}, "name", func(v any) error {
		if v.(string) != "root" {
			return errors.New("admin must be root")
		}
		return nil
	})

	_, err := AssembleTo[userConfig](c, map[string]any{"name": "bob", "email": "e"})
	require.NoError(t, err)

	_, err = AssembleTo[adminConfig](c, map[string]any{"name": "bob"})
	assert.Error(t, err)
	_, err = AssembleTo[adminConfig](c, map[string]any{"name": "root"})
	assert.NoError(t, err)
}

func TestComposeConverters(t *testing.T) {
	fn := ComposeConverters(MapString(strings.TrimSpace), MapString(strings.ToUpper))
	out, err := fn("  abc ")
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)

	out, err = fn(7)
	require.NoError(t, err)
	assert.Equal(t, 7, out)

	called := false
	stop := ComposeConverters(
		func(any) (any, error) { return nil, nil },
		func(v any) (any, error) { called = true; return v, nil },
	)
	out, err = stop("x")
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.False(t, called)

	boom := errors.New("boom")
	_, err = ComposeConverters(func(any) (any, error) { return nil, boom })("x")
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	r := newRegistry[ConverterFunc]()
	r.global["a"] = MapString(strings.ToUpper)
	r.setFor(recordType(userConfig{}), "name", MapString(strings.ToLower))

	cp := r.clone()
	cp.global["b"] = MapString(strings.ToLower)
	cp.setFor(recordType(userConfig{}), "email", MapString(strings.ToLower))

	assert.Len(t, r.global, 1)
	assert.Len(t, r.byRecord[recordType(userConfig{})], 1)

	_, ok := cp.lookup(recordType(adminConfig{}), "a")
	assert.True(t, ok)
	_, ok = cp.lookup(recordType(adminConfig{}), "name")
	assert.False(t, ok)
}
