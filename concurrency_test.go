package configs

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterConverter_ConcurrentReadWrite(t *testing.T) {
	t.Parallel()
	c := New()
	c.RegisterConverter("name", MapString(strings.ToUpper))

	raw := map[string]any{"name": "john", "email": "j@x"}

	var start sync.WaitGroup
	start.Add(1)

	readers := runtime.GOMAXPROCS(0) * 2
	var wg sync.WaitGroup
	wg.Add(readers)
	var failures atomic.Int64
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			start.Wait()
			for j := 0; j < 200; j++ {
				cfg, err := AssembleTo[userConfig](c, raw)
				if err != nil || (cfg.Name != "JOHN" && cfg.Name != "john!") {
					failures.Add(1)
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		start.Wait()
		for j := 0; j < 50; j++ {
			c.RegisterConverter(fmt.Sprintf("unused_%d", j), MapString(strings.TrimSpace))
			c.RegisterValidator(fmt.Sprintf("unused_%d", j), func(any) error { return nil })
		}
		c.RegisterConverter("name", MapString(func(s string) string { return s + "!" }))
	}()

	start.Done()
	wg.Wait()
	assert.Zero(t, failures.Load())

	cfg, err := AssembleTo[userConfig](c, raw)
	require.NoError(t, err)
	assert.Equal(t, "john!", cfg.Name)
}

func TestSchemaAndDocsCache_Concurrent(t *testing.T) {
	t.Parallel()
	c := docsConverter()
	raw := map[string]any{"x": 1, "y": "v", "z": true}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := AssembleTo[documentedConfig](c, raw)
			if err == nil && cfg.FieldDocs()["x"] != "doc for x" {
				err = fmt.Errorf("unexpected docs %v", cfg.FieldDocs())
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
