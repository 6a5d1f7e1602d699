// FILE: layerconf/builder_test.go
package layerconf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLayout drops the fixtures into a fresh temp dir and returns it.
func writeLayout(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, files)
	return dir
}

func TestBuilderBuild(t *testing.T) {
	t.Run("NameRequired", func(t *testing.T) {
		_, err := NewBuilder().WithRoot(t.TempDir()).Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("MasterOnly", func(t *testing.T) {
		dir := writeLayout(t, map[string]string{
			"app.json": `{"port": 8080}`,
		})

		cfg, err := NewBuilder().WithRoot(dir).WithName("app").Build()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"port": float64(8080)}, cfg.Map())
	})

	t.Run("EnvironmentLayer", func(t *testing.T) {
		dir := writeLayout(t, map[string]string{
			"app.json":      `{"mode": "default", "port": 8080}`,
			"app.prod.json": `{"mode": "production"}`,
		})

		cfg, err := NewBuilder().
			WithRoot(dir).
			WithName("app").
			WithEnvironment("prod").
			Build()
		require.NoError(t, err)

		mode, err := cfg.String("mode")
		require.NoError(t, err)
		assert.Equal(t, "production", mode)
	})

	t.Run("StrictMerge", func(t *testing.T) {
		dir := writeLayout(t, map[string]string{
			"app.json":       `{"known": 1}`,
			"app.local.json": `{"known": 2, "unknown": 3}`,
		})

		cfg, err := NewBuilder().
			WithRoot(dir).
			WithName("app").
			WithMerge(MergeExisting).
			Build()
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"known": float64(2)}, cfg.Map())
	})

	t.Run("ValidatorPasses", func(t *testing.T) {
		dir := writeLayout(t, map[string]string{
			"app.json": `{"port": 8080}`,
		})

		called := false
		cfg, err := NewBuilder().
			WithRoot(dir).
			WithName("app").
			WithValidator(func(c *Config) error {
				called = true
				_, err := c.Int64("port")
				return err
			}).
			Build()
		require.NoError(t, err)
		assert.True(t, called)
		assert.False(t, cfg.IsEmpty())
	})

	t.Run("ValidatorFails", func(t *testing.T) {
		dir := writeLayout(t, map[string]string{
			"app.json": `{}`,
		})

		boom := errors.New("port is mandatory")
		_, err := NewBuilder().
			WithRoot(dir).
			WithName("app").
			WithValidator(func(c *Config) error { return boom }).
			Build()
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})

	t.Run("ValidatorsRunInOrder", func(t *testing.T) {
		dir := writeLayout(t, map[string]string{
			"app.json": `{}`,
		})

		var order []int
		_, err := NewBuilder().
			WithRoot(dir).
			WithName("app").
			WithValidator(func(c *Config) error { order = append(order, 1); return nil }).
			WithValidator(func(c *Config) error { order = append(order, 2); return errors.New("stop") }).
			WithValidator(func(c *Config) error { order = append(order, 3); return nil }).
			Build()
		require.Error(t, err)
		assert.Equal(t, []int{1, 2}, order)
	})

	t.Run("NilMergeKeepsDefault", func(t *testing.T) {
		dir := writeLayout(t, map[string]string{
			"app.json":       `{"a": 1}`,
			"app.local.json": `{"b": 2}`,
		})

		cfg, err := NewBuilder().
			WithRoot(dir).
			WithName("app").
			WithMerge(nil).
			Build()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": float64(1), "b": float64(2)}, cfg.Map())
	})
}

func TestBuilderMustBuild(t *testing.T) {
	t.Run("Succeeds", func(t *testing.T) {
		dir := writeLayout(t, map[string]string{
			"app.json": `{"ok": true}`,
		})

		cfg := NewBuilder().WithRoot(dir).WithName("app").MustBuild()
		assert.False(t, cfg.IsEmpty())
	})

	t.Run("PanicsOnError", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().WithRoot(t.TempDir()).MustBuild()
		})
	})
}

func TestBuilderBuildAndScan(t *testing.T) {
	dir := writeLayout(t, map[string]string{
		"app.json":       `{"server": {"host": "localhost", "port": 8080}}`,
		"app.local.json": `{"server": {"port": 9090}}`,
	})

	var target struct {
		Server struct {
			Host string `json:"host"`
			Port int    `json:"port"`
		} `json:"server"`
	}
	require.NoError(t, NewBuilder().WithRoot(dir).WithName("app").BuildAndScan(&target))

	assert.Equal(t, "localhost", target.Server.Host)
	assert.Equal(t, 9090, target.Server.Port)
}

func TestBuilderWithScriptLoader(t *testing.T) {
	dir := writeLayout(t, map[string]string{
		"app.json":     `{"source": "data"}`,
		"app.local.js": `export default {source: "script"}`,
	})

	cfg, err := NewBuilder().
		WithRoot(dir).
		WithName("app").
		WithScriptLoader(func(path string, data []byte) (map[string]any, error) {
			return map[string]any{"source": "script"}, nil
		}).
		Build()
	require.NoError(t, err)

	source, err := cfg.String("source")
	require.NoError(t, err)
	assert.Equal(t, "script", source)
}
