package env_test

import (
	"testing"
	"time"

	"github.com/SnapScribe/app/internal/pkg/env"
	"github.com/stretchr/testify/assert"
)

func TestRequireString(t *testing.T) {
	t.Setenv("TEST_REQUIRED_STRING", "required_value")
	assert.Equal(t, "required_value", env.RequireString("TEST_REQUIRED_STRING"))
}

func TestRequireString_Panic(t *testing.T) {
	assert.Panics(t, func() {
		env.RequireString("NON_EXISTENT_REQUIRED_STRING")
	})
}

func TestString(t *testing.T) {
	t.Setenv("TEST_STRING", "hello")
	assert.Equal(t, "hello", env.String("TEST_STRING", "default"))
	assert.Equal(t, "default", env.String("NON_EXISTENT_STRING", "default"))
}

func TestStrings(t *testing.T) {
	t.Setenv("TEST_STRINGS", "pro, plus,,premium ")
	assert.Equal(t, []string{"pro", "plus", "premium"}, env.Strings("TEST_STRINGS", nil))
	assert.Equal(t, []string{"x"}, env.Strings("NON_EXISTENT_STRINGS", []string{"x"}))
}

func TestInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty-two")
	assert.Equal(t, 42, env.Int("TEST_INT", 100))
	assert.Equal(t, 100, env.Int("TEST_BAD_INT", 100))
	assert.Equal(t, 100, env.Int("NON_EXISTENT_INT", 100))
}

func TestInt64(t *testing.T) {
	t.Setenv("TEST_INT64", "4200")
	assert.Equal(t, int64(4200), env.Int64("TEST_INT64", 1000))
	assert.Equal(t, int64(1000), env.Int64("NON_EXISTENT_INT64", 1000))
}

func TestBool(t *testing.T) {
	t.Setenv("TEST_BOOL_TRUE", "1")
	t.Setenv("TEST_BOOL_FALSE", "false")
	t.Setenv("TEST_BOOL_BAD", "maybe")
	assert.True(t, env.Bool("TEST_BOOL_TRUE", false))
	assert.False(t, env.Bool("TEST_BOOL_FALSE", true))
	assert.True(t, env.Bool("TEST_BOOL_BAD", true))
}

func TestFloat64(t *testing.T) {
	t.Setenv("TEST_FLOAT", "1.2")
	assert.InDelta(t, 1.2, env.Float64("TEST_FLOAT", 0), 1e-9)
	assert.InDelta(t, 3.5, env.Float64("NON_EXISTENT_FLOAT", 3.5), 1e-9)
}

func TestDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "200ms")
	assert.Equal(t, 200*time.Millisecond, env.Duration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, env.Duration("NON_EXISTENT_DURATION", time.Second))
}
