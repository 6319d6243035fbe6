package envvar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv(Prefix+"BIND", ":9090")
	t.Setenv(Prefix+"REDIS_DB", "3")
	t.Setenv(Prefix+"TIMEOUT", "3s")
	t.Setenv(Prefix+"BAD_INT", "abc")

	s, ok := String("BIND")
	assert.True(t, ok)
	assert.Equal(t, ":9090", s)

	s, ok = String("MISSING", "fallback")
	assert.False(t, ok)
	assert.Equal(t, "fallback", s)

	i, ok := Int("REDIS_DB")
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	i, ok = Int("BAD_INT", 7)
	assert.False(t, ok)
	assert.Equal(t, 7, i)

	var d time.Duration
	assert.True(t, SetDuration("TIMEOUT", &d))
	assert.Equal(t, 3*time.Second, d)
}
