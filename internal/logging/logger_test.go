package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"prod", "dev", ""} {
		l, err := New(mode)
		require.NoError(t, err)
		l.With("stage", "test").Info("hello", "n", 1)
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Same(t, l, OrNop(l))
}

func TestFromZapKeepsEventAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("platform", "twitter")
	l.Warn("community_fallback", "nodes", 3)
	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "community_fallback", e.Message)
	assert.Equal(t, "twitter", e.ContextMap()["platform"])
	assert.EqualValues(t, 3, e.ContextMap()["nodes"])
}
