package image

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscard_SaveImage(t *testing.T) {
	a, err := Discard{}.SaveImage(t.Context(), strings.NewReader("first"))
	require.NoError(t, err)
	b, err := Discard{}.SaveImage(t.Context(), strings.NewReader("second"))
	require.NoError(t, err)

	assert.Equal(t, "discard", a.Scheme)
	assert.NotEqual(t, a.String(), b.String())
}

func TestDiscard_SaveImage_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Discard{}.SaveImage(ctx, strings.NewReader("photo"))
	require.ErrorIs(t, err, context.Canceled)
}
