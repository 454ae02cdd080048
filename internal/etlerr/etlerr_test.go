package etlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection refused")
	err := New(StageExtract, KindNetwork, base)

	require.Equal(t, KindNetwork, KindOf(err))
	require.Equal(t, StageExtract, StageOf(err))
	require.ErrorIs(t, err, base)
	require.Equal(t, "extract (network): connection refused", err.Error())

	wrapped := fmt.Errorf("run: %w", err)
	require.True(t, Is(wrapped, KindNetwork))
	require.False(t, Is(wrapped, KindDatabase))

	require.Equal(t, KindUnknown, KindOf(base))
	require.Equal(t, Stage(""), StageOf(base))
	require.Equal(t, KindUnknown, KindOf(nil))
}

func TestNewNil(t *testing.T) {
	require.NoError(t, New(StageLoad, KindDatabase, nil))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "table_not_found", KindTableNotFound.String())
	require.Equal(t, "unknown", Kind(99).String())
}
