package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotResponseWritesImage(t *testing.T) {
	spec, err := DesignBandpass(2, 0.5, 2.0, 30.0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "response.png")
	require.NoError(t, PlotResponse(spec, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotResponseBadPath(t *testing.T) {
	spec, err := DesignBandpass(2, 0.5, 2.0, 30.0)
	require.NoError(t, err)

	err = PlotResponse(spec, filepath.Join(t.TempDir(), "missing", "response.png"))
	assert.Error(t, err)
}
