package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestBarRenderer_Render(t *testing.T) {
	output := filepath.Join(t.TempDir(), "charts", "graph.png")
	renderer := NewBarRenderer(Config{Output: output, Title: "Kelime frekansı"})

	path, err := renderer.Render([]models.WordFrequencyEntry{
		{Word: "ve", Count: 42},
		{Word: "bir", Count: 30},
		{Word: "bu", Count: 12},
	})
	require.NoError(t, err)
	assert.Equal(t, output, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestBarRenderer_EqualCounts(t *testing.T) {
	output := filepath.Join(t.TempDir(), "graph.png")
	_, err := NewBarRenderer(Config{Output: output}).Render([]models.WordFrequencyEntry{
		{Word: "a", Count: 1},
		{Word: "b", Count: 1},
	})
	assert.NoError(t, err)
}

func TestBarRenderer_Empty(t *testing.T) {
	_, err := NewBarRenderer(Config{Output: filepath.Join(t.TempDir(), "graph.png")}).Render(nil)
	assert.Error(t, err)
}

func TestNewBarRenderer_Defaults(t *testing.T) {
	r := NewBarRenderer(Config{})
	assert.Equal(t, DefaultOutput, r.Output())
	assert.Equal(t, DefaultWidth, r.config.Width)
	assert.Equal(t, DefaultHeight, r.config.Height)
}
