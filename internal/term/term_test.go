package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/hevcshrink/internal/config"
)

func TestConfigure(t *testing.T) {
	old := color.NoColor
	defer func() { color.NoColor = old }()

	Configure(config.ColorAlways)
	assert.False(t, color.NoColor)
	assert.Contains(t, Red.Sprint("x"), "\x1b[")

	Configure(config.ColorNever)
	assert.True(t, color.NoColor)
	assert.Equal(t, "x", Red.Sprint("x"))
}

func TestConfigure_AutoRespectsNoColor(t *testing.T) {
	old := color.NoColor
	defer func() { color.NoColor = old }()

	t.Setenv("NO_COLOR", "1")
	Configure(config.ColorAuto)
	assert.True(t, color.NoColor)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(nil))

	f, err := os.Create(filepath.Join(t.TempDir(), "plain"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
