package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePathArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/library", "/media/library"},
		{"single trailing slash", "/media/library/", "/media/library"},
		{"multiple trailing slashes", "/media/library///", "/media/library"},
		{"root path", "/", "/"},
		{"relative path", "clips", "clips"},
		{"file path", "clips/a.mp4", "clips/a.mp4"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePathArg(tt.in))
		})
	}
}

func TestValidate_ColorMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    ColorMode
		wantErr bool
	}{
		{"auto is valid", ColorAuto, false},
		{"always is valid", ColorAlways, false},
		{"never is valid", ColorNever, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "rainbow", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Root = "/media"
			cfg.ColorMode = tt.mode
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_RequiresRootUnlessCheck(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))

	cfg.CheckOnly = true
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyBinary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = "/media"
	cfg.FfmpegBin = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg")
}

func TestParseFlags_SinglePositional(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, "test", []string{"-v", "--no-color", "/media/clips/"}))
	assert.Equal(t, "/media/clips", cfg.Root)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, ColorNever, cfg.ColorMode)
}

func TestParseFlags_WrongArgCount(t *testing.T) {
	for _, args := range [][]string{nil, {"a", "b"}} {
		cfg := DefaultConfig()
		err := ParseFlags(&cfg, "test", args)
		require.Error(t, err, "args %v", args)
		assert.True(t, errors.Is(err, ErrUsage))
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, "test", []string{"--crf", "20", "/media"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUsage))
}

func TestParseFlags_CheckNeedsNoPath(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, "test", []string{"--check"}))
	assert.True(t, cfg.CheckOnly)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnv_OverridesDefaults(t *testing.T) {
	t.Setenv("HEVCSHRINK_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("HEVCSHRINK_COLOR", "never")
	t.Setenv("HEVCSHRINK_VERBOSE", "true")

	cfg := DefaultConfig()
	require.NoError(t, LoadEnv(&cfg))
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FfmpegBin)
	assert.Equal(t, "ffprobe", cfg.FfprobeBin)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.True(t, cfg.Verbose)
}

func TestLoadEnv_FlagsWin(t *testing.T) {
	t.Setenv("HEVCSHRINK_COLOR", "always")

	cfg := DefaultConfig()
	require.NoError(t, LoadEnv(&cfg))
	require.NoError(t, ParseFlags(&cfg, "test", []string{"--no-color", "/media"}))
	assert.Equal(t, ColorNever, cfg.ColorMode)
}

func TestExpandPaths_MakesRootAbsolute(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = "clips"
	require.NoError(t, cfg.ExpandPaths())
	assert.True(t, filepath.IsAbs(cfg.Root))
	assert.Equal(t, "clips", filepath.Base(cfg.Root))
}

func TestExpandPaths_Home(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = "~/clips"
	cfg.LogFile = "~/shrink.log"
	require.NoError(t, cfg.ExpandPaths())
	assert.NotContains(t, cfg.Root, "~")
	assert.NotContains(t, cfg.LogFile, "~")
}
