package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"release build", "1.4.0", "envrepo version 1.4.0\n"},
		{"dev build", "dev", "envrepo version dev\n"},
		{"unset", "", "envrepo version \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalVersion := GetVersion()
			defer SetVersion(originalVersion)
			SetVersion(tt.version)

			var buf bytes.Buffer
			versionCmd := newVersionCmd()
			versionCmd.SetOut(&buf)
			versionCmd.SetArgs([]string{})
			require.NoError(t, versionCmd.Execute())

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestVersionCommand_IgnoresConfigPath(t *testing.T) {
	// version must work without a config directory, unlike serve and list.
	originalPath := configPath
	defer func() { configPath = originalPath }()
	configPath = "/nonexistent/envrepo"

	var buf bytes.Buffer
	versionCmd := newVersionCmd()
	versionCmd.SetOut(&buf)
	versionCmd.SetArgs([]string{})
	require.NoError(t, versionCmd.Execute())
	assert.Contains(t, buf.String(), "envrepo version")
}
