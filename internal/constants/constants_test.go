package constants

import (
	"path/filepath"
	"testing"
)

func TestPathConstants(t *testing.T) {
	tests := []struct {
		name string
		path string
		ext  string
	}{
		{"DefaultEnvPath", DefaultEnvPath, ".env"},
		{"DefaultConfigPath", DefaultConfigPath, ".toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.path == "" {
				t.Fatalf("%s should not be empty", tt.name)
			}
			if filepath.IsAbs(tt.path) {
				t.Errorf("%s should be relative to the working directory, got %s", tt.name, tt.path)
			}
			if got := filepath.Ext(tt.path); got != tt.ext {
				t.Errorf("%s extension = %q, want %q", tt.name, got, tt.ext)
			}
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	for name, v := range map[string]string{
		"DefaultVersion":   DefaultVersion,
		"DefaultBuildTime": DefaultBuildTime,
		"DefaultGitCommit": DefaultGitCommit,
		"DefaultGoVersion": DefaultGoVersion,
	} {
		if v == "" {
			t.Errorf("%s should not be empty", name)
		}
	}
	if AppName != "curlloop" {
		t.Errorf("AppName = %q", AppName)
	}
}
