package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aatumaykin/curlloop/internal/constants"
	"github.com/aatumaykin/curlloop/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configPath = constants.DefaultConfigPath
	envPath = filepath.Join(t.TempDir(), "missing.env")
	logLevel = ""
	serveAddr = ""
	serveNoBrowser = false
	onceJournal = false
	onceNotify = false
	onceRaw = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--env", envPath))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCommandStructure(t *testing.T) {
	want := []string{"serve", "once", "config", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	show, _, err := rootCmd.Find([]string{"config", "show"})
	require.NoError(t, err)
	assert.Equal(t, "show", show.Name())

	for _, flag := range []string{"addr", "no-browser"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(flag), "root --%s", flag)
		assert.NotNil(t, serveCmd.Flags().Lookup(flag), "serve --%s", flag)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().ShorthandLookup("c"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "curlloop "))
	assert.Contains(t, out, "Commit:")
}

func TestConfigShowDefaults(t *testing.T) {
	out, err := execute(t, "config", "show", "--config", filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)

	var shown map[string]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "127.0.0.1:3000", shown["server"]["addr"])
	assert.Equal(t, "logs/curl_I_provided.log", shown["loop"]["log_file"])
	assert.Equal(t, 300, shown["notify"]["preview_chars"])
}

func TestConfigShowAppliesLogLevelOverride(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"warn\"\n")

	out, err := execute(t, "config", "show", "--config", path, "--log-level", "debug")

	require.NoError(t, err)
	assert.Contains(t, out, "level: debug")
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeConfig(t, "[server]\naddr = \"127.0.0.1:4000\"\n")

		out, err := execute(t, "config", "validate", path)

		require.NoError(t, err)
		assert.Contains(t, out, "configuration is valid")
	})

	t.Run("invalid", func(t *testing.T) {
		path := writeConfig(t, "[notify]\npreview_chars = -1\n")

		_, err := execute(t, "config", "validate", path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "notify.preview_chars")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "config", "validate", filepath.Join(t.TempDir(), "none.toml"))

		assert.Error(t, err)
	})
}

func TestOnce(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "out", "payloads.log")
	path := writeConfig(t, "[loop]\nlog_file = \""+filepath.ToSlash(logFile)+"\"\n[logging]\nlevel = \"error\"\n")

	out, err := execute(t, "once", `echo 'HTTP/1.1 200 OK {"id":7} trailer'`, "--config", path, "--journal")

	require.NoError(t, err)
	assert.Equal(t, "{\"id\":7}\n", out)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), " - {\"id\":7}\n"), string(data))
}

func TestOnceRaw(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"error\"\n")

	out, err := execute(t, "once", `echo 'a {"b":1} c'`, "--config", path, "--raw")

	require.NoError(t, err)
	assert.Equal(t, "a {\"b\":1} c -s\n", out)
}

func TestOnceFailure(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"error\"\n")

	out, err := execute(t, "once", "sh -c 'exit 3'", "--config", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 3")
	assert.Equal(t, "curl failed with code 3\n", out)
}

func TestInvalidConfigStopsServe(t *testing.T) {
	path := writeConfig(t, "[server]\naddr = \"nope\"\n")

	_, err := execute(t, "serve", "--config", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server.addr")
}

func TestRootVersionFromBuildInfo(t *testing.T) {
	assert.NotEmpty(t, rootCmd.Version)
	assert.Equal(t, version.Version, rootCmd.Version)
	if Version == "" {
		assert.Equal(t, constants.DefaultVersion, rootCmd.Version)
	}
}
