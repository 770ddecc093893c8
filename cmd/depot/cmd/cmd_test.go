package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/depot"
	"github.com/xraph/depot/internal/auth"
	"github.com/xraph/depot/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestLoginCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	for _, wiring := range []string{config.WiringManual, config.WiringContainer, config.WiringShared} {
		t.Run(wiring, func(t *testing.T) {
			out, err := run(t, "login", "-c", path, "--log-level", "error",
				"-u", "viswa", "-p", "apple123", "--wiring", wiring)
			require.NoError(t, err)

			assert.Contains(t, out, "Login Success")
			assert.Contains(t, out, "session: ")
		})
	}
}

func TestLoginCommand_StaticAuthRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.DefaultConfig()
	cfg.Auth.Mode = config.AuthStatic
	cfg.Auth.Users = map[string]string{"viswa": auth.Digest("apple123")}
	require.NoError(t, config.SaveConfig(cfg, path))

	out, err := run(t, "login", "-c", path, "--log-level", "error",
		"-u", "viswa", "-p", "wrong", "--wiring", config.WiringContainer)
	require.NoError(t, err)
	assert.Contains(t, out, "Login Failed")
	assert.NotContains(t, out, "session: ")
}

func TestLoginCommand_InvalidWiring(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := run(t, "login", "-c", path, "--log-level", "error",
		"-u", "viswa", "-p", "apple123", "--wiring", "magic")
	assert.ErrorContains(t, err, "wiring.mode")
}

func TestServicesCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := run(t, "services", "-c", path, "--log-level", "error", "--group", "login")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, depot.TypeName[auth.Service]())
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	out, err := run(t, "config", "init", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = run(t, "config", "init", "-c", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "config", "init", "-c", path, "--force")
	assert.NoError(t, err)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)
}
