package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/brettbedarf/nsim/config"
	"github.com/brettbedarf/nsim/internal/util"
	"github.com/brettbedarf/nsim/namespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and stdin, returning stdout.
// Not parallel: the logger is global.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"shell", "exec", "mount"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
		assert.NotEmpty(t, sub.GroupID, "%s must belong to a group", name)
	}
	assert.NotNil(t, root.PersistentFlags().ShorthandLookup("c"))
	assert.NotNil(t, root.PersistentFlags().ShorthandLookup("v"))
}

func TestExecCmd_Script(t *testing.T) {
	script := writeFile(t, "demo.nsim", strings.Join([]string{
		"createDirectory / docs",
		"createFile /docs a.txt",
		"copyFile /docs/a.txt /",
		"listDirectory /",
		"printJournal",
	}, "\n"))

	out, err := run(t, "", "exec", script)

	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"docs/",
		"a.txt",
		"Create directory /docs",
		"Create file /docs/a.txt",
		"Copy file /docs/a.txt to /",
		"List directory /",
	}, "\n")+"\n", out)
}

func TestExecCmd_MissingScript(t *testing.T) {
	_, err := run(t, "", "exec", filepath.Join(t.TempDir(), "nope.nsim"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open script")
}

func TestExecCmd_ArgCount(t *testing.T) {
	_, err := run(t, "", "exec")

	assert.Error(t, err)
}

func TestShellCmd_ReadsStdin(t *testing.T) {
	cfgPath := writeFile(t, "nsim.yaml", "prompt: \"\"\n")

	out, err := run(t, "createDirectory / docs\nlistDirectory /\nexit\n", "shell", "-c", cfgPath)

	require.NoError(t, err)
	assert.Equal(t, "docs/\n", out)
}

func TestRootCmd_DefaultsToShell(t *testing.T) {
	out, err := run(t, "listDirectory /\n")

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat(config.DefaultPrompt, 2), out, "one prompt per read, empty root")
}

func TestRootOptions_Load(t *testing.T) {
	cfgPath := writeFile(t, "nsim.json", `{"verbose": 2, "root_name": "top", "prompt": ""}`)

	tests := []struct {
		name     string
		args     []string
		expLogLv util.LogLevel
	}{
		{"file_only", []string{"-c", cfgPath}, util.WarnLevel},
		{"verbose_wins", []string{"-c", cfgPath, "-v", "5"}, util.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &rootOptions{}
			cmd := NewShellCmd(opts)
			cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "")
			cmd.Flags().IntVarP(&opts.verbose, "verbose", "v", config.WarnVerbose, "")
			cmd.SetErr(&bytes.Buffer{})
			require.NoError(t, cmd.ParseFlags(tt.args))

			require.NoError(t, opts.load(cmd))

			require.NotNil(t, opts.cfg)
			assert.Equal(t, tt.expLogLv, opts.cfg.LogLvl)
			assert.Equal(t, "top", opts.cfg.RootName)
			assert.Equal(t, "", opts.cfg.Prompt)
		})
	}
}

func TestRootCmd_BadConfig(t *testing.T) {
	_, err := run(t, "", "-c", writeFile(t, "nsim.txt", "x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config file extension")
}

func TestMountCmd_SeedScriptErrorBeforeMount(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "seed.nsim")

	_, err := run(t, "", "mount", "--script", missing, t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open script")
}

func TestMountCmd_ArgCount(t *testing.T) {
	_, err := run(t, "", "mount")

	assert.Error(t, err)
}

func TestRootCmd_InvalidRootName(t *testing.T) {
	for _, content := range []string{"root_name: \"a/b\"\n", "root_name: \"\"\n"} {
		_, err := run(t, "", "-c", writeFile(t, "nsim.yaml", content))

		require.Error(t, err)
		assert.ErrorIs(t, err, namespace.ErrInvalidName)
	}
}

// TestMountCmd_ShutdownSignals keeps the handled signals in line with the help text.
func TestMountCmd_ShutdownSignals(t *testing.T) {
	assert.ElementsMatch(t, []os.Signal{os.Interrupt, syscall.SIGTERM}, shutdownSignals)

	long := NewMountCmd(&rootOptions{}).Long
	assert.Contains(t, long, "SIGINT or SIGTERM")
	assert.NotContains(t, long, "SIGQUIT")
}
