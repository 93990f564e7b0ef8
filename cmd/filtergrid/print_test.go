package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filtergrid/internal/config"
	"filtergrid/internal/logic"
)

// writeFixture writes a config that discards logs plus one input file
func writeFixture(t *testing.T, lines ...string) (cfgPath, input string) {
	t.Helper()
	dir := t.TempDir()

	cfgPath = filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nfile = \"\"\n"), 0o644))

	input = filepath.Join(dir, "fruit.txt")
	require.NoError(t, os.WriteFile(input, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return cfgPath, input
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestPrint(t *testing.T) {
	cfgPath, input := writeFixture(t, "pear", "Apple", "cherry", "banana", "avocado")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "load order",
			args: []string{input},
			want: "pear\nApple\ncherry\nbanana\navocado\n",
		},
		{
			name: "substring filter with text sort",
			args: []string{"--filter", "a", "--sort", "text", input},
			want: "Apple\navocado\nbanana\npear\n",
		},
		{
			name: "length sort",
			args: []string{"--sort", "length", input},
			want: "pear\nApple\ncherry\nbanana\navocado\n",
		},
		{
			name: "regex filter",
			args: []string{"--filter-kind", "regex", "--filter", "^a", input},
			want: "Apple\navocado\n",
		},
		{
			name: "fuzzy filter",
			args: []string{"--filter-kind", "fuzzy", "--filter", "bnn", input},
			want: "banana\n",
		},
		{
			name: "line numbers",
			args: []string{"-n", "--filter", "cherry", input},
			want: input + ":3\tcherry\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"print", "--config", cfgPath}, tt.args...)
			out, _, err := execute(t, "", args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestPrintStdin(t *testing.T) {
	cfgPath, _ := writeFixture(t)

	out, _, err := execute(t, "one\ntwo\nthree\n", "print", "--config", cfgPath, "--filter", "t", "-")
	require.NoError(t, err)
	assert.Equal(t, "two\nthree\n", out)
}

func TestPrintMissingSource(t *testing.T) {
	cfgPath, input := writeFixture(t, "kept")
	missing := filepath.Join(filepath.Dir(input), "missing.txt")

	out, errOut, err := execute(t, "", "print", "--config", cfgPath, missing, input)
	require.NoError(t, err)
	assert.Equal(t, "kept\n", out)
	assert.Contains(t, errOut, "Failed to load "+missing)
}

func TestInvalidFlags(t *testing.T) {
	cfgPath, input := writeFixture(t, "x")

	_, _, err := execute(t, "", "print", "--config", cfgPath, "--sort", "random", input)
	assert.ErrorIs(t, err, logic.ErrInvalidSort)

	_, _, err = execute(t, "", "print", "--config", cfgPath, "--filter-kind", "glob", input)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, _, err = execute(t, "", "print", "--config", cfgPath, "--filter-kind", "regex", "--filter", "(", input)
	assert.ErrorIs(t, err, logic.ErrInvalidFilter)

	_, _, err = execute(t, "", "--config", cfgPath, "--mode", "table", input)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestMissingConfigFile(t *testing.T) {
	_, input := writeFixture(t, "x")

	_, _, err := execute(t, "", "print", "--config", filepath.Join(t.TempDir(), "nope.toml"), input)
	assert.Error(t, err)
}
