//go:build e2e && unix

package main

import (
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWith(t *testing.T, lines ...string) *TUITestFramework {
	t.Helper()
	tf := NewTUITest(t)
	t.Cleanup(tf.Cleanup)

	_, err := tf.CreateTestWorkspace(lines...)
	require.NoError(t, err, "Failed to create test workspace")
	require.NoError(t, tf.StartApp(EntriesFile), "Failed to start app")
	require.True(t, tf.Ready(), "Should render the list")
	return tf
}

// printedAfterExit returns what follows the help bar of the last frame
func printedAfterExit(tf *TUITestFramework) string {
	out := tf.SnapshotPlain()
	return out[strings.LastIndex(out, "quit")+len("quit"):]
}

// seePrinted waits for text to show up after the last frame
func seePrinted(tf *TUITestFramework, text string) bool {
	return tf.WaitFor(func(string) bool {
		return strings.Contains(printedAfterExit(tf), text)
	}, time.Second)
}

func TestQuitWithoutAccepting(t *testing.T) {
	t.Parallel()
	tf := startWith(t, "alpha", "beta")

	require.True(t, tf.SeePlain("filtergrid"), "Should show title")
	require.NoError(t, tf.Quit())
	require.NoError(t, tf.WaitExit(2*time.Second))
}

func TestAcceptPrintsSelection(t *testing.T) {
	t.Parallel()
	tf := startWith(t, "alpha", "beta", "gamma")

	require.True(t, tf.SeePlain("3/3 shown"), "Should load every entry")
	require.NoError(t, tf.Down())
	require.NoError(t, tf.Select())
	require.True(t, tf.SeePlain("1 selected"), "Selection count should update")

	require.NoError(t, tf.Enter())
	require.NoError(t, tf.WaitExit(2*time.Second))

	require.True(t, seePrinted(tf, "beta"), "Accepted entry should be printed")
	require.NotContains(t, printedAfterExit(tf), "gamma")
}

func TestFilterHidesRowsButKeepsSelection(t *testing.T) {
	t.Parallel()
	tf := startWith(t, "alpha-project", "beta-project", "gamma-tool")

	require.NoError(t, tf.Select())
	require.True(t, tf.SeePlain("1 selected"))

	require.NoError(t, tf.SendKeys("/"))
	require.True(t, tf.SeePlain("Filter:"), "Filter prompt should appear")
	require.NoError(t, tf.Type("tool"))
	require.NoError(t, tf.Enter())

	require.True(t, tf.SeePlain("[substring: tool]"), "Filter label should appear")
	require.True(t, tf.SeePlain("1/3 shown"), "Only the matching row should show")
	require.True(t, tf.SeePlain("1 selected"), "Hidden selection should be kept")

	require.NoError(t, tf.Enter())
	require.NoError(t, tf.WaitExit(2*time.Second))
	require.True(t, seePrinted(tf, "alpha-project"), "Hidden selected entry should be printed")
}

func TestSortMenu(t *testing.T) {
	t.Parallel()
	tf := startWith(t, "ccc", "a", "bb")

	require.NoError(t, tf.SendKeys("s"))
	require.True(t, tf.SeePlain("Sort:"), "Sort menu should appear")
	require.NoError(t, tf.Type("jj"))
	require.True(t, tf.SeePlain("sort: length"), "Length sort should preview")

	require.NoError(t, tf.Enter())
	require.NoError(t, tf.Quit())
	require.NoError(t, tf.WaitExit(2*time.Second))
}

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	out, err := exec.Command(binPath, "--help").CombinedOutput()
	require.NoError(t, err, "Help command should run without error")

	output := string(out)
	require.Contains(t, output, "Usage")
	require.Contains(t, output, "--filter-kind")
	require.Contains(t, output, "print")
}
