package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/ftagmgr/internal/cli"
)

func Test_Shell_Runs_Commands_When_Input_Piped(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	input := strings.Join([]string{
		"init",
		"# comments and blank lines are skipped",
		"",
		"dir add /tmp/test",
		"dir id /tmp/test",
		"metrics",
		"exit",
		"dir add /never",
	}, "\n")

	stdout, stderr, code := c.RunWithInput(input, "shell")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}

	cli.AssertContains(t, stdout, "created "+c.DBPath())
	cli.AssertContains(t, stdout, "1\n1\n")
	cli.AssertContains(t, stdout, `ftag_store_operations_total{op="dir_id",outcome="ok"} 1`)

	out := c.MustRun("dir", "exists", "/never")
	if out != "absent" {
		t.Errorf("command after exit ran: %q", out)
	}
}

func Test_Shell_Fails_When_A_Command_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustInit()

	stdout, stderr, code := c.RunWithInput("bogus\ntag add a\ntag add a\n", "shell")

	if code != 1 {
		t.Errorf("exit code %d, want 1", code)
	}

	cli.AssertContains(t, stdout, "1")
	cli.AssertContains(t, stderr, "unknown command: bogus")
	cli.AssertContains(t, stderr, "already exists")
	cli.AssertContains(t, stderr, "2 commands failed")
}

func Test_Shell_Lists_Commands_When_Help(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, stderr, code := c.RunWithInput("help\n", "shell")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}

	cli.AssertContains(t, stdout, "dir <exists|add|id|path> <arg>")
	cli.AssertContains(t, stdout, "metrics")
	cli.AssertNotContains(t, stdout, "Run commands interactively")
}
