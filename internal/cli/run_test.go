package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/calvinalkan/ftagmgr/internal/cli"
)

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("--invalid-flag", "ls")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")

	cli.AssertContains(t, stderr, "Global flags:")
	cli.AssertContains(t, stderr, "--help")
	cli.AssertContains(t, stderr, "--cwd")
	cli.AssertContains(t, stderr, "--config")
	cli.AssertContains(t, stderr, "--db")
}

func Test_Empty_DB_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--db=", "ls")

	cli.AssertContains(t, stderr, "--db cannot be empty")
}

func Test_Usage_Lists_Commands_When_No_Command(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun()

	for _, name := range []string{"init", "dir", "file", "tag", "ls", "dump", "demo", "shell", "print-config"} {
		cli.AssertContains(t, stdout, "  "+name)
	}

	cli.AssertContains(t, stdout, "Usage: ftag [flags] <command> [args]\n\nGlobal flags:\n")
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("frobnicate")

	cli.AssertContains(t, stderr, "unknown command: frobnicate")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Command_Help_When_Help_Flag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("dump", "--help")

	cli.AssertContains(t, stdout, "Usage: ftag dump")
	cli.AssertContains(t, stdout, "--format")
}

func Test_Verbose_Logs_Store_Operations_When_Flag_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustInit()

	stdout, stderr, code := c.Run("--verbose", "dir", "exists", "/tmp/test")
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}

	if stdout != "absent\n" {
		t.Errorf("stdout=%q, want=%q", stdout, "absent\n")
	}

	cli.AssertContains(t, stderr, "op=dir_exists")
	cli.AssertContains(t, stderr, "outcome=ok")
	cli.AssertContains(t, stderr, "key=/tmp/test")
}

func Test_DB_Flag_Overrides_Store_Path_When_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout := c.MustRun("--db", "other.db", "init")
	cli.AssertContains(t, stdout, "created "+filepath.Join(c.Dir, "other.db"))

	stderr := c.MustFail("dir", "exists", "/a")
	cli.AssertContains(t, stderr, "store does not exist")
}
