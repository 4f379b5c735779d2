package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	config "github.com/warpdl/warpjar/common"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// captureOutput redirects os.Stdout and os.Stderr while f runs and returns
// what was written to each.
func captureOutput(f func()) (stdout, stderr string) {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	outCh := make(chan string)
	errCh := make(chan string)
	go func() {
		var b bytes.Buffer
		io.Copy(&b, rOut)
		outCh <- b.String()
	}()
	go func() {
		var b bytes.Buffer
		io.Copy(&b, rErr)
		errCh <- b.String()
	}()

	f()

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr
	stdout, stderr = <-outCh, <-errCh
	rOut.Close()
	rErr.Close()
	return
}

func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

func assertNotContains(t *testing.T, output, notExpected string) {
	t.Helper()
	if strings.Contains(output, notExpected) {
		t.Errorf("expected output NOT to contain %q, got:\n%s", notExpected, output)
	}
}

// setupEnv points the config dir at a temp dir and supplies a fixed vault key.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.ConfigDirEnv, dir)
	t.Setenv(config.VaultKeyEnv, testKeyHex)
	t.Setenv(config.DebugEnv, "")
	t.Setenv(config.ProxyEnv, "")
	t.Setenv(config.RPCSecretEnv, "")
	t.Setenv(config.RPCPortEnv, "")
	return dir
}

// run executes the CLI with args and returns its stdout and stderr.
func run(t *testing.T, args ...string) (string, string) {
	t.Helper()
	var runErr error
	stdout, stderr := captureOutput(func() {
		runErr = Execute(append([]string{"warpjar"}, args...), BuildArgs{
			Version:   "1.0.0",
			BuildType: "test",
			Commit:    "abc123",
		})
	})
	if runErr != nil {
		t.Fatalf("Execute(%v): %v", args, runErr)
	}
	return stdout, stderr
}
