package main

import (
	"context"
	"net/http"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/recipebox/internal/tuitest"
)

func TestRecipeBoxSearchSession(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary and drives it through a pty")
	}
	if runtime.GOOS == "windows" {
		t.Skip("pty harness requires a unix terminal")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not on PATH")
	}

	server := sheetServer(t, kitchenCSV, http.StatusOK)
	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	home := t.TempDir()

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary,
			"--no-alt-screen",
			"--no-cache",
			"--source", server.URL + "/pub?output=csv",
			"--log-file", filepath.Join(home, "recipebox.log"),
		},
		Dir:    cmdDir,
		Env:    []string{"XDG_CONFIG_HOME=" + home},
		Width:  100,
		Height: 32,
		Steps: []tuitest.Step{
			tuitest.Wait(time.Second),
			tuitest.Type("/"),
			tuitest.Wait(200 * time.Millisecond),
			tuitest.Type("pal"),
			tuitest.Wait(300 * time.Millisecond),
			tuitest.Press(tuitest.KeyEnter),
			tuitest.Wait(300 * time.Millisecond),
			tuitest.Type("q"),
		},
		Timeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	plain := rec.PlainText()
	for _, want := range []string{"Gulyásleves", "Palacsinta"} {
		if !strings.Contains(plain, want) {
			t.Fatalf("session output missing %q:\n%s", want, plain)
		}
	}
	if !strings.Contains(plain, "1 of 7 recipes") {
		t.Fatalf("no frame shows the narrowed search result:\n%s", plain)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "recipebox-integration")
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
