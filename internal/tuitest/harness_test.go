package tuitest

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[Hfirst   \r\n\x1b[1mbold\x1b[0m\r\n\x1b[2J\x1b[Hsecond\r\n\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d: %#v", len(frames), frames)
	}
	if frames[0].Plain != "first\nbold" {
		t.Fatalf("unexpected first frame %q", frames[0].Plain)
	}
	if frames[1].Plain != "second" || frames[1].Index != 1 {
		t.Fatalf("unexpected second frame %#v", frames[1])
	}
}

func TestRecordingFrameContaining(t *testing.T) {
	rec := &Recording{
		Raw: []byte("\x1b]11;?\x07Loading\r\nGulyásleves"),
		Frames: []Frame{
			{Index: 0, Plain: "Fetching recipes"},
			{Index: 1, Plain: "Gulyásleves\nPalacsinta"},
			{Index: 2, Plain: "bye"},
		},
	}
	frame, ok := rec.FrameContaining("Palacsinta")
	if !ok || frame.Index != 1 {
		t.Fatalf("expected frame 1, got %#v ok=%v", frame, ok)
	}
	if _, ok := rec.FrameContaining("Lecsó"); ok {
		t.Fatal("unexpected match")
	}
	if final, _ := rec.FinalFrame(); final.Index != 2 {
		t.Fatalf("expected final frame 2, got %d", final.Index)
	}
	if text := rec.PlainText(); text != "Loading\nGulyásleves" {
		t.Fatalf("unexpected plain text %q", text)
	}
}

func TestTerminalResponderAnswersQueriesInOrder(t *testing.T) {
	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("x\x1b]11;?\x07y\x1b["))
	tr.Process([]byte("6nz"))
	want := "\x1b]11;rgb:0000/0000/0000\x07\x1b[1;1R"
	if out.String() != want {
		t.Fatalf("responses = %q, want %q", out.String(), want)
	}
	tr.Process([]byte("plain output"))
	if out.String() != want {
		t.Fatal("plain output should not trigger a response")
	}
}

func TestBuildEnvDefaultsTerm(t *testing.T) {
	t.Setenv("TERM", "")
	env := buildEnv([]string{"RECIPEBOX_CACHE_ENABLED=false"})
	joined := strings.Join(env, "\n")
	if !strings.Contains(joined, "RECIPEBOX_CACHE_ENABLED=false") {
		t.Fatal("extra env missing")
	}
	if !strings.Contains(joined, "TERM=") {
		t.Fatal("TERM should always be present")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Width: 90}.withDefaults()
	if cfg.Width != 90 || cfg.Height != defaultHeight || cfg.Timeout != defaultTimeout {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestRunRequiresCommand(t *testing.T) {
	if _, err := Run(context.Background(), Config{}); err == nil {
		t.Fatalf("expected an error for an empty command")
	}
}
