package exec

import (
	"context"
	"os"
	"strings"
	"testing"

	"coderoom/internal/models"
	"coderoom/internal/utils"
)

type cannedSandbox struct {
	result models.RunResult
	calls  int
}

func (s *cannedSandbox) Run(context.Context, string) models.RunResult {
	s.calls++
	return s.result
}

type panicSandbox struct{}

func (panicSandbox) Run(context.Context, string) models.RunResult {
	panic("sandbox exploded")
}

func TestDispatchRejectsUnsupportedLanguageWithoutFilesystemUse(t *testing.T) {
	base := t.TempDir()
	o := NewOrchestrator(utils.NewLogger(), base)

	result := o.Dispatch(context.Background(), models.RunRequest{
		RoomID:   "room",
		Code:     "console.log(1)",
		Language: "javascript",
	})

	if result.Success || result.Type != models.ResultUnsupportedLanguage {
		t.Fatalf("unexpected result: %#v", result)
	}
	if !strings.Contains(result.Output, "not supported") {
		t.Fatalf("unexpected message: %q", result.Output)
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no workspace for rejected request, got %v", entries)
	}
}

func TestDispatchForwardsSandboxResultUnchanged(t *testing.T) {
	o := NewOrchestrator(utils.NewLogger(), t.TempDir())
	canned := &cannedSandbox{result: models.RunResult{
		Output:  "42",
		Error:   "warning",
		Success: true,
		Type:    models.ResultExecution,
	}}
	o.Register("stub", canned)

	result := o.Dispatch(context.Background(), models.RunRequest{RoomID: "room", Language: "stub"})

	if result != canned.result {
		t.Fatalf("result altered: %#v", result)
	}
	if canned.calls != 1 {
		t.Fatalf("expected one sandbox call, got %d", canned.calls)
	}
}

func TestDispatchConvertsPanicToServerError(t *testing.T) {
	o := NewOrchestrator(utils.NewLogger(), t.TempDir())
	o.Register("boom", panicSandbox{})

	result := o.Dispatch(context.Background(), models.RunRequest{RoomID: "room", Language: "boom"})

	if result.Success || result.Type != models.ResultServerError {
		t.Fatalf("unexpected result: %#v", result)
	}
	if !strings.Contains(result.Error, "sandbox exploded") {
		t.Fatalf("expected panic message, got %q", result.Error)
	}
}

func TestLanguagesListsCPP(t *testing.T) {
	o := NewOrchestrator(utils.NewLogger(), t.TempDir())
	langs := o.Languages()
	if len(langs) != 1 || langs[0] != models.LangCPP {
		t.Fatalf("unexpected languages: %#v", langs)
	}
}
