package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"coderoom/internal/models"
	"coderoom/internal/utils"
)

const (
	DefaultCompileTimeout = 10 * time.Second
	DefaultRunTimeout     = 5 * time.Second
	DefaultStdoutLimit    = 10000
	DefaultStderrLimit    = 5000

	noOutputPlaceholder = "No output"
	stdoutTruncMarker   = "\n[Output truncated - too long]"
	stderrTruncMarker   = "\n[Error output truncated - too long]"
)

// Limits bound one sandbox invocation. The compile and run steps own
// independent deadlines.
type Limits struct {
	CompileTimeout time.Duration
	RunTimeout     time.Duration
	StdoutLimit    int
	StderrLimit    int
}

func DefaultLimits() Limits {
	return Limits{
		CompileTimeout: DefaultCompileTimeout,
		RunTimeout:     DefaultRunTimeout,
		StdoutLimit:    DefaultStdoutLimit,
		StderrLimit:    DefaultStderrLimit,
	}
}

// ToolSpec describes how a language's toolchain is invoked inside a
// workspace. Commands run with the workspace root as working directory,
// so file references are relative.
type ToolSpec struct {
	SourceFile   string
	ArtifactFile string
	CompileCmd   []string
	ExecCmd      []string
}

func CPPSpec() ToolSpec {
	return ToolSpec{
		SourceFile:   "main.cpp",
		ArtifactFile: "main",
		CompileCmd:   []string{"g++", "-std=c++17", "-Wall", "-Wextra", "-O2", "-o", "main", "main.cpp"},
		ExecCmd:      []string{"./main"},
	}
}

// Sandbox compiles and runs untrusted source in a scoped workspace with
// process-level time and output bounds. There is no OS-level isolation
// (no namespaces or cgroups): timeouts and output caps are the only
// containment, which is a known security caveat of this design.
type Sandbox struct {
	log     *utils.Logger
	baseDir string
	spec    ToolSpec
	limits  Limits
}

func NewSandbox(log *utils.Logger, baseDir string, spec ToolSpec, limits Limits) *Sandbox {
	return &Sandbox{log: log, baseDir: baseDir, spec: spec, limits: limits}
}

// Run executes the full pipeline: write source, compile, spawn the
// artifact, capture bounded output. Every outcome is reported as a
// RunResult; no error escapes and the workspace is removed on every
// exit path.
func (s *Sandbox) Run(ctx context.Context, code string) models.RunResult {
	ws, err := NewWorkspace(s.baseDir, s.spec.SourceFile, s.spec.ArtifactFile)
	if err != nil {
		return models.RunResult{Output: "Execution error: " + err.Error(), Type: models.ResultRuntimeError}
	}
	defer func() {
		if rmErr := ws.Remove(); rmErr != nil {
			s.log.Warn("workspace cleanup failed", "root", ws.Root, "error", rmErr.Error())
		}
	}()

	if err := ws.WriteSource(code); err != nil {
		return models.RunResult{Output: "Execution error: " + err.Error(), Type: models.ResultRuntimeError}
	}

	if diag, ok := s.compile(ctx, ws); !ok {
		return models.RunResult{Error: diag, Type: models.ResultCompilationError}
	}
	return s.execute(ctx, ws)
}

// compile runs the toolchain under its own deadline. The artifact is
// never run when compilation fails or times out.
func (s *Sandbox) compile(ctx context.Context, ws *Workspace) (diag string, ok bool) {
	cctx, cancel := context.WithTimeout(ctx, s.limits.CompileTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, s.spec.CompileCmd[0], s.spec.CompileCmd[1:]...)
	cmd.Dir = ws.Root
	// Bound the pipe drain so a killed toolchain's lingering children
	// cannot stall Wait.
	cmd.WaitDelay = time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			if errors.Is(cctx.Err(), context.DeadlineExceeded) {
				msg = "compilation timed out after " + s.limits.CompileTimeout.String()
			} else {
				msg = err.Error()
			}
		}
		return msg, false
	}
	return "", true
}

func (s *Sandbox) execute(ctx context.Context, ws *Workspace) models.RunResult {
	rctx, cancel := context.WithTimeout(ctx, s.limits.RunTimeout)
	defer cancel()

	cmd := exec.CommandContext(rctx, s.spec.ExecCmd[0], s.spec.ExecCmd[1:]...)
	cmd.Dir = ws.Root
	// Empty environment: no credential or variable leakage into user code.
	cmd.Env = []string{}
	// After a timeout or cap kill, surviving grandchildren may still hold
	// the output pipes; give up draining them after a second.
	cmd.WaitDelay = time.Second

	var once sync.Once
	kill := func() {
		once.Do(func() {
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
		})
	}
	stdout := newCappedBuffer(s.limits.StdoutLimit, stdoutTruncMarker, kill)
	stderr := newCappedBuffer(s.limits.StderrLimit, stderrTruncMarker, kill)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return models.RunResult{Error: "Execution failed: " + err.Error(), Type: models.ResultServerError}
	}
	// Non-zero exits, timeout kills, and truncation kills are normal,
	// reportable outcomes.
	_ = cmd.Wait()

	out := stdout.String()
	if out == "" {
		out = noOutputPlaceholder
	}
	return models.RunResult{Output: out, Error: stderr.String(), Success: true, Type: models.ResultExecution}
}

// cappedBuffer accumulates one stream up to a fixed ceiling. The first
// write past the ceiling keeps only the bytes that fit, appends the
// truncation marker, and kills the producing process. Truncation is a
// resource guard, not a user error.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       strings.Builder
	limit     int
	marker    string
	truncated bool
	kill      func()
}

func newCappedBuffer(limit int, marker string, kill func()) *cappedBuffer {
	return &cappedBuffer{limit: limit, marker: marker, kill: kill}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.truncated {
		return len(p), nil
	}
	room := b.limit - b.buf.Len()
	if len(p) <= room {
		b.buf.Write(p)
		return len(p), nil
	}
	if room > 0 {
		b.buf.Write(p[:room])
	}
	b.buf.WriteString(b.marker)
	b.truncated = true
	b.kill()
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *cappedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}
