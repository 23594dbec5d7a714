package exec

import (
	"context"
	"fmt"
	"sort"
	"time"

	"coderoom/internal/metrics"
	"coderoom/internal/models"
	"coderoom/internal/utils"
)

// CodeSandbox runs one language's compile-and-run pipeline.
type CodeSandbox interface {
	Run(ctx context.Context, code string) models.RunResult
}

// Orchestrator routes run requests to the sandbox registered for the
// requested language.
type Orchestrator struct {
	log       *utils.Logger
	sandboxes map[models.Language]CodeSandbox
}

func NewOrchestrator(log *utils.Logger, baseDir string) *Orchestrator {
	return &Orchestrator{
		log: log,
		sandboxes: map[models.Language]CodeSandbox{
			models.LangCPP: NewSandbox(log, baseDir, CPPSpec(), DefaultLimits()),
		},
	}
}

// Register adds or replaces a language pipeline.
func (o *Orchestrator) Register(lang models.Language, sb CodeSandbox) {
	o.sandboxes[lang] = sb
}

// Languages lists the supported language tags.
func (o *Orchestrator) Languages() []models.Language {
	langs := make([]models.Language, 0, len(o.sandboxes))
	for lang := range o.sandboxes {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Dispatch always returns a structured result. An unsupported language
// is rejected before any filesystem use, and an internal panic is
// reported as a server error instead of reaching the transport layer.
func (o *Orchestrator) Dispatch(ctx context.Context, req models.RunRequest) (result models.RunResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("dispatch panicked", "language", string(req.Language), "panic", fmt.Sprint(r))
			result = models.RunResult{
				Error: fmt.Sprintf("Server error: %v", r),
				Type:  models.ResultServerError,
			}
		}
		metrics.ObserveExecution(string(result.Type), time.Since(start))
	}()

	sbx, ok := o.sandboxes[req.Language]
	if !ok {
		return models.RunResult{
			Output: fmt.Sprintf("Language '%s' is not supported yet. Currently supported: C++", req.Language),
			Type:   models.ResultUnsupportedLanguage,
		}
	}
	return sbx.Run(ctx, req.Code)
}
