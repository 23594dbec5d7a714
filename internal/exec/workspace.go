package exec

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is the ephemeral filesystem scope backing one sandbox
// invocation. Exactly one in-flight run owns it; Remove must run on
// every exit path.
type Workspace struct {
	Root         string
	SourcePath   string
	ArtifactPath string
}

// NewWorkspace allocates a uniquely named scratch directory under
// baseDir for one execution attempt.
func NewWorkspace(baseDir, sourceFile, artifactFile string) (*Workspace, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	root := filepath.Join(baseDir, "run_"+uuid.NewString())
	if err := os.Mkdir(root, 0o700); err != nil {
		return nil, err
	}
	return &Workspace{
		Root:         root,
		SourcePath:   filepath.Join(root, sourceFile),
		ArtifactPath: filepath.Join(root, artifactFile),
	}, nil
}

// WriteSource writes the submitted text verbatim to the source file.
func (w *Workspace) WriteSource(code string) error {
	return os.WriteFile(w.SourcePath, []byte(code), 0o600)
}

// Remove deletes the whole workspace tree.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.Root)
}
