package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// DefaultTimeout bounds a model check.
const DefaultTimeout = 30 * time.Second

// Compiler runs the MiniZinc compiler in checking mode.
type Compiler struct {
	// Path is the compiler executable.
	Path string

	// Args are passed before the model file. The default requests the
	// JSON message stream with location paths.
	Args []string

	// Timeout bounds a single run; zero uses DefaultTimeout.
	Timeout time.Duration
}

// NewCompiler creates a compiler runner for the executable at path.
func NewCompiler(path string) *Compiler {
	return &Compiler{
		Path: path,
		Args: []string{"--json-stream", "--model-check-only", "--output-paths"},
	}
}

// Check runs the compiler on a model file and parses its output. A
// nonzero exit is not an error when the compiler reported messages:
// a model with type errors is the normal case.
func (c *Compiler) Check(ctx context.Context, file string) (*Result, error) {
	if c == nil || c.Path == "" {
		return nil, ErrNoCompiler
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, c.Args...), file)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res, err := Parse(&stdout, file)
	if err != nil {
		return nil, fmt.Errorf("reading compiler output: %w", err)
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return nil, fmt.Errorf("running %s: %w", c.Path, runErr)
	}
	if runErr != nil && len(res.Records) == 0 && len(res.Messages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCompilerFailed, bytes.TrimSpace(stderr.Bytes()))
	}
	return res, nil
}

// CheckSource checks unsaved text for the model at path. The text is
// written under the model's base name in a temporary directory so that
// located messages and symbol keys refer to the same file name; the
// model's own directory stays on the include path.
func (c *Compiler) CheckSource(ctx context.Context, path, text string) (*Result, error) {
	if c == nil || c.Path == "" {
		return nil, ErrNoCompiler
	}

	dir, err := os.MkdirTemp("", "mzedit-")
	if err != nil {
		return nil, fmt.Errorf("creating check directory: %w", err)
	}
	defer os.RemoveAll(dir)

	name := filepath.Base(path)
	if path == "" {
		name = "model.mzn"
	}
	file := filepath.Join(dir, name)
	if err := os.WriteFile(file, []byte(text), 0o600); err != nil {
		return nil, fmt.Errorf("writing check copy: %w", err)
	}

	run := *c
	if path != "" {
		run.Args = append(append([]string{}, c.Args...), "-I", filepath.Dir(path))
	}
	return run.Check(ctx, file)
}
