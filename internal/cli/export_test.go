package cli

import (
	"bytes"
	"context"

	"github.com/calvinalkan/lrutable/internal/fs"
)

// RunWithFS runs the CLI against fsys instead of the real filesystem.
func (r *CLI) RunWithFS(fsys fs.FS, stdin string, args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"lrut", "--cwd", r.Dir}, args...)
	code := run(context.Background(), bytes.NewBufferString(stdin), &outBuf, &errBuf, fullArgs, r.Env, fsys)

	return outBuf.String(), errBuf.String(), code
}
