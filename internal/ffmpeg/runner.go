package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

const command = "ffmpeg"

// Runner invokes the transcode tool. The pipeline owns all user-facing
// reporting, so implementations suppress the tool's native output entirely.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Exec runs ffmpeg as a subprocess. The binary must be on PATH.
type Exec struct{}

// Run implements Runner. Non-zero exit, or cancellation of ctx, is returned
// as an error.
func (Exec) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", command, ctxErr)
		}
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}
