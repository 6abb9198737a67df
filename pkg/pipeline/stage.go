// Package pipeline provides the shared types and stage abstraction for phonecam.
package pipeline

import (
	"context"
)

// Stage turns one input into one output. Stages are called from a single
// goroutine and must honor ctx before doing work.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// FrameStage consumes inbound payloads on behalf of the connection supervisor.
type FrameStage = Stage[Payload, FrameReport]
