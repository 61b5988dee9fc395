package operations

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/brent-soan/CSADPRG/internal/errors"
)

func TestStepState_Lifecycle(t *testing.T) {
	s := NewStepState("clean", "clean")
	assert.Equal(t, StepStatusPending, s.GetStatus())
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, StepStatusActive, s.GetStatus())
	require.NotNil(t, s.StartTime)

	s.Complete()
	assert.Equal(t, StepStatusCompleted, s.GetStatus())
	require.NotNil(t, s.EndTime)
	assert.GreaterOrEqual(t, s.Duration().Nanoseconds(), int64(0))

	failed := NewStepState("export", "export")
	failed.Start()
	failed.Fail(assert.AnError)
	assert.Equal(t, StepStatusFailed, failed.GetStatus())
	assert.Equal(t, assert.AnError, failed.Error)
}

func TestRunState(t *testing.T) {
	run := NewRunState("run-1", OperationLoad, LoadSteps...)
	assert.Equal(t, RunStatusPending, run.Status)
	require.Len(t, run.Steps, 2)
	assert.Equal(t, StepIngest, run.Steps[0].ID)
	assert.Nil(t, run.Step("missing"))

	run.Start()
	assert.Equal(t, RunStatusRunning, run.Status)
	run.Step(StepIngest).Fail(assert.AnError)
	assert.True(t, run.HasFailures())

	run.Fail(assert.AnError)
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.NotNil(t, run.EndTime)
}

func TestStepError(t *testing.T) {
	cause := apperrors.NewExportError("failed to write", errors.New("disk full"))
	err := fmt.Errorf("menu: %w", NewStepError(OperationGenerate, StepExport, cause))

	assert.Contains(t, err.Error(), "generate: step export")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeExport))

	step, ok := FailedStep(err)
	assert.True(t, ok)
	assert.Equal(t, StepExport, step)

	_, ok = FailedStep(errors.New("plain"))
	assert.False(t, ok)

	var nilErr *StepError
	assert.Equal(t, "unknown step error", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(NewStepError(OperationLoad, StepIngest, context.Canceled)))
	assert.True(t, IsCancellation(context.DeadlineExceeded))
	assert.False(t, IsCancellation(assert.AnError))
}
