package upgrade

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/rancher-client/internal/messages"
)

// ErrAborted is returned when the operator declines the confirmation prompt.
var ErrAborted = errors.New(messages.UpgradeAbortedErr)

// ServiceNotFoundError lists every requested service the stack does not have.
type ServiceNotFoundError struct {
	Missing []string
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf(messages.UpgradeServicesNotFoundFmt, strings.Join(e.Missing, ", "))
}

// StageError tags a pipeline failure with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf(messages.UpgradeStageErrFmt, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
