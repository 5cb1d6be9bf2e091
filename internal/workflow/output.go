package workflow

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"seamless/internal/services"
)

// outputLock guards an output path against concurrent runs writing the same
// artifact.
type outputLock struct {
	path string
	lock *flock.Flock
}

func lockOutput(output string) (*outputLock, error) {
	path := output + ".lock"
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrInput, stageEncode, "lock output", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrInput, stageEncode, "lock output",
			fmt.Sprintf("%s is being written by another run", output), nil)
	}
	return &outputLock{path: path, lock: lock}, nil
}

func (l *outputLock) release() error {
	if err := l.lock.Unlock(); err != nil {
		return err
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
