package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// PartialSuffix is appended to an artifact's final name while it is written.
const PartialSuffix = ".partial"

// PartialFile stages writes under "<path>.partial" and renames the file into
// place on Commit. Abort (or a failed Commit) removes the staged file so an
// interrupted write never leaves a truncated artifact under the final name.
type PartialFile struct {
	path    string
	staging string
	file    *os.File

	mu       sync.Mutex
	finished bool
	written  int64
}

// CreatePartial opens the staging file for path with the given permissions,
// truncating any leftover from an earlier interrupted run.
func CreatePartial(path string, mode os.FileMode) (*PartialFile, error) {
	if path == "" {
		return nil, errors.New("create partial: empty path")
	}
	staging := path + PartialSuffix
	f, err := os.OpenFile(staging, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return nil, fmt.Errorf("create partial %s: %w", staging, err)
	}
	return &PartialFile{path: path, staging: staging, file: f}, nil
}

// Path returns the final artifact path.
func (p *PartialFile) Path() string { return p.path }

// StagingPath returns the in-progress path.
func (p *PartialFile) StagingPath() string { return p.staging }

// Written reports the number of bytes accepted so far.
func (p *PartialFile) Written() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

func (p *PartialFile) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return 0, fmt.Errorf("write %s: file already finished", p.staging)
	}
	n, err := p.file.Write(b)
	p.written += int64(n)
	return n, err
}

// Commit flushes the staging file and renames it to the final path.
func (p *PartialFile) Commit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return fmt.Errorf("commit %s: file already finished", p.path)
	}
	p.finished = true

	if err := p.file.Sync(); err != nil {
		_ = p.file.Close()
		_ = os.Remove(p.staging)
		return fmt.Errorf("sync %s: %w", p.staging, err)
	}
	if err := p.file.Close(); err != nil {
		_ = os.Remove(p.staging)
		return fmt.Errorf("close %s: %w", p.staging, err)
	}
	if err := os.Rename(p.staging, p.path); err != nil {
		_ = os.Remove(p.staging)
		return fmt.Errorf("rename %s: %w", filepath.Base(p.staging), err)
	}
	return nil
}

// Abort discards the staging file. It is a no-op after Commit.
func (p *PartialFile) Abort() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return nil
	}
	p.finished = true
	closeErr := p.file.Close()
	removeErr := os.Remove(p.staging)
	if removeErr != nil && !os.IsNotExist(removeErr) {
		return removeErr
	}
	return closeErr
}
