// Package file provides file-based persistence for forms and submissions.
// It is the default backend for local development and tests.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/formion/formion/pkg/persistence"
)

// Persistence implements persistence.Persistence on the file system. Every
// form and submission is one JSON document.
type Persistence struct {
	root           string
	formRepo       *FormRepository
	submissionRepo *SubmissionRepository
}

// NewPersistence creates a file persistence layer rooted at the given
// directory. A "file://" prefix is accepted and stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:           cleanRoot,
		formRepo:       NewFormRepository(cleanRoot),
		submissionRepo: NewSubmissionRepository(cleanRoot),
	}
}

func (fp *Persistence) FormRepository() persistence.FormRepository {
	return fp.formRepo
}

func (fp *Persistence) SubmissionRepository() persistence.SubmissionRepository {
	return fp.submissionRepo
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close is a no-op for file persistence.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}
