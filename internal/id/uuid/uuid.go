// Package uuid mints the run_id attached to every log line of a run.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator mints time-ordered run IDs.
type Generator struct{}

// NewGenerator returns a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// NewID returns a v7 UUID, so IDs of later runs sort after earlier ones.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("new run id: %w", err)
	}
	return id.String(), nil
}
