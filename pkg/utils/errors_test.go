package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredErrorWrapping(t *testing.T) {
	err := NewFileSystemError("load items", "items.yaml", fs.ErrNotExist)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, "items.yaml", err.Resource)
	assert.Equal(t, "[FS_ERROR] Filesystem error during load items: file does not exist", err.Error())
	assert.Equal(t, "filesystem", err.Category.String())
}

func TestAsStructured(t *testing.T) {
	assert.Nil(t, AsStructured(nil))

	v := NewValidationError("server_port", "must be positive")
	wrapped := fmt.Errorf("config: %w", v)
	assert.Same(t, v, AsStructured(wrapped))
	assert.True(t, IsValidationError(wrapped))

	plain := AsStructured(errors.New("boom"))
	assert.Equal(t, "SYS_ERROR", plain.Code)
	assert.False(t, IsValidationError(plain))
}

func TestEvaluationErrorMetadata(t *testing.T) {
	err := NewEvaluationError("{x", errors.New("syntax"))
	assert.Equal(t, "{x", err.Metadata["expression"])
	assert.Equal(t, CategoryEvaluation, err.Category)
}
