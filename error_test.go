package antmaster_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/antmaster"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := antmaster.Errorf(antmaster.ENOTFOUND, "species %d not found", 7)

	assert.Equal(t, antmaster.ENOTFOUND, antmaster.ErrorCode(err))
	assert.Equal(t, "species 7 not found", antmaster.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, antmaster.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, antmaster.ErrorMessage(nil))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("ask: %w", antmaster.Errorf(antmaster.EUNAVAILABLE, "backend down"))

	assert.Equal(t, antmaster.EUNAVAILABLE, antmaster.ErrorCode(err))
	assert.Equal(t, "backend down", antmaster.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, antmaster.EINTERNAL, antmaster.ErrorCode(err))
	assert.Equal(t, "Internal error.", antmaster.ErrorMessage(err))
}
