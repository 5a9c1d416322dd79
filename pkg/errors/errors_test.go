package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrTeamRejected, "team team-1 failed validation")

	assert.True(t, errors.Is(err, ErrTeamRejected))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, "team failed validation", ErrTeamRejected.Message)
	assert.Equal(t, ErrConflict.Message, Clone(ErrConflict, "").Message)
}

func TestHasCodeThroughWrapping(t *testing.T) {
	rejected := Wrap(errors.New("too few members"), ErrTeamRejected.Code, ErrTeamRejected.Status, "team rejected")
	wrapped := fmt.Errorf("create team: %w", rejected)

	assert.True(t, HasCode(wrapped, "TEAM_REJECTED"))
	assert.False(t, HasCode(wrapped, ErrNotFound.Code))
	assert.False(t, HasCode(errors.New("plain"), ErrInternal.Code))
	assert.ErrorContains(t, wrapped, "too few members")
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	assert.Nil(t, FromError(nil))

	appErr := FromError(errors.New("connection reset"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, ErrInternal.Message, appErr.Message)

	notFound := Clone(ErrNotFound, "run r-1 not found")
	assert.Same(t, notFound, FromError(fmt.Errorf("lookup: %w", notFound)))
}
