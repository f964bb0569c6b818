package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusParsing))
	assert.True(t, CanTransition(StatusParsing, StatusValidating))
	assert.True(t, CanTransition(StatusValidating, StatusImporting))
	assert.True(t, CanTransition(StatusImporting, StatusCompleted))
	assert.True(t, CanTransition(StatusCompleted, StatusRolledBack))

	assert.False(t, CanTransition(StatusPending, StatusImporting), "no skipping forward")
	assert.False(t, CanTransition(StatusCompleted, StatusImporting), "terminal jobs never re-enter importing")
	assert.False(t, CanTransition(StatusFailed, StatusParsing))
	assert.False(t, CanTransition(StatusRolledBack, StatusCompleted))
}
