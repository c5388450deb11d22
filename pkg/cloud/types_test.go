package cloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionTargetState(t *testing.T) {
	assert.Equal(t, StateActive, ActionStart.TargetState())
	assert.Equal(t, StateShutoff, ActionStop.TargetState())
}

func TestActionValid(t *testing.T) {
	assert.True(t, ActionStart.Valid())
	assert.True(t, ActionStop.Valid())
	assert.False(t, Action("reboot").Valid())
}

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateActive.Terminal())
	assert.True(t, StateShutoff.Terminal())
	assert.False(t, StateTransition.Terminal())
	assert.False(t, StateError.Terminal())
	assert.False(t, StateUnknown.Terminal())
}
