package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ValidSpec(t *testing.T) {
	s := NewScheduler(func() {})
	require.NoError(t, s.Register("0 0 8 * * *"))
	s.Start()
	s.Stop()
}

func TestRegister_InvalidSpec(t *testing.T) {
	s := NewScheduler(func() {})
	assert.Error(t, s.Register("every day at breakfast"))
}
