package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Status_Precedence(t *testing.T) {
	assert.Greater(t, StatusFailed.Precedence(), StatusWarnings.Precedence())
	assert.Greater(t, StatusWarnings.Precedence(), StatusPassed.Precedence())
	assert.Equal(t, -1, Status("bogus").Precedence())
}

func Test_Status_Predicates(t *testing.T) {
	assert.True(t, StatusFailed.IsFailure())
	assert.False(t, StatusWarnings.IsFailure())
	assert.True(t, StatusPassed.IsSuccess())
	assert.False(t, StatusFailed.IsSuccess())
}

func Test_Status_Validate(t *testing.T) {
	for _, s := range []Status{StatusPassed, StatusWarnings, StatusFailed} {
		assert.NoError(t, s.Validate())
	}
	assert.Error(t, Status("passed").Validate())
	assert.Error(t, Status("").Validate())
}
