package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IssueType_IsFatal(t *testing.T) {
	tests := []struct {
		issueType IssueType
		fatal     bool
	}{
		{IssueNoModelsData, true},
		{IssueModelNotFound, true},
		{IssuePredictWindowNotFound, true},
		{IssuePredictWindowNotPositive, true},
		{IssueDependencyNotFound, false},
		{IssueNonFeatureInput, false},
		{IssueTimeFunctionInFeature, false},
		{IssueNonEventStreamInput, false},
		{IssueInsufficientHistoricData, false},
		{IssueDataValidationSkipped, false},
		{IssueValidationError, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.issueType), func(t *testing.T) {
			assert.Equal(t, tt.fatal, tt.issueType.IsFatal())
		})
	}
}

func Test_IssueType_Validate(t *testing.T) {
	assert.NoError(t, IssueFallbackInsufficientHistoricData.Validate())
	assert.NoError(t, IssueFallbackDataValidationSkipped.Validate())
	assert.Error(t, IssueType("SOMETHING_ELSE").Validate())
}
