package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRequest_Validate(t *testing.T) {
	tooHigh := 1.5
	ok := 0.8

	tests := []struct {
		name    string
		request ExtractRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "text only",
			request: ExtractRequest{Text: "Go developer"},
		},
		{
			name:    "url only",
			request: ExtractRequest{URL: "https://example.com/resume"},
		},
		{
			name:    "neither text nor url",
			request: ExtractRequest{},
			wantErr: true,
			errMsg:  "required_without",
		},
		{
			name:    "invalid url",
			request: ExtractRequest{URL: "not a url"},
			wantErr: true,
			errMsg:  "url",
		},
		{
			name:    "confidence out of range",
			request: ExtractRequest{Text: "x", MinConfidence: &tooHigh},
			wantErr: true,
			errMsg:  "lte",
		},
		{
			name:    "confidence in range",
			request: ExtractRequest{Text: "x", MinConfidence: &ok},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMatchSkillsRequest_Validate(t *testing.T) {
	assert.NoError(t, (&MatchSkillsRequest{Text: "python"}).Validate())
	assert.Error(t, (&MatchSkillsRequest{}).Validate())
	assert.Error(t, (&MatchSkillsRequest{Text: "python", MaxGram: 10}).Validate())
}
