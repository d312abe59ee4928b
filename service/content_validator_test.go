package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentValidator(t *testing.T) {
	v := NewContentValidator()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "empty string",
			content: "",
			wantErr: ErrNoContent,
		},
		{
			name:    "whitespace only",
			content: "   \n\t  \n ",
			wantErr: ErrNoContent,
		},
		{
			name:    "49 characters is too short",
			content: strings.Repeat("a", 49),
			wantErr: ErrContentTooShort,
		},
		{
			name:    "50 characters is accepted",
			content: strings.Repeat("a", 50),
			wantErr: nil,
		},
		{
			name:    "short after trimming",
			content: "   short policy   ",
			wantErr: ErrContentTooShort,
		},
		{
			name:    "normal policy text",
			content: "All personal data collected by the company must be stored securely and retained for no longer than necessary.",
			wantErr: nil,
		},
		{
			name:    "mostly binary bytes",
			content: strings.Repeat("\x00\x01", 40) + "some text here",
			wantErr: ErrBinaryContent,
		},
		{
			name:    "small amount of high bytes is tolerated",
			content: strings.Repeat("valid policy text ", 10) + "\x80\x81",
			wantErr: nil,
		},
		{
			name:    "tabs and newlines are printable",
			content: "Section 1.\n\tData handling rules apply to every employee of the organization.",
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.content)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.True(t, v.IsValid(tt.content))
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, v.IsValid(tt.content))
			}
		})
	}
}

func TestContentValidatorBinaryFractionBoundary(t *testing.T) {
	v := NewContentValidator()

	// 100 bytes with 20 non-printable is exactly the 0.2 threshold and
	// must pass; 21 must fail.
	base := strings.Repeat("a", 80)
	assert.NoError(t, v.Validate(base+strings.Repeat("\x00", 20)))
	assert.ErrorIs(t, v.Validate(base[:79]+strings.Repeat("\x00", 21)), ErrBinaryContent)
}
