package sanitize_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostkit/relay/pkg/sanitize"
)

func TestActionName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "passes clean name through",
			input:    "submit_contact_form",
			expected: "submit_contact_form",
		},
		{
			name:     "lowercases uppercase letters",
			input:    "SubmitForm",
			expected: "submitform",
		},
		{
			name:     "strips spaces",
			input:    "submit form",
			expected: "submitform",
		},
		{
			name:     "strips shell metacharacters",
			input:    "submit;rm -rf /",
			expected: "submitrm-rf",
		},
		{
			name:     "strips quotes",
			input:    `submit"form'`,
			expected: "submitform",
		},
		{
			name:     "strips angle brackets",
			input:    "<script>alert(1)</script>",
			expected: "scriptalert1script",
		},
		{
			name:     "keeps hyphens and digits",
			input:    "page-2-load",
			expected: "page-2-load",
		},
		{
			name:     "strips unicode",
			input:    "événement",
			expected: "vnement",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "nothing survives",
			input:    "!!! ;;;",
			expected: "",
		},
	}

	allowed := regexp.MustCompile(`^[a-z0-9_-]*$`)

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := sanitize.ActionName(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Regexp(t, allowed, got)
		})
	}
}
