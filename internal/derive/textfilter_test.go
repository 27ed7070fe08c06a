package derive

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "any update on this?",
			want:  "any update on this?",
		},
		{
			name:  "inline code span removed",
			input: "run `go build` first",
			want:  "run  first",
		},
		{
			name:  "fenced block removed",
			input: "before\n```\nno update\n```\nafter",
			want:  "before\n\nafter",
		},
		{
			name:  "multiline span removed",
			input: "a `line one\nline two` b",
			want:  "a  b",
		},
		{
			name:  "escaped backtick stays literal",
			input: `a \` + "`" + `no update here`,
			want:  `a \` + "`" + `no update here`,
		},
		{
			name:  "escaped backslashes do not hide a span",
			input: `a \\` + "`no update`" + ` b`,
			want:  "a  b",
		},
		{
			name:  "unmatched run kept",
			input: "a ``` b",
			want:  "a ``` b",
		},
		{
			name:  "mismatched widths skip to matching closer",
			input: "a ``x ` y`` b",
			want:  "a  b",
		},
		{
			name:  "block quote line blanked",
			input: "> no update\nstill waiting",
			want:  "\nstill waiting",
		},
		{
			name:  "only leading angle bracket counts",
			input: "a > b",
			want:  "a > b",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
