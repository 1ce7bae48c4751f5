package llm

import "testing"

func TestCleanNarrative(t *testing.T) {
	tests := []struct {
		name   string
		output string
		prompt string
		want   string
	}{
		{
			name:   "plain text trimmed",
			output: "  Bitcoin edges higher.  ",
			want:   "Bitcoin edges higher.",
		},
		{
			name:   "echoed prompt removed",
			output: "Summarize this.\nBitcoin edges higher.",
			prompt: "Summarize this.",
			want:   "Bitcoin edges higher.",
		},
		{
			name:   "paragraphs kept, single newlines folded",
			output: "Bitcoin edges\nhigher.\n\n\n  Ether   slips.",
			want:   "Bitcoin edges higher.\n\nEther slips.",
		},
		{
			name:   "markup stripped",
			output: "<p>Bitcoin <b>edges</b> higher.</p><p>Ether slips.<br>Volumes thin.</p><script>x()</script>",
			want:   "Bitcoin edges higher.\n\nEther slips. Volumes thin.",
		},
		{
			name:   "comparison signs are not markup",
			output: "Fees stay < 1% & volumes > average.",
			want:   "Fees stay < 1% & volumes > average.",
		},
		{
			name:   "whitespace only",
			output: " \n\t ",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanNarrative(tt.output, tt.prompt)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
