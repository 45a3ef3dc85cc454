package publication

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "punctuation and symbols stripped",
			title: "C++ & Distributed Systems!!",
			want:  "c-distributed-systems",
		},
		{
			name:  "whitespace runs collapse",
			title: "C   Distributed Systems",
			want:  "c-distributed-systems",
		},
		{
			name:  "colon and parentheses",
			title: "Deep Learning: A Survey (2nd ed.)",
			want:  "deep-learning-a-survey-2nd-ed",
		},
		{
			name:  "repeated hyphens collapse",
			title: "Phylogenetic - inference -- methods",
			want:  "phylogenetic-inference-methods",
		},
		{
			name:  "leading hyphen kept, trailing trimmed",
			title: "  Leading and trailing  ",
			want:  "-leading-and-trailing",
		},
		{
			name:  "non-ascii letters dropped",
			title: "Café Résumé",
			want:  "caf-rsum",
		},
		{
			name:  "digits kept",
			title: "SARS-CoV-2 in 2020",
			want:  "sars-cov-2-in-2020",
		},
		{
			name:  "no-break space hyphenated",
			title: "Phylogenetic\u00a0inference",
			want:  "phylogenetic-inference",
		},
		{
			name:  "thin space and vertical tab hyphenated",
			title: "Bayesian\u2009phylogenetics\vrevisited",
			want:  "bayesian-phylogenetics-revisited",
		},
		{
			name:  "ideographic space and byte order mark",
			title: "Deep\u3000mutational\ufeffscanning",
			want:  "deep-mutational-scanning",
		},
		{
			name:  "empty",
			title: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugify_Truncation(t *testing.T) {
	// 30 words of "abc " is 120 characters; the cut at 80 lands right after
	// a hyphen, which is then trimmed.
	got := Slugify(strings.Repeat("abc ", 30))
	want := strings.Repeat("abc-", 19) + "abc"
	if got != want {
		t.Errorf("Slugify() = %q, want %q", got, want)
	}
	if len(got) > MaxSlugLen {
		t.Errorf("len = %d, exceeds %d", len(got), MaxSlugLen)
	}

	got = Slugify(strings.Repeat("ab ", 40))
	want = strings.Repeat("ab-", 26) + "ab"
	if got != want {
		t.Errorf("Slugify() = %q, want %q", got, want)
	}
}
