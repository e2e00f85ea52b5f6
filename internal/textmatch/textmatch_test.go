package textmatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/textmatch"
)

func set(toks ...string) textmatch.TokenSet {
	s := make(textmatch.TokenSet, len(toks))
	for _, t := range toks {
		s[t] = struct{}{}
	}

	return s
}

func TestTokens(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  textmatch.TokenSet
	}

	tests := []testCase{
		{
			name:  "Empty",
			input: "",
			want:  set(),
		},
		{
			name:  "StopWordsAndShortTokensDropped",
			input: "Pagamento fattura Alfa",
			want:  set("alfa"),
		},
		{
			name:  "PunctuationAndWhitespace",
			input: "  Fattura   Alfa Srl.  ",
			want:  set("alfa", "srl"),
		},
		{
			name:  "DuplicatesCollapsed",
			input: "rent RENT Rent",
			want:  set("rent"),
		},
		{
			name:  "EnglishJargon",
			input: "Payment of invoice no. 42 transfer reference ACME",
			want:  set("acme"),
		},
		{
			name:  "AccentsFolded",
			input: "Caffè Università",
			want:  set("caffe", "universita"),
		},
		{
			name:  "HyphenSplits",
			input: "telecom-italia",
			want:  set("telecom", "italia"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textmatch.Tokens(tt.input))
		})
	}
}

func TestJaccard(t *testing.T) {
	a := set("alfa", "srl")
	b := set("alfa")
	c := set("beta")

	assert.Equal(t, 0.5, textmatch.Jaccard(a, b))
	assert.Equal(t, textmatch.Jaccard(a, b), textmatch.Jaccard(b, a))
	assert.Equal(t, 1.0, textmatch.Jaccard(a, a))
	assert.Equal(t, 0.0, textmatch.Jaccard(a, c))
	assert.Equal(t, 0.0, textmatch.Jaccard(set(), a))
	assert.Equal(t, 0.0, textmatch.Jaccard(a, set()))
	assert.Equal(t, 0.0, textmatch.Jaccard(set(), set()))
}

func TestJaccard_Bounded(t *testing.T) {
	inputs := []string{
		"",
		"Fattura Alfa Srl",
		"Pagamento fattura Alfa",
		"Enel energia bolletta marzo",
		"bolletta enel",
		"F24 IVA trimestrale",
	}

	for _, x := range inputs {
		for _, y := range inputs {
			got := textmatch.Similarity(x, y)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
			assert.Equal(t, got, textmatch.Similarity(y, x))
		}
	}
}
