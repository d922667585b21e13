package retrieval

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCandidatePhrases(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "StopWordsSplit",
			text: "The quick brown fox jumps over a lazy dog.",
			want: []string{"quick brown fox jumps", "lazy dog"},
		},
		{
			name: "PunctuationSplits",
			text: "cloud migration strategy. support. support.",
			want: []string{"cloud migration strategy", "support", "support"},
		},
		{
			name: "CommaSplits",
			text: "managed hosting, security audits",
			want: []string{"managed hosting", "security audits"},
		},
	}

	r := newRAKEExtractor()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			phrases := r.candidatePhrases(tc.text)
			if len(phrases) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, phrases)
			}
			for i := range tc.want {
				if phrases[i] != tc.want[i] {
					t.Errorf("phrase %d: expected %q, got %q", i, tc.want[i], phrases[i])
				}
			}
		})
	}
}

func TestExtractDeduplicatesStems(t *testing.T) {
	r := newRAKEExtractor()
	phrases := r.Extract("managed service. managed services. cloud migration.", 10)

	count := 0
	for _, p := range phrases {
		if strings.HasPrefix(p, "managed service") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected stem-equal phrases collapsed to one, got %v", phrases)
	}
}

func TestExtractRanksLongerPhrasesFirst(t *testing.T) {
	r := newRAKEExtractor()
	phrases := r.Extract("enterprise cloud migration strategy. support. support.", 2)
	if len(phrases) == 0 {
		t.Fatal("expected phrases")
	}
	if phrases[0] != "enterprise cloud migration strategy" {
		t.Errorf("expected multi-word phrase ranked first, got %q", phrases[0])
	}
}

func TestCondenseQuery(t *testing.T) {
	t.Run("ShortTextPassesThrough", func(t *testing.T) {
		text := "small business website"
		if got := CondenseQuery(text, 100); got != text {
			t.Errorf("expected passthrough, got %q", got)
		}
	})

	t.Run("LongTextCondensed", func(t *testing.T) {
		long := strings.Repeat("our healthcare clinic provides patient management software. ", 20)
		got := CondenseQuery(long, 120)
		if len(got) > 120 {
			t.Fatalf("condensed query exceeds cap: %d chars", len(got))
		}
		if !strings.Contains(got, "healthcare clinic") {
			t.Errorf("expected key phrase retained, got %q", got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := CondenseQuery("   ", 50); got != "" {
			t.Errorf("expected empty result, got %q", got)
		}
	})

	t.Run("MultiByteBoundary", func(t *testing.T) {
		got := CondenseQuery(strings.Repeat("é", 100), 51)
		if !utf8.ValidString(got) {
			t.Fatalf("truncation split a rune: %q", got)
		}
		if len(got) > 51 {
			t.Errorf("cap exceeded: %d bytes", len(got))
		}
	})
}
