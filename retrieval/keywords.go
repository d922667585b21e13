package retrieval

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball"
)

type keywordScore struct {
	phrase string
	score  float64
}

// rakeExtractor pulls candidate key phrases out of free text using RAKE:
// split on stop words and punctuation, then score phrases by summed word
// degree over frequency.
type rakeExtractor struct {
	stopWords   map[string]bool
	punctuation *regexp.Regexp
}

func newRAKEExtractor() *rakeExtractor {
	stopList := []string{
		"a", "an", "and", "are", "as", "at", "be", "been", "by", "for", "from",
		"has", "he", "in", "is", "it", "its", "of", "on", "that", "the", "to",
		"was", "will", "with", "would", "could", "should", "may", "might",
		"can", "must", "shall", "this", "these", "they", "them", "their",
		"there", "then", "than", "or", "but", "not", "no", "nor", "so", "yet",
		"however", "therefore", "thus", "hence", "because", "since",
		"although", "though", "unless", "until", "while", "where", "when",
		"who", "whom", "whose", "which", "what", "why", "how", "if", "do",
		"does", "did", "have", "had", "having", "we", "you", "your", "our",
		"us", "all", "more", "most", "other", "some", "such", "only", "own",
		"same", "too", "very", "just", "about", "into", "over", "after",
	}
	stopWords := make(map[string]bool, len(stopList))
	for _, w := range stopList {
		stopWords[w] = true
	}

	return &rakeExtractor{
		stopWords:   stopWords,
		punctuation: regexp.MustCompile(`[^\w\s]`),
	}
}

func (r *rakeExtractor) candidatePhrases(text string) []string {
	text = strings.ToLower(text)

	// Punctuation is a phrase boundary, the same as a stop word. Splitting
	// before tokenizing keeps "strategy. support" from fusing into one phrase.
	var phrases []string
	for _, fragment := range r.punctuation.Split(text, -1) {
		var current []string
		for _, word := range strings.Fields(fragment) {
			if r.stopWords[word] || len(word) < 2 {
				if len(current) > 0 {
					phrases = append(phrases, strings.Join(current, " "))
					current = nil
				}
				continue
			}
			current = append(current, word)
		}
		if len(current) > 0 {
			phrases = append(phrases, strings.Join(current, " "))
		}
	}
	return phrases
}

// Extract returns up to max key phrases, best first. Phrases that stem to
// the same root are deduplicated so plural variants do not crowd the result.
func (r *rakeExtractor) Extract(text string, max int) []string {
	phrases := r.candidatePhrases(text)
	if len(phrases) == 0 {
		return nil
	}

	frequency := make(map[string]float64)
	degree := make(map[string]float64)
	for _, phrase := range phrases {
		words := strings.Fields(phrase)
		for _, w := range words {
			frequency[w]++
			degree[w] += float64(len(words) - 1)
		}
	}

	scored := make([]keywordScore, 0, len(phrases))
	seen := make(map[string]bool)
	for _, phrase := range phrases {
		stemmed := stemPhrase(phrase)
		if seen[stemmed] {
			continue
		}
		seen[stemmed] = true

		var score float64
		for _, w := range strings.Fields(phrase) {
			score += (degree[w] + frequency[w]) / frequency[w]
		}
		scored = append(scored, keywordScore{phrase: phrase, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if max > len(scored) {
		max = len(scored)
	}
	out := make([]string, 0, max)
	for _, ks := range scored[:max] {
		out = append(out, ks.phrase)
	}
	return out
}

func stemPhrase(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		if stem, err := snowball.Stem(w, "english", true); err == nil {
			words[i] = stem
		}
	}
	return strings.Join(words, " ")
}

var defaultRAKE = newRAKEExtractor()

// CondenseQuery shortens long page text into a keyword-dense retrieval query.
// Text already within maxLen passes through untouched; anything longer is
// replaced by its top RAKE phrases, capped at maxLen.
func CondenseQuery(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}

	phrases := defaultRAKE.Extract(text, 25)
	if len(phrases) == 0 {
		return truncate(text, maxLen)
	}

	var b strings.Builder
	for _, p := range phrases {
		if b.Len()+len(p)+1 > maxLen {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	if b.Len() == 0 {
		return truncate(text, maxLen)
	}
	return b.String()
}

// truncate caps s at max bytes, backing off to a rune boundary so a
// multi-byte character is never split mid-sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
