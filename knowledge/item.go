package knowledge

import "strings"

// Item is one retrievable snippet of domain knowledge. Items are value
// objects; the store owns the only long-lived copies.
type Item struct {
	Category string         `json:"category"`
	Content  string         `json:"content"`
	Keywords []string       `json:"keywords"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Match is an item ranked by similarity against a query.
type Match struct {
	Item       Item    `json:"item"`
	Similarity float64 `json:"similarity"`
}

// MetaStrings reads a string-list metadata value, tolerating the []any shape
// that json.Unmarshal produces.
func (it Item) MetaStrings(key string) []string {
	v, ok := it.Metadata[key]
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// MetaString reads a plain string metadata value.
func (it Item) MetaString(key string) string {
	if s, ok := it.Metadata[key].(string); ok {
		return s
	}
	return ""
}

// TopCategory returns the segment before the first " - " separator,
// e.g. "Technology" for "Technology - CMS - WORDPRESS".
func (it Item) TopCategory() string {
	if idx := strings.Index(it.Category, " - "); idx >= 0 {
		return it.Category[:idx]
	}
	return it.Category
}

func (it Item) hasKeyword(term string) bool {
	for _, kw := range it.Keywords {
		if strings.EqualFold(kw, term) {
			return true
		}
	}
	return false
}
