package bulk

import (
	"encoding/json"
	"strings"
)

// URLRequest is the submission payload. Clients send either a bare JSON
// array of URLs or an object with a "urls" key; both decode to the same
// request.
type URLRequest struct {
	URLs []string `json:"urls"`
}

func (r *URLRequest) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, &r.URLs)
	}
	type alias URLRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	r.URLs = a.URLs
	return nil
}

// NormalizeURL prepends https:// when the URL carries no scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}
