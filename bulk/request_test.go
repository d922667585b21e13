package bulk

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestURLRequestUnmarshal(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected []string
		wantErr  bool
	}{
		{"Object", `{"urls": ["a.test", "b.test"]}`, []string{"a.test", "b.test"}, false},
		{"BareArray", `["a.test", "b.test"]`, []string{"a.test", "b.test"}, false},
		{"EmptyArray", `[]`, nil, false},
		{"EmptyObject", `{}`, nil, false},
		{"Garbage", `"just a string"`, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req URLRequest
			err := json.Unmarshal([]byte(tc.payload), &req)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tc.expected) == 0 && len(req.URLs) == 0 {
				return
			}
			if !reflect.DeepEqual(req.URLs, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, req.URLs)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"acme.test", "https://acme.test"},
		{"  acme.test ", "https://acme.test"},
		{"http://acme.test", "http://acme.test"},
		{"https://acme.test", "https://acme.test"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := NormalizeURL(tc.in); got != tc.expected {
			t.Errorf("NormalizeURL(%q): expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}
