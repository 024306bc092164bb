package urlscan

import "testing"

func TestDetectHttpsURL(t *testing.T) {
	row := "see https://example.com/path for docs"
	matches := Detect(row)
	if len(matches) != 1 {
		t.Fatalf("matches = %v", matches)
	}
	m := matches[0]
	if m.URL != "https://example.com/path" {
		t.Fatalf("URL = %q", m.URL)
	}
	if row[m.Start:m.End] != "https://example.com/path" {
		t.Fatalf("span mismatch: %q", row[m.Start:m.End])
	}
}

func TestDetectWwwGetsHttpsPrefix(t *testing.T) {
	row := "visit www.example.com now"
	matches := Detect(row)
	if len(matches) != 1 || matches[0].URL != "https://www.example.com" {
		t.Fatalf("matches = %+v", matches)
	}
}

func TestTrailingPunctuationStripped(t *testing.T) {
	row := "go to https://example.com/a, then stop."
	matches := Detect(row)
	if len(matches) != 1 || matches[0].URL != "https://example.com/a" {
		t.Fatalf("matches = %+v", matches)
	}
}

func TestTrailingParenKeptWhenBalanced(t *testing.T) {
	row := "(see https://example.com/a(b))"
	matches := Detect(row)
	if len(matches) != 1 {
		t.Fatalf("matches = %+v", matches)
	}
	// The span contains a '(', so the trailing ')' is kept, including
	// the one that closes the surrounding prose.
	if matches[0].URL != "https://example.com/a(b))" {
		t.Fatalf("URL = %q", matches[0].URL)
	}
}

func TestTrailingUnbalancedParenStripped(t *testing.T) {
	row := "see (https://example.com/a)"
	matches := Detect(row)
	if len(matches) != 1 || matches[0].URL != "https://example.com/a" {
		t.Fatalf("matches = %+v", matches)
	}
}

func TestBareSchemeWithNoDotRejected(t *testing.T) {
	row := "curl http://localhost/health"
	matches := Detect(row)
	if len(matches) != 0 {
		t.Fatalf("matches = %+v, want none (no dot after scheme)", matches)
	}
}

func TestPrefixOnlyRejected(t *testing.T) {
	row := "scheme is https://"
	matches := Detect(row)
	if len(matches) != 0 {
		t.Fatalf("matches = %+v, want none", matches)
	}
}

func TestIdempotenceOnNormalizedURL(t *testing.T) {
	row := "https://example.com/path?q=1"
	matches := Detect(row)
	if len(matches) != 1 {
		t.Fatalf("matches = %v", matches)
	}
	if matches[0].URL != row || matches[0].Start != 0 || matches[0].End != len(row) {
		t.Fatalf("round-trip mismatch: %+v", matches[0])
	}
}
