package authz

import "testing"

func TestMatchPath_NamedSegment(t *testing.T) {
	if !MatchPath("/todo/:id", "/todo/507f1f77bcf86cd799439011") {
		t.Fatal("expected named segment to match concrete id")
	}
	if !MatchPath("/todo/:id", "/todo/abc") {
		t.Fatal("expected named segment to match any non-empty segment")
	}
}

func TestMatchPath_SegmentCountMismatch(t *testing.T) {
	if MatchPath("/todo/:id", "/todo/abc/extra") {
		t.Fatal("expected mismatch: concrete path has an extra segment")
	}
	if MatchPath("/todo/:id", "/todo") {
		t.Fatal("expected mismatch: concrete path is missing a segment")
	}
	if MatchPath("/todo", "/todo/abc") {
		t.Fatal("expected mismatch: pattern is shorter than path")
	}
}

func TestMatchPath_LiteralSegments(t *testing.T) {
	if MatchPath("/todo/:id", "/todoo/abc") {
		t.Fatal("expected mismatch: literal segment differs")
	}
	if !MatchPath("/todo/list", "/todo/list") {
		t.Fatal("expected exact literal match")
	}
	// Case-sensitive
	if MatchPath("/todo/list", "/todo/List") {
		t.Fatal("expected case-sensitive literal comparison")
	}
}

func TestMatchPath_PercentDecoding(t *testing.T) {
	if !MatchPath("/todo/my list", "/todo/my%20list") {
		t.Fatal("expected concrete segment to be percent-decoded before comparison")
	}
	if !MatchPath("/todo/:id", "/todo/a%2Fb") {
		t.Fatal("expected encoded slash to stay within one segment")
	}
	// Undecodable segment compares raw, never panics.
	if !MatchPath("/todo/a%zz", "/todo/a%zz") {
		t.Fatal("expected undecodable segment to compare raw")
	}
}

func TestMatchPath_RootAndTrailingSlash(t *testing.T) {
	if !MatchPath("/", "/") {
		t.Fatal("expected root to match root")
	}
	if !MatchPath("/todo/list", "/todo/list/") {
		t.Fatal("expected trailing slash to be ignored")
	}
	if MatchPath("/todo/:id", "/todo/") {
		t.Fatal("expected empty segment not to satisfy a named segment")
	}
}
