package db

import (
	"strings"
	"testing"
)

func TestParseSort(t *testing.T) {
	cases := []struct {
		in    string
		field SortField
		desc  bool
	}{
		{"created_at:desc", SortByCreatedAt, true},
		{"views:desc", SortByViews, true},
		{"id:asc", SortByID, false},
		{"title:ASC", SortByTitle, false},
		{" author : desc ", SortByAuthor, true},
		// Malformed values fall back to created_at:desc.
		{"", SortByCreatedAt, true},
		{"id", SortByCreatedAt, true},
		{"bogus:asc", SortByCreatedAt, true},
		{"id:sideways", SortByCreatedAt, true},
		{"id:asc:extra", SortByCreatedAt, true},
	}

	for _, c := range cases {
		field, desc := ParseSort(c.in)
		if field != c.field || desc != c.desc {
			t.Errorf("ParseSort(%q) = (%s, %v), want (%s, %v)", c.in, field, desc, c.field, c.desc)
		}
	}
}

func TestParseSortExtraColon(t *testing.T) {
	// SplitN keeps the remainder in the direction part, which is then
	// rejected, so the fallback applies.
	field, desc := ParseSort("title:asc:asc")
	if field != SortByCreatedAt || !desc {
		t.Fatalf("expected fallback, got (%s, %v)", field, desc)
	}
}

func TestValidateCreate(t *testing.T) {
	ok := PostCreate{Title: "t", Author: "a", Content: "c"}
	if err := ValidateCreate(ok); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	if err := ValidateCreate(PostCreate{Title: "", Author: "a", Content: "c"}); err == nil {
		t.Fatalf("empty title accepted")
	}
	if err := ValidateCreate(PostCreate{Title: strings.Repeat("x", 121), Author: "a", Content: "c"}); err == nil {
		t.Fatalf("overlong title accepted")
	}
	if err := ValidateCreate(PostCreate{Title: "t", Author: strings.Repeat("x", 41), Content: "c"}); err == nil {
		t.Fatalf("overlong author accepted")
	}
	if err := ValidateCreate(PostCreate{Title: "t", Author: "a", Content: strings.Repeat("x", 5001)}); err == nil {
		t.Fatalf("overlong content accepted")
	}

	// Limits count runes, not bytes.
	hangul := strings.Repeat("글", 120)
	if err := ValidateCreate(PostCreate{Title: hangul, Author: "a", Content: "c"}); err != nil {
		t.Fatalf("120-rune title rejected: %v", err)
	}
}

func TestValidateUpdateOnlyPresentFields(t *testing.T) {
	if err := ValidateUpdate(PostUpdate{}); err != nil {
		t.Fatalf("empty update rejected: %v", err)
	}

	bad := ""
	if err := ValidateUpdate(PostUpdate{Title: &bad}); err == nil {
		t.Fatalf("empty title accepted")
	}

	good := "new title"
	if err := ValidateUpdate(PostUpdate{Title: &good}); err != nil {
		t.Fatalf("valid update rejected: %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}
	for _, c := range cases {
		if got := EscapeLike(c.in); got != c.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMatchesQuery(t *testing.T) {
	p := Post{Title: "Hello World", Author: "홍길동", Content: "Some BODY text"}

	if !MatchesQuery(p, "") {
		t.Fatalf("empty term should match everything")
	}
	if !MatchesQuery(p, "hello") {
		t.Fatalf("title match failed")
	}
	if !MatchesQuery(p, "홍길동") {
		t.Fatalf("author match failed")
	}
	if !MatchesQuery(p, "body") {
		t.Fatalf("case-insensitive content match failed")
	}
	if MatchesQuery(p, "missing") {
		t.Fatalf("non-matching term matched")
	}
}
