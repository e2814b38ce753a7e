package shared_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mkiss03/utazasparizsbaoff-sub000/shared"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{
			name:     "empty string returns nil",
			input:    "",
			expected: nil,
		},
		{
			name:     "valid true string",
			input:    "true",
			expected: boolPtr(true),
		},
		{
			name:     "valid false string",
			input:    "false",
			expected: boolPtr(false),
		},
		{
			name:     "valid 1 string",
			input:    "1",
			expected: boolPtr(true),
		},
		{
			name:     "valid 0 string",
			input:    "0",
			expected: boolPtr(false),
		},
		{
			name:     "invalid string returns nil",
			input:    "invalid",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", *result)
				}
			} else {
				if result == nil {
					t.Errorf("expected %v, got nil", *tt.expected)
				} else if *result != *tt.expected {
					t.Errorf("expected %v, got %v", *tt.expected, *result)
				}
			}
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{
			name:     "zero total returns 1",
			total:    0,
			limit:    10,
			expected: 1,
		},
		{
			name:     "zero limit returns 1",
			total:    100,
			limit:    0,
			expected: 1,
		},
		{
			name:     "exact division",
			total:    100,
			limit:    10,
			expected: 10,
		},
		{
			name:     "rounds up",
			total:    101,
			limit:    10,
			expected: 11,
		},
		{
			name:     "less than one page",
			total:    3,
			limit:    10,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := shared.CalculateTotalPage(tt.total, tt.limit); result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		Title           string `db:"title"`
		MaxParticipants int    `db:"max_participants"`
		Ignored         string
	}

	fields := shared.TransformFields(patch{Title: "Montmartre at Dusk", MaxParticipants: 12, Ignored: "x"}, "operator-1")

	if fields["title"] != "Montmartre at Dusk" {
		t.Errorf("expected title to be set, got %v", fields["title"])
	}
	if fields["max_participants"] != 12 {
		t.Errorf("expected max_participants to be set, got %v", fields["max_participants"])
	}
	if _, ok := fields["Ignored"]; ok {
		t.Error("expected field without db tag to be skipped")
	}
	if fields[constant.FieldModifiedBy] != "operator-1" {
		t.Errorf("expected modified_by to be operator-1, got %v", fields[constant.FieldModifiedBy])
	}
	if _, ok := fields[constant.FieldModifiedAt]; !ok {
		t.Error("expected modified_at to be stamped")
	}

	// Zero values stay out of the patch.
	empty := shared.TransformFields(patch{}, "operator-1")
	if _, ok := empty["title"]; ok {
		t.Error("expected zero title to be skipped")
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("abc-123", "id", "tours")

	if len(group.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(group.Filters))
	}

	filter, ok := group.Filters[0].(dto.Filter)
	if !ok {
		t.Fatalf("expected dto.Filter, got %T", group.Filters[0])
	}

	if filter.Field != "id" || filter.Value != "abc-123" || filter.Table != "tours" || filter.Operator != dto.FilterOperatorEq {
		t.Errorf("unexpected filter: %+v", filter)
	}
}

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{
			name:     "prefix only",
			prefix:   "tour:get",
			parts:    nil,
			expected: "tour:get",
		},
		{
			name:     "prefix with parts",
			prefix:   "tour:get",
			parts:    []string{"abc", "def"},
			expected: "tour:get:abc:def",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := shared.BuildCacheKey(tt.prefix, tt.parts...); result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "created_at", SortDir: "DESC"}
	filter := shared.FilterByID("abc", "id", "tours")

	key := shared.BuildCacheKeyWithQuery("tour:gets", params, filter)

	if !strings.HasPrefix(key, "tour:gets:2:10:created_at:DESC") {
		t.Errorf("unexpected key prefix: %q", key)
	}

	// Distinct filters must never share a key.
	other := shared.BuildCacheKeyWithQuery("tour:gets", params, shared.FilterByID("def", "id", "tours"))
	if key == other {
		t.Error("expected different filters to produce different keys")
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	date := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	orderNumber, err := shared.GenerateOrderNumber("UPB", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pattern := regexp.MustCompile(`^UPB-20260901-[0-9A-F]{6}$`)
	if !pattern.MatchString(orderNumber) {
		t.Errorf("order number %q does not match expected format", orderNumber)
	}

	other, err := shared.GenerateOrderNumber("UPB", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if orderNumber == other {
		t.Error("expected consecutive order numbers to differ")
	}
}

func TestSlugify(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "simple title",
			title:    "Montmartre at Dusk",
			expected: "montmartre-at-dusk-2026-09-01",
		},
		{
			name:     "punctuation collapses",
			title:    "Paris: Left Bank & Latin Quarter!",
			expected: "paris-left-bank-latin-quarter-2026-09-01",
		},
		{
			name:     "empty title falls back to date",
			title:    "",
			expected: "2026-09-01",
		},
		{
			name:     "accented letters survive",
			title:    "Opéra Garnier",
			expected: "opéra-garnier-2026-09-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := shared.Slugify(tt.title, date); result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}
