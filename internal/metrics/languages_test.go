package metrics

import (
	"math"
	"testing"

	"github.com/spigell/hireability/internal/snapshot"
)

func repoWithLanguages(name string, edges ...snapshot.LanguageEdge) snapshot.Repository {
	return snapshot.Repository{Name: name, Languages: edges}
}

func edge(name string, bytes int64) snapshot.LanguageEdge {
	return snapshot.LanguageEdge{Language: snapshot.Language{Name: name}, Bytes: bytes}
}

func TestAggregateLanguagesEmpty(t *testing.T) {
	t.Parallel()

	for _, repos := range [][]snapshot.Repository{nil, {}, {repoWithLanguages("empty")}} {
		profile := AggregateLanguages(repos)
		if profile == nil || len(profile) != 0 {
			t.Fatalf("expected empty non-nil profile, got %#v", profile)
		}
	}
}

func TestAggregateLanguagesSortsAndSums(t *testing.T) {
	t.Parallel()

	profile := AggregateLanguages([]snapshot.Repository{
		repoWithLanguages("api", edge("Go", 300), edge("JavaScript", 100)),
		repoWithLanguages("tools", edge("Go", 300), edge("Shell", 200)),
	})

	expected := []LanguageShare{
		{Name: "Go", Bytes: 600, Percentage: 67},
		{Name: "Shell", Bytes: 200, Percentage: 22},
		{Name: "JavaScript", Bytes: 100, Percentage: 11},
	}

	if len(profile) != len(expected) {
		t.Fatalf("expected %d languages, got %d", len(expected), len(profile))
	}
	for i, share := range expected {
		if profile[i] != share {
			t.Fatalf("entry %d: expected %+v, got %+v", i, share, profile[i])
		}
	}
}

func TestAggregateLanguagesKeepsFirstSeenOrderOnTies(t *testing.T) {
	t.Parallel()

	profile := AggregateLanguages([]snapshot.Repository{
		repoWithLanguages("a", edge("Rust", 100)),
		repoWithLanguages("b", edge("Go", 100)),
	})

	if profile[0].Name != "Rust" || profile[1].Name != "Go" {
		t.Fatalf("unexpected order: %v", profile.Names())
	}
}

func TestAggregateLanguagesPercentagesNeverExceedHundred(t *testing.T) {
	t.Parallel()

	cases := [][]snapshot.Repository{
		{repoWithLanguages("r", edge("A", 1), edge("B", 1), edge("C", 6))},
		{repoWithLanguages("r", edge("A", 1), edge("B", 1), edge("C", 1))},
		{repoWithLanguages("r", edge("A", 505), edge("B", 495))},
		{repoWithLanguages("r", edge("A", 1), edge("B", 1), edge("C", 1), edge("D", 1), edge("E", 1), edge("F", 1), edge("G", 1), edge("H", 1))},
	}

	for _, repos := range cases {
		profile := AggregateLanguages(repos)

		var total int64
		for _, share := range profile {
			total += share.Bytes
		}

		sum := 0
		for _, share := range profile {
			if share.Percentage < 0 {
				t.Fatalf("negative percentage: %+v", share)
			}
			exact := float64(share.Bytes) / float64(total) * 100
			if math.Abs(float64(share.Percentage)-exact) >= 1 {
				t.Fatalf("percentage %d too far from exact %.2f", share.Percentage, exact)
			}
			sum += share.Percentage
		}

		if sum > 100 {
			t.Fatalf("percentages sum to %d for %v", sum, profile.Names())
		}
	}
}

func TestAggregateLanguagesIgnoresNonPositiveBytes(t *testing.T) {
	t.Parallel()

	profile := AggregateLanguages([]snapshot.Repository{
		repoWithLanguages("r", edge("Go", 10), edge("C", 0), edge("D", -5)),
	})

	if len(profile) != 1 || profile[0].Percentage != 100 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestTopAndPrimaryStack(t *testing.T) {
	t.Parallel()

	profile := LanguageProfile{{Name: "Go"}, {Name: "TypeScript"}, {Name: "Shell"}}

	if got := profile.Top(2).Names(); len(got) != 2 || got[1] != "TypeScript" {
		t.Fatalf("unexpected top: %v", got)
	}
	if got := profile.Top(10); len(got) != 3 {
		t.Fatalf("expected whole profile, got %d entries", len(got))
	}

	tests := []struct {
		profile LanguageProfile
		expect  string
	}{
		{profile: LanguageProfile{}, expect: "Polyglot"},
		{profile: profile[:1], expect: "Go Developer"},
		{profile: profile, expect: "Go + TypeScript Developer"},
	}
	for _, tt := range tests {
		if got := PrimaryStack(tt.profile); got != tt.expect {
			t.Fatalf("expected %q, got %q", tt.expect, got)
		}
	}
}
