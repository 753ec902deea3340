package enrichment

import (
	"encoding/json"
	"testing"
)

func TestScoreUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Score
		wantErr bool
	}{
		{input: `72`, want: 72},
		{input: `72.5`, want: 73},
		{input: `"64"`, want: 64},
		{input: `"80%"`, want: 80},
		{input: `140`, want: 100},
		{input: `-3`, want: 0},
		{input: `null`, want: 0},
		{input: `"high"`, wantErr: true},
		{input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var got Score
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDecodeRejectsWrongShapes(t *testing.T) {
	t.Parallel()

	if _, err := decode(Request{Kind: KindProfileAudit}, json.RawMessage(`{"redFlags": "none"}`)); err == nil {
		t.Fatalf("expected type mismatch to fail")
	}
	if _, err := decode(Request{Kind: "unknown"}, json.RawMessage(`{}`)); err == nil {
		t.Fatalf("expected unknown kind to fail")
	}
}

func TestStubs(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		if Stub(kind, StubInput{}) == nil {
			t.Fatalf("missing stub for %s", kind)
		}
	}

	audit := Stub(KindRepoAudit, StubInput{RepoName: "api"}).(*RepoAudit)
	if audit.Repo != "api" || len(audit.Checklist) != 8 {
		t.Fatalf("unexpected repo audit stub %+v", audit)
	}
	if Stub(KindRepoAudit, StubInput{}).(*RepoAudit).Repo != "Unknown Repo" {
		t.Fatalf("expected placeholder repo name")
	}

	first := Stub(KindSWOT, StubInput{}).(*SWOT)
	first.Strengths[0] = "mutated"
	if Stub(KindSWOT, StubInput{}).(*SWOT).Strengths[0] == "mutated" {
		t.Fatalf("stubs must not share state")
	}

	fit := Stub(KindRoleFit, StubInput{}).(*RoleFit)
	if fit.FitScore != 75 || fit.FitTier != "High Potential" {
		t.Fatalf("unexpected role fit stub %+v", fit)
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Kind{
		"swot":         KindSWOT,
		"ai-profile":   KindProfileAudit,
		"repo":         KindRepoAudit,
		" Resume ":     KindResumeComparison,
		"match-role":   KindRoleFit,
		"profileAudit": KindProfileAudit,
	} {
		got, err := ParseKind(input)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", input, got, err)
		}
	}

	if _, err := ParseKind("horoscope"); err == nil {
		t.Fatalf("expected unknown kind to fail")
	}
}

func TestParseStrictness(t *testing.T) {
	t.Parallel()

	if s, err := ParseStrictness(""); err != nil || s != StrictnessNormal {
		t.Fatalf("expected normal default, got %q, %v", s, err)
	}
	if s, err := ParseStrictness("STRICT"); err != nil || s != StrictnessStrict {
		t.Fatalf("expected strict, got %q, %v", s, err)
	}
	if _, err := ParseStrictness("brutal"); err == nil {
		t.Fatalf("expected unknown strictness to fail")
	}
}
