package profile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFiltersApply(t *testing.T) {
	withEmail := &Profile{ID: "a", Email: "jane@acme.com", VerificationLevel: LevelBasic}
	withSocial := &Profile{
		ID:                "b",
		SocialProfiles:    []SocialProfile{{Platform: "GitHub", Username: "jane"}},
		VerificationLevel: LevelLimited,
	}
	both := &Profile{
		ID:                "c",
		Email:             "jane@acme.com",
		SocialProfiles:    []SocialProfile{{Platform: "LinkedIn", Username: "jane"}},
		VerificationLevel: LevelBasic,
	}
	bare := &Profile{ID: "d", VerificationLevel: LevelLimited}
	all := []*Profile{withEmail, withSocial, both, bare}

	basic := LevelBasic
	upperBasic := Level("BASIC")
	gold := Level("gold")
	tests := []struct {
		name    string
		filters Filters
		in      []*Profile
		want    []string
	}{
		{"no filters", Filters{}, all, []string{"a", "b", "c", "d"}},
		{"has email", Filters{HasEmail: true}, all, []string{"a", "c"}},
		{"has social", Filters{HasSocialProfiles: true}, all, []string{"b", "c"}},
		{"level", Filters{VerificationLevel: &basic}, all, []string{"a", "c"}},
		{"level is case-sensitive", Filters{VerificationLevel: &upperBasic}, all, []string{}},
		{"unknown level matches nothing", Filters{VerificationLevel: &gold}, all, []string{}},
		{"combined", Filters{HasEmail: true, HasSocialProfiles: true}, all, []string{"c"}},
		{"has email no-op when all have email", Filters{HasEmail: true}, []*Profile{withEmail, both}, []string{"a", "c"}},
		{"empty input", Filters{HasEmail: true}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.filters.Apply(tt.in))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFiltersApplyDoesNotMutateInput(t *testing.T) {
	in := []*Profile{{ID: "a"}, {ID: "b", Email: "b@corp.io"}}
	_ = Filters{HasEmail: true}.Apply(in)
	if len(in) != 2 || in[0].ID != "a" || in[1].ID != "b" {
		t.Errorf("input slice was modified: %v", ids(in))
	}
}

func ids(profiles []*Profile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.ID)
	}
	return out
}
