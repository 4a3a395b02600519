package profile

// Filters narrow a result set after aggregation. Zero values are no-ops.
// VerificationLevel matches byte for byte; an unknown level matches nothing.
type Filters struct {
	VerificationLevel *Level
	HasEmail          bool
	HasSocialProfiles bool
}

// Apply returns the profiles that satisfy every active filter.
// The input slice is not modified.
func (f Filters) Apply(profiles []*Profile) []*Profile {
	out := make([]*Profile, 0, len(profiles))
	for _, p := range profiles {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f Filters) match(p *Profile) bool {
	if p == nil {
		return false
	}
	if f.VerificationLevel != nil && p.VerificationLevel != *f.VerificationLevel {
		return false
	}
	if f.HasEmail && p.Email == "" {
		return false
	}
	if f.HasSocialProfiles && !p.HasSocialProfiles() {
		return false
	}
	return true
}
