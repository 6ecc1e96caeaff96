// Package profile holds the static candidate profile the local compatibility
// heuristic scores against: skill phrases grouped by category, past
// experiences, and the domain terms that mark an offer as relevant.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
)

type Experience struct {
	Title    string `json:"title"`
	Employer string `json:"employer"`
}

type Profile struct {
	// GroupOrder fixes the iteration order of SkillGroups so the flattened
	// skill list (and with it matching-skill output) is deterministic.
	GroupOrder  []string            `json:"group_order"`
	SkillGroups map[string][]string `json:"skill_groups"`
	Experiences []Experience        `json:"experiences"`
	DomainTerms []string            `json:"domain_terms"`
	Summary     string              `json:"summary"`
}

// Skills flattens the grouped skill phrases in group order. Groups missing
// from GroupOrder are skipped rather than iterated in map order.
func (p Profile) Skills() []string {
	var out []string
	for _, group := range p.GroupOrder {
		out = append(out, p.SkillGroups[group]...)
	}
	return out
}

// Load reads a profile from a JSON file.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(p.GroupOrder) == 0 {
		return Profile{}, fmt.Errorf("profile has no skill groups")
	}
	return p, nil
}

// Default returns the built-in profile used when PROFILE_PATH is not set.
func Default() Profile {
	return Profile{
		GroupOrder: []string{"marketing", "communication", "digital", "tools", "languages"},
		SkillGroups: map[string][]string{
			"marketing": {
				"marketing", "stratégie marketing", "étude de marché",
				"gestion de projet", "événementiel", "brand management",
			},
			"communication": {
				"communication", "relations presse", "rédaction",
				"storytelling", "relations publiques",
			},
			"digital": {
				"réseaux sociaux", "social media", "seo", "newsletter",
				"google analytics", "content marketing",
			},
			"tools": {
				"canva", "wordpress", "mailchimp", "excel", "powerpoint",
			},
			"languages": {
				"français", "anglais", "english",
			},
		},
		Experiences: []Experience{
			{Title: "Chargée de communication", Employer: "MSC Croisières"},
			{Title: "Coordinatrice événementielle", Employer: "Palexpo"},
			{Title: "Assistante marketing", Employer: "Rolex"},
		},
		DomainTerms: []string{
			"marketing", "communication", "digital", "événementiel",
			"médias", "tourisme", "luxe", "hôtellerie", "ong", "international",
		},
		Summary: "Marketing and communication professional based in Geneva, " +
			"experienced in events, social media and press relations.",
	}
}
