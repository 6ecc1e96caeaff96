// Package score implements the two local scoring functions: a heuristic 0-100
// compatibility estimate of candidate-to-offer fit, and the ephemeral priority
// score used to order the application list. Changing a breakpoint in here
// changes user-visible ordering.
package score

import (
	"strings"

	"github.com/mbaudet/applytrack/internal/profile"
)

const (
	RecommendationExcellent = "excellent"
	RecommendationGood      = "good"
	RecommendationFair      = "fair"
	RecommendationLow       = "low"
)

const (
	maxMatchingSkills      = 10
	maxMissingRequirements = 5
	pointsPerSkill         = 5
	skillPointsCap         = 50
	experienceBonus        = 20
	domainBonus            = 15
	richKeywordsBonus      = 15
	richKeywordsMinLen     = 50
)

type Compatibility struct {
	Score               int      `json:"score"`
	MatchingSkills      []string `json:"matching_skills"`
	MissingRequirements []string `json:"missing_requirements"`
	Recommendation      string   `json:"recommendation"`
	ShouldApply         bool     `json:"should_apply"`
}

// Compat estimates how well an offer fits the candidate. title and keywords
// are the offer's structured title and free-text keyword blob; the keyword
// blob length doubles as a proxy for how thoroughly the offer was described.
// This is strictly the offline fallback: an AI-provided compatibility score on
// the record always supersedes it, never blends with it.
func Compat(title, keywords string, p profile.Profile) Compatibility {
	offerText := strings.ToLower(strings.TrimSpace(title + " " + keywords))

	var matching []string
	matchCount := 0
	for _, skill := range p.Skills() {
		if skill == "" {
			continue
		}
		if strings.Contains(offerText, strings.ToLower(skill)) {
			matchCount++
			if len(matching) < maxMatchingSkills {
				matching = append(matching, skill)
			}
		}
	}

	points := matchCount * pointsPerSkill
	if points > skillPointsCap {
		points = skillPointsCap
	}

	if hasExperienceSignal(offerText, p.Experiences) {
		points += experienceBonus
	}
	if containsAnyLower(offerText, p.DomainTerms) {
		points += domainBonus
	}
	if len(keywords) > richKeywordsMinLen {
		points += richKeywordsBonus
	}

	if points > 100 {
		points = 100
	}
	if points < 0 {
		points = 0
	}

	return Compatibility{
		Score:               points,
		MatchingSkills:      matching,
		MissingRequirements: missingRequirements(offerText, p),
		Recommendation:      Recommendation(points),
		ShouldApply:         points >= 60,
	}
}

// Recommendation maps a compatibility score to its label.
func Recommendation(score int) string {
	switch {
	case score >= 80:
		return RecommendationExcellent
	case score >= 70:
		return RecommendationGood
	case score >= 60:
		return RecommendationFair
	default:
		return RecommendationLow
	}
}

// hasExperienceSignal reports whether the offer mentions a past employer or a
// significant (>= 6 chars) word from a past job title.
func hasExperienceSignal(offerText string, experiences []profile.Experience) bool {
	for _, exp := range experiences {
		if emp := strings.ToLower(strings.TrimSpace(exp.Employer)); emp != "" && strings.Contains(offerText, emp) {
			return true
		}
		for _, word := range strings.Fields(strings.ToLower(exp.Title)) {
			if len([]rune(word)) >= 6 && strings.Contains(offerText, word) {
				return true
			}
		}
	}
	return false
}

// missingRequirements collects offer tokens the profile says nothing about:
// words longer than four characters that appear in no skill phrase and no
// experience title. Order of first appearance, capped at five.
func missingRequirements(offerText string, p profile.Profile) []string {
	known := make([]string, 0, 16)
	for _, skill := range p.Skills() {
		known = append(known, strings.ToLower(skill))
	}
	for _, exp := range p.Experiences {
		known = append(known, strings.ToLower(exp.Title))
	}

	seen := make(map[string]struct{})
	var missing []string
	for _, token := range splitTokens(offerText) {
		if len([]rune(token)) <= 4 {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		if tokenKnown(token, known) {
			continue
		}
		missing = append(missing, token)
		if len(missing) >= maxMissingRequirements {
			break
		}
	}
	return missing
}

func tokenKnown(token string, known []string) bool {
	for _, k := range known {
		if strings.Contains(k, token) {
			return true
		}
	}
	return false
}

func splitTokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return false
		case r >= 0xC0 && r <= 0xFF: // accented Latin-1 letters
			return false
		default:
			return true
		}
	})
}

func containsAnyLower(text string, needles []string) bool {
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
