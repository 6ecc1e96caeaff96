package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaudet/applytrack/internal/profile"
)

func testProfile() profile.Profile {
	return profile.Profile{
		GroupOrder: []string{"a", "b"},
		SkillGroups: map[string][]string{
			"a": {"marketing", "communication", "seo"},
			"b": {"newsletter", "réseaux sociaux", "wordpress", "canva"},
		},
		Experiences: []profile.Experience{
			{Title: "Chargée de communication", Employer: "MSC Croisières"},
		},
		DomainTerms: []string{"tourisme", "événementiel"},
	}
}

func TestCompatSixSkills(t *testing.T) {
	// Six distinct matching skills: 5 points each, well under the 50-point cap.
	keywords := "marketing communication seo newsletter wordpress canva"
	c := Compat("Poste", keywords, testProfile())

	require.Len(t, c.MatchingSkills, 6)
	// 30 (six skills) + 15 (keywords blob > 50 chars); no employer or
	// domain term in the text.
	assert.Equal(t, 45, c.Score)
	assert.False(t, c.ShouldApply)
}

func TestCompatSkillContributionCapsAtFifty(t *testing.T) {
	p := profile.Profile{
		GroupOrder: []string{"g"},
		SkillGroups: map[string][]string{
			"g": {"k01", "k02", "k03", "k04", "k05", "k06", "k07", "k08", "k09", "k10", "k11", "k12"},
		},
	}
	// Twelve matches would be 60 raw points; the contribution caps at 50, not 30.
	c := Compat("k01 k02 k03 k04 k05 k06 k07 k08 k09 k10 k11 k12", "", p)
	assert.Equal(t, 50, c.Score)
}

func TestCompatMatchingSkillsOrderAndCap(t *testing.T) {
	p := profile.Profile{
		GroupOrder: []string{"g"},
		SkillGroups: map[string][]string{
			"g": {"s01", "s02", "s03", "s04", "s05", "s06", "s07", "s08", "s09", "s10", "s11", "s12"},
		},
	}
	text := "s01 s02 s03 s04 s05 s06 s07 s08 s09 s10 s11 s12"
	c := Compat(text, "", p)

	require.Len(t, c.MatchingSkills, 10)
	assert.Equal(t, []string{"s01", "s02", "s03", "s04", "s05", "s06", "s07", "s08", "s09", "s10"}, c.MatchingSkills)
	assert.Equal(t, 50, c.Score)
}

func TestCompatExperienceAndDomainBonuses(t *testing.T) {
	p := testProfile()

	// Past employer name in the offer text: +20.
	withEmployer := Compat("Assistant chez MSC Croisières", "", p)
	assert.Equal(t, 20, withEmployer.Score)

	// >= 6 char word from a past title ("communication"): +20,
	// plus the skill match on "communication" itself.
	withTitleWord := Compat("Communication officer", "", p)
	assert.Equal(t, 25, withTitleWord.Score)

	// Domain term: +15.
	withDomain := Compat("Agent d'accueil tourisme", "", p)
	assert.Equal(t, 15, withDomain.Score)
}

func TestCompatAllBonusesStack(t *testing.T) {
	keywords := "marketing communication seo newsletter wordpress canva réseaux sociaux " +
		"tourisme MSC Croisières et bien plus encore"
	c := Compat("Responsable marketing", keywords, testProfile())
	// 7 skills (35) + employer (20) + domain term (15) + rich keywords (15).
	assert.Equal(t, 85, c.Score)
	assert.Equal(t, RecommendationExcellent, c.Recommendation)
	assert.True(t, c.ShouldApply)
}

func TestCompatEmptyOffer(t *testing.T) {
	c := Compat("", "", testProfile())
	assert.Equal(t, 0, c.Score)
	assert.Empty(t, c.MatchingSkills)
	assert.Equal(t, RecommendationLow, c.Recommendation)
	assert.False(t, c.ShouldApply)
}

func TestCompatMissingRequirements(t *testing.T) {
	c := Compat("Pilotage budgétaire et comptabilité analytique approfondie", "", testProfile())

	require.NotEmpty(t, c.MissingRequirements)
	assert.LessOrEqual(t, len(c.MissingRequirements), 5)
	assert.Contains(t, c.MissingRequirements, "comptabilité")
	// Short tokens never appear.
	for _, tok := range c.MissingRequirements {
		assert.Greater(t, len([]rune(tok)), 4)
	}
}

func TestRecommendationThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, RecommendationExcellent},
		{80, RecommendationExcellent},
		{79, RecommendationGood},
		{70, RecommendationGood},
		{69, RecommendationFair},
		{60, RecommendationFair},
		{59, RecommendationLow},
		{0, RecommendationLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Recommendation(tc.score), "score %d", tc.score)
	}
}

func TestPrioOverdueInterviewScenario(t *testing.T) {
	// Overdue, 85% compatible, interview stage: 40 + 40 + 20 = 100.
	p := Prio(-2, true, 85, true, StatusInterview)
	assert.Equal(t, 40, p.Urgency)
	assert.Equal(t, 40, p.Quality)
	assert.Equal(t, 20, p.StatusBoost)
	assert.Equal(t, 100, p.Total)
}

func TestPrioUrgencyTiers(t *testing.T) {
	cases := []struct {
		days        int
		hasDeadline bool
		want        int
	}{
		{0, false, 10},
		{-1, true, 40},
		{0, true, 35},
		{3, true, 35},
		{4, true, 25},
		{7, true, 25},
		{8, true, 15},
		{14, true, 15},
		{15, true, 5},
		{120, true, 5},
	}
	for _, tc := range cases {
		got := Prio(tc.days, tc.hasDeadline, 0, false, StatusToComplete)
		assert.Equal(t, tc.want, got.Urgency, "days=%d hasDeadline=%v", tc.days, tc.hasDeadline)
	}
}

func TestPrioQualityTiers(t *testing.T) {
	cases := []struct {
		compat    int
		hasCompat bool
		want      int
	}{
		{0, false, 0},
		{85, true, 40},
		{80, true, 40},
		{75, true, 30},
		{65, true, 20},
		{55, true, 10},
		{49, true, 0},
	}
	for _, tc := range cases {
		got := Prio(30, true, tc.compat, tc.hasCompat, StatusToComplete)
		assert.Equal(t, tc.want, got.Quality, "compat=%d hasCompat=%v", tc.compat, tc.hasCompat)
	}
}

func TestPrioStatusBoost(t *testing.T) {
	cases := []struct {
		status string
		want   int
	}{
		{StatusInterview, 20},
		{StatusSubmitted, 15},
		{StatusInProgress, 10},
		{StatusToComplete, 5},
		{"anything else", 5},
	}
	for _, tc := range cases {
		got := Prio(30, true, 0, false, tc.status)
		assert.Equal(t, tc.want, got.StatusBoost, "status %q", tc.status)
	}
}
