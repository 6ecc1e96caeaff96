package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillsPreserveGroupOrder(t *testing.T) {
	p := Profile{
		GroupOrder: []string{"b", "a"},
		SkillGroups: map[string][]string{
			"a": {"three"},
			"b": {"one", "two"},
		},
	}
	assert.Equal(t, []string{"one", "two", "three"}, p.Skills())
}

func TestDefaultProfileIsUsable(t *testing.T) {
	p := Default()
	assert.NotEmpty(t, p.Skills())
	assert.NotEmpty(t, p.Experiences)
	assert.NotEmpty(t, p.DomainTerms)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	data := `{
		"group_order": ["core"],
		"skill_groups": {"core": ["marketing", "communication"]},
		"experiences": [{"title": "Assistante marketing", "employer": "Rolex"}],
		"domain_terms": ["marketing"],
		"summary": "test profile"
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"marketing", "communication"}, p.Skills())
	assert.Equal(t, "Rolex", p.Experiences[0].Employer)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
