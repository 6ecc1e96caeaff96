package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTextSeparatorHeuristic(t *testing.T) {
	drafts := FromText("Senior Analyst\nExplora Journeys · Genève")

	require.Len(t, drafts, 1)
	d := drafts[0]
	assert.Equal(t, "Senior Analyst", d.Title)
	assert.Equal(t, "Explora Journeys", d.Company)
	assert.Equal(t, "Genève", d.Location)
	assert.Equal(t, ChannelFreeText, d.Channel)
	assert.True(t, d.DeadlineMissing)
	assert.Equal(t, []string{"CV"}, d.RequiredDocs)
}

func TestFromTextSeparatorSidesSwapped(t *testing.T) {
	drafts := FromText("Office Manager\nLausanne · Helvetia Conseil")

	require.Len(t, drafts, 1)
	assert.Equal(t, "Helvetia Conseil", drafts[0].Company)
	assert.Equal(t, "Lausanne", drafts[0].Location)
}

func TestFromTextKeywordAnchoredPath(t *testing.T) {
	drafts := FromText("Responsable Marketing chez Acme SA à Genève")

	require.Len(t, drafts, 1)
	d := drafts[0]
	assert.Contains(t, d.Title, "Responsable Marketing")
	assert.Equal(t, "Acme SA", d.Company)
	assert.Contains(t, d.Location, "Genève")
}

func TestFromTextLabeledFields(t *testing.T) {
	input := "Poste: Chargée de communication\n" +
		"Entreprise: Fondation Aigues-Vertes\n" +
		"Lieu: Genève\n" +
		"Délai: 15/03/2026\n" +
		"Dossier complet avec lettre de motivation et diplômes à envoyer à rh@aigues-vertes.ch"

	drafts := FromText(input)
	require.Len(t, drafts, 1)
	d := drafts[0]
	assert.Equal(t, "Chargée de communication", d.Title)
	assert.Equal(t, "Fondation Aigues-Vertes", d.Company)
	assert.Equal(t, "Genève", d.Location)
	assert.Equal(t, "2026-03-15", d.DeadlineISO)
	assert.False(t, d.DeadlineMissing)
	assert.Equal(t, "rh@aigues-vertes.ch", d.ContactEmail)
	assert.Contains(t, d.RequiredDocs, "cover letter")
	assert.Contains(t, d.RequiredDocs, "diploma")
	assert.NotEmpty(t, d.Instructions)
}

func TestFromTextMultipleOffers(t *testing.T) {
	input := "Senior Analyst\nExplora Journeys · Genève\n\n" +
		"Marketing Manager\nAcme SA · Lausanne\n"

	drafts := FromText(input)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Explora Journeys", drafts[0].Company)
	assert.Equal(t, "Acme SA", drafts[1].Company)
}

func TestFromTextDeduplicatesBatch(t *testing.T) {
	input := "Senior Analyst\nExplora Journeys · Genève\n\n" +
		"senior analyst\nEXPLORA JOURNEYS · Genève\n"

	drafts := FromText(input)
	assert.Len(t, drafts, 1)
}

func TestFromTextNothingDetected(t *testing.T) {
	// No title can be derived: the batch is empty, not an error.
	assert.Empty(t, FromText("some completely unrelated note about groceries"))
	assert.Empty(t, FromText(""))
}

func TestFromPDFTextChannel(t *testing.T) {
	drafts := FromPDFText("Coordinatrice de projet\nCroix-Rouge genevoise · Genève")
	require.Len(t, drafts, 1)
	assert.Equal(t, ChannelPDF, drafts[0].Channel)
	assert.Equal(t, "PDF Import", drafts[0].SourceLabel)
}

func TestParseDeadline(t *testing.T) {
	cases := []struct {
		raw string
		iso string
		ok  bool
	}{
		{"15/03/2026", "2026-03-15", true},
		{"15.03.2026", "2026-03-15", true},
		{"5/3/2026", "2026-03-05", true},
		{"15 mars 2026", "2026-03-15", true},
		{"1er avril 2026", "2026-04-01", true},
		{"15 March 2026", "2026-03-15", true},
		{"31 décembre 2026", "2026-12-31", true},
		{"avant le 15 mars 2026", "2026-03-15", true},
		{"32/01/2026", "", false},
		{"15/13/2026", "", false},
		{"dès que possible", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		iso, ok := ParseDeadline(tc.raw)
		assert.Equal(t, tc.ok, ok, "raw %q", tc.raw)
		assert.Equal(t, tc.iso, iso, "raw %q", tc.raw)
	}
}

func TestInferDocuments(t *testing.T) {
	docs := InferDocuments("Merci d'envoyer votre CV, une lettre de motivation et vos certificats de travail")
	assert.Equal(t, []string{"CV", "cover letter", "certificates"}, docs)

	// No document keyword at all: default to requiring just a CV.
	assert.Equal(t, []string{"CV"}, InferDocuments("Great opportunity in Geneva"))

	// "cv" must match as a token, not inside another word.
	assert.Equal(t, []string{"CV"}, InferDocuments("envoyez votre cv"))
}

func TestFindContactEmail(t *testing.T) {
	text := "Contact: noreply@jobs-mailer.example.com ou hr@acme.ch pour toute question"
	assert.Equal(t, "hr@acme.ch", FindContactEmail(text))

	assert.Equal(t, "", FindContactEmail("no address here"))
	assert.Equal(t, "", FindContactEmail("only unsubscribe@list.example.com"))
}

func TestCleanEmailBodyStripsSignature(t *testing.T) {
	body := "Nouvelle offre pour vous\n\n" +
		"Senior Analyst\nExplora Journeys · Genève\n\n" +
		"Cordialement,\n\nMarie Dupont\n\nSent from my iPhone"

	cleaned := CleanEmailBody(body)
	assert.NotContains(t, cleaned, "Marie Dupont")
	assert.NotContains(t, cleaned, "Cordialement")
	assert.Contains(t, cleaned, "Senior Analyst")
}

func TestCleanEmailBodyStripsFooter(t *testing.T) {
	body := "Senior Analyst\nExplora Journeys · Genève\n\n" +
		"Unsubscribe from these alerts\n© 2026 JobBoard SA, all rights reserved\nPrivacy policy"

	cleaned := CleanEmailBody(body)
	assert.NotContains(t, cleaned, "Unsubscribe")
	assert.NotContains(t, cleaned, "rights reserved")
	assert.Contains(t, cleaned, "Explora Journeys")
}

func TestFromEmailSignatureNameNotReadAsCompany(t *testing.T) {
	body := "Bonjour,\n\nSenior Analyst\nExplora Journeys · Genève\n\n" +
		"Meilleures salutations,\n\nJean Moulin"

	drafts := FromEmail(body)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Explora Journeys", drafts[0].Company)
	assert.Equal(t, ChannelEmail, drafts[0].Channel)
}
