package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diyivi/internal/yivi"
)

func addressValues() Values {
	return Values{
		"irma-demo.gemeente.address.street":      "Dorpsstraat",
		"irma-demo.gemeente.address.houseNumber": "12",
		"irma-demo.gemeente.address.zipcode":     "1234 AB",
		"irma-demo.gemeente.address.city":        "Utrecht",
	}
}

func TestAssembleAddressRendersJointly(t *testing.T) {
	lines := Assemble(addressValues(), DefaultRules())

	require.Len(t, lines, 1)
	assert.Equal(t, "Adres", lines[0].Label)
	assert.Equal(t, "Dorpsstraat 12, 1234 AB Utrecht", lines[0].Value)
}

func TestAssembleOmitsPartialAddress(t *testing.T) {
	values := addressValues()
	for missing := range values {
		partial := Values{}
		for id, v := range values {
			if id != missing {
				partial[id] = v
			}
		}
		lines := Assemble(partial, DefaultRules())
		assert.Empty(t, lines, "missing %s must suppress the address line", missing)
	}
}

func TestAssemblePreservesRuleOrder(t *testing.T) {
	values := addressValues()
	values["irma-demo.gemeente.personalData.fullname"] = "J. Doe"
	values["irma-demo.sidn-pbdf.email.email"] = "j.doe@example.com"

	lines := Assemble(values, DefaultRules())
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"Naam", "Adres", "E-mailadres"}, []string{lines[0].Label, lines[1].Label, lines[2].Label})
}

func TestAssembleFirstMatchingRulePerGroupWins(t *testing.T) {
	rules := []Rule{
		{
			Group:              "name",
			Label:              "Volledige naam",
			RequiredAttributes: []yivi.Attribute{"a.b.c.full"},
			Render:             func(v Values) string { return v["a.b.c.full"] },
		},
		{
			Group:              "name",
			Label:              "Voornaam",
			RequiredAttributes: []yivi.Attribute{"a.b.c.first"},
			Render:             func(v Values) string { return v["a.b.c.first"] },
		},
	}
	values := Values{"a.b.c.full": "Jane Doe", "a.b.c.first": "Jane"}

	lines := Assemble(values, rules)
	require.Len(t, lines, 1)
	assert.Equal(t, "Volledige naam", lines[0].Label)
}

func TestLocalize(t *testing.T) {
	disclosed := map[yivi.Attribute]yivi.TranslatedString{
		"a.b.c.d": {"en": "Yes", "nl": "Ja"},
		"a.b.c.e": {"nl": "Alleen Nederlands"},
	}

	values := Localize(disclosed, "en")
	assert.Equal(t, "Yes", values["a.b.c.d"])
	assert.Equal(t, "Alleen Nederlands", values["a.b.c.e"], "falls back to any available form")
}
