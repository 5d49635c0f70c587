// Package reply turns a disclosed attribute-to-value mapping into an ordered
// list of display lines. Display rules are tagged records with an inline
// renderer; the first applicable rule per semantic group wins, so an address
// renders as one joint line instead of four loose values.
package reply

import (
	"fmt"

	"diyivi/internal/yivi"
)

// Values is the disclosed mapping in one language, attribute id to rendered
// string.
type Values map[yivi.Attribute]string

// Rule declares a display line: the label, the attributes that must all be
// disclosed for the line to apply, and a renderer over the disclosed values.
type Rule struct {
	Group              string
	Label              string
	RequiredAttributes []yivi.Attribute
	Render             func(Values) string
}

// Line is one assembled display line.
type Line struct {
	Label string
	Value string
}

// Applicable reports whether every required attribute is present.
func (r Rule) Applicable(values Values) bool {
	for _, required := range r.RequiredAttributes {
		if _, ok := values[required]; !ok {
			return false
		}
	}
	return true
}

// Assemble evaluates the rules in their given priority order. A rule emits
// only when all of its required attributes were disclosed, and at most one
// rule per semantic group emits. Partially disclosed groups are omitted
// silently: partial address data is never rendered.
func Assemble(values Values, rules []Rule) []Line {
	var lines []Line
	emitted := make(map[string]bool)
	for _, rule := range rules {
		if emitted[rule.Group] {
			continue
		}
		if !rule.Applicable(values) {
			continue
		}
		lines = append(lines, Line{Label: rule.Label, Value: rule.Render(values)})
		emitted[rule.Group] = true
	}
	return lines
}

// Localize projects the stored translated values onto one language, falling
// back to any available form when the requested language is missing.
func Localize(disclosed map[yivi.Attribute]yivi.TranslatedString, lang string) Values {
	values := make(Values, len(disclosed))
	for id, translated := range disclosed {
		if text, ok := translated[lang]; ok {
			values[id] = text
			continue
		}
		for _, text := range translated {
			values[id] = text
			break
		}
	}
	return values
}

// DefaultRules renders the attribute groups of the default catalog.
func DefaultRules() []Rule {
	single := func(id yivi.Attribute) func(Values) string {
		return func(values Values) string { return values[id] }
	}
	return []Rule{
		{
			Group:              "name",
			Label:              "Naam",
			RequiredAttributes: []yivi.Attribute{"irma-demo.gemeente.personalData.fullname"},
			Render:             single("irma-demo.gemeente.personalData.fullname"),
		},
		{
			Group:              "birthdate",
			Label:              "Geboortedatum",
			RequiredAttributes: []yivi.Attribute{"irma-demo.gemeente.personalData.dateofbirth"},
			Render:             single("irma-demo.gemeente.personalData.dateofbirth"),
		},
		{
			Group:              "address",
			Label:              "Adres",
			RequiredAttributes: []yivi.Attribute{
				"irma-demo.gemeente.address.street",
				"irma-demo.gemeente.address.houseNumber",
				"irma-demo.gemeente.address.zipcode",
				"irma-demo.gemeente.address.city",
			},
			Render: func(values Values) string {
				return fmt.Sprintf("%s %s, %s %s",
					values["irma-demo.gemeente.address.street"],
					values["irma-demo.gemeente.address.houseNumber"],
					values["irma-demo.gemeente.address.zipcode"],
					values["irma-demo.gemeente.address.city"],
				)
			},
		},
		{
			Group:              "mobilenumber",
			Label:              "Mobiel telefoonnummer",
			RequiredAttributes: []yivi.Attribute{"irma-demo.sidn-pbdf.mobilenumber.mobilenumber"},
			Render:             single("irma-demo.sidn-pbdf.mobilenumber.mobilenumber"),
		},
		{
			Group:              "email",
			Label:              "E-mailadres",
			RequiredAttributes: []yivi.Attribute{"irma-demo.sidn-pbdf.email.email"},
			Render:             single("irma-demo.sidn-pbdf.email.email"),
		},
	}
}
