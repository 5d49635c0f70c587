// Package catalog is the static registry mapping semantic attribute groups
// (name, birthdate, contact details, address) to the credential attribute
// identifiers that compose them. It is loaded once at startup and treated as
// immutable process-wide configuration.
package catalog

import (
	"fmt"

	"diyivi/internal/yivi"
	dErrors "diyivi/pkg/domain-errors"
)

// AttributeGroup is a semantic unit offered to a user. AttributeIDs is an
// ordered, non-empty list of credential attribute identifiers; a group may
// span credentials because the ConDisCon builder later separates them into
// per-credential conjunctions.
type AttributeGroup struct {
	Label        string
	AttributeIDs []yivi.Attribute
}

// Catalog resolves group keys to attribute groups. Purely static lookup;
// the only failure mode is an unknown key.
type Catalog struct {
	groups map[string]AttributeGroup
}

// New builds a catalog from a registration table. Group definitions are
// copied so later mutation of the input cannot leak in.
func New(groups map[string]AttributeGroup) *Catalog {
	copied := make(map[string]AttributeGroup, len(groups))
	for key, group := range groups {
		ids := make([]yivi.Attribute, len(group.AttributeIDs))
		copy(ids, group.AttributeIDs)
		copied[key] = AttributeGroup{Label: group.Label, AttributeIDs: ids}
	}
	return &Catalog{groups: copied}
}

// Resolve returns the attribute group registered under key.
func (c *Catalog) Resolve(key string) (AttributeGroup, error) {
	group, ok := c.groups[key]
	if !ok {
		return AttributeGroup{}, dErrors.New(dErrors.CodeUnknownGroup,
			fmt.Sprintf("attribute group %q is not registered", key))
	}
	return group, nil
}

// Expand concatenates the attribute identifiers of the given groups in input
// order. Duplicates are preserved; the ConDisCon builder deduplicates per
// credential.
func (c *Catalog) Expand(keys []string) ([]yivi.Attribute, error) {
	var attributes []yivi.Attribute
	for _, key := range keys {
		group, err := c.Resolve(key)
		if err != nil {
			return nil, err
		}
		attributes = append(attributes, group.AttributeIDs...)
	}
	return attributes, nil
}

// Default is the registration table for the demo scheme attributes this
// service exchanges.
func Default() map[string]AttributeGroup {
	return map[string]AttributeGroup{
		"name": {
			Label:        "Naam",
			AttributeIDs: []yivi.Attribute{"irma-demo.gemeente.personalData.fullname"},
		},
		"birthdate": {
			Label:        "Geboortedatum",
			AttributeIDs: []yivi.Attribute{"irma-demo.gemeente.personalData.dateofbirth"},
		},
		"mobilenumber": {
			Label:        "Mobiel telefoonnummer",
			AttributeIDs: []yivi.Attribute{"irma-demo.sidn-pbdf.mobilenumber.mobilenumber"},
		},
		"email": {
			Label:        "E-mailadres",
			AttributeIDs: []yivi.Attribute{"irma-demo.sidn-pbdf.email.email"},
		},
		"address": {
			Label: "Adres",
			AttributeIDs: []yivi.Attribute{
				"irma-demo.gemeente.address.street",
				"irma-demo.gemeente.address.houseNumber",
				"irma-demo.gemeente.address.zipcode",
				"irma-demo.gemeente.address.city",
			},
		},
	}
}
