package yivi

import (
	"fmt"

	dErrors "diyivi/pkg/domain-errors"
)

// Build groups a flat list of attribute identifiers into a ConDisCon where
// each inner conjunction holds the attributes of exactly one credential.
//
// The verifier's request grammar forbids mixing attributes of more than one
// non-singleton credential inside a single conjunction, while all attributes
// asked from one credential must come from the same credential instance.
// Grouping by credential namespace before emission guarantees both properties.
//
// Duplicate identifiers collapse. The order of the emitted disjunctions
// follows map iteration and is unspecified; callers may rely on coverage
// only, never on ordering. An empty input yields an empty ConDisCon.
func Build(attributes []Attribute) (ConDisCon, error) {
	credentials := make(map[string]map[Attribute]struct{})
	for _, attribute := range attributes {
		credential, ok := attribute.Credential()
		if !ok {
			return nil, dErrors.New(dErrors.CodeInvalidAttribute,
				fmt.Sprintf("attribute %q has no credential namespace", attribute))
		}
		set, ok := credentials[credential]
		if !ok {
			set = make(map[Attribute]struct{})
			credentials[credential] = set
		}
		set[attribute] = struct{}{}
	}

	condiscon := make(ConDisCon, 0, len(credentials))
	for _, set := range credentials {
		con := make(Con, 0, len(set))
		for attribute := range set {
			con = append(con, attribute)
		}
		condiscon = append(condiscon, Dis{con})
	}
	return condiscon, nil
}
