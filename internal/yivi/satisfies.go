package yivi

// SatisfiesCon reports whether every attribute of the conjunction appears in
// the disclosed set.
func SatisfiesCon(con Con, disclosed []DisclosedAttribute) bool {
	for _, required := range con {
		found := false
		for _, attribute := range disclosed {
			if attribute.ID == required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SatisfiesDis reports whether any conjunction of the disjunction is satisfied
// by the disclosed set.
func SatisfiesDis(dis Dis, disclosed []DisclosedAttribute) bool {
	for _, con := range dis {
		if SatisfiesCon(con, disclosed) {
			return true
		}
	}
	return false
}

// SatisfiesConDisCon reports whether a session result's disclosed attribute
// sets satisfy a disclosure request. The verifier returns one disclosed set
// per disjunction, but it does not guarantee positional correspondence, so
// each disjunction is checked against the union of everything disclosed.
func SatisfiesConDisCon(condiscon ConDisCon, disclosed [][]DisclosedAttribute) bool {
	var all []DisclosedAttribute
	for _, set := range disclosed {
		all = append(all, set...)
	}
	for _, dis := range condiscon {
		if !SatisfiesDis(dis, all) {
			return false
		}
	}
	return true
}
