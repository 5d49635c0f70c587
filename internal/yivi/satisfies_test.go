package yivi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func disclosed(ids ...Attribute) []DisclosedAttribute {
	out := make([]DisclosedAttribute, len(ids))
	for i, id := range ids {
		out[i] = DisclosedAttribute{ID: id, Status: "PRESENT", RawValue: "x", Value: TranslatedString{"en": "x"}}
	}
	return out
}

func TestSatisfiesCon(t *testing.T) {
	con := Con{"ns.a", "ns.b"}

	assert.True(t, SatisfiesCon(con, disclosed("ns.a", "ns.b", "other.c")))
	assert.False(t, SatisfiesCon(con, disclosed("ns.a")))
	assert.True(t, SatisfiesCon(Con{}, nil), "empty conjunction is trivially satisfied")
}

func TestSatisfiesDis(t *testing.T) {
	dis := Dis{{"ns.a", "ns.b"}, {"alt.c"}}

	assert.True(t, SatisfiesDis(dis, disclosed("alt.c")))
	assert.True(t, SatisfiesDis(dis, disclosed("ns.a", "ns.b")))
	assert.False(t, SatisfiesDis(dis, disclosed("ns.a")))
}

func TestSatisfiesConDisCon(t *testing.T) {
	condiscon, err := Build([]Attribute{"ns.a", "ns.b", "other.c"})
	require.NoError(t, err)

	t.Run("union across result sets counts", func(t *testing.T) {
		result := [][]DisclosedAttribute{disclosed("ns.a", "ns.b"), disclosed("other.c")}
		assert.True(t, SatisfiesConDisCon(condiscon, result))
	})

	t.Run("missing attribute fails", func(t *testing.T) {
		result := [][]DisclosedAttribute{disclosed("ns.a"), disclosed("other.c")}
		assert.False(t, SatisfiesConDisCon(condiscon, result))
	})

	t.Run("empty request always satisfied", func(t *testing.T) {
		assert.True(t, SatisfiesConDisCon(ConDisCon{}, nil))
	})
}
