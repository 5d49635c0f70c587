package yivi

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "diyivi/pkg/domain-errors"
)

// groupingOf flattens a ConDisCon into a canonical form: one sorted
// comma-joined string per conjunction, sorted overall. Output ordering of
// Build is unspecified, so tests must compare groupings, not sequences.
func groupingOf(t *testing.T, condiscon ConDisCon) []string {
	t.Helper()
	var groups []string
	for _, dis := range condiscon {
		require.Len(t, dis, 1, "Build emits exactly one conjunction per disjunction")
		attrs := make([]string, len(dis[0]))
		for i, a := range dis[0] {
			attrs[i] = string(a)
		}
		sort.Strings(attrs)
		groups = append(groups, strings.Join(attrs, ","))
	}
	sort.Strings(groups)
	return groups
}

func TestBuildGroupsByCredential(t *testing.T) {
	condiscon, err := Build([]Attribute{"ns.a", "ns.b", "other.c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"ns.a,ns.b", "other.c"}, groupingOf(t, condiscon))
}

func TestBuildCoversEveryNamespaceExactlyOnce(t *testing.T) {
	input := []Attribute{
		"irma-demo.gemeente.personalData.fullname",
		"irma-demo.gemeente.personalData.dateofbirth",
		"irma-demo.gemeente.address.street",
		"irma-demo.gemeente.address.city",
		"irma-demo.sidn-pbdf.email.email",
	}
	condiscon, err := Build(input)
	require.NoError(t, err)
	require.Len(t, condiscon, 3)

	seen := make(map[string]bool)
	for _, dis := range condiscon {
		require.Len(t, dis, 1)
		namespace, ok := dis[0][0].Credential()
		require.True(t, ok)
		assert.False(t, seen[namespace], "namespace %s emitted twice", namespace)
		seen[namespace] = true
		for _, attribute := range dis[0] {
			ns, ok := attribute.Credential()
			require.True(t, ok)
			assert.Equal(t, namespace, ns, "conjunction mixes credentials")
		}
	}
}

func TestBuildIsOrderIndependent(t *testing.T) {
	input := []Attribute{
		"irma-demo.gemeente.personalData.fullname",
		"irma-demo.gemeente.personalData.dateofbirth",
		"irma-demo.sidn-pbdf.mobilenumber.mobilenumber",
		"irma-demo.sidn-pbdf.email.email",
	}
	reference, err := Build(input)
	require.NoError(t, err)
	want := groupingOf(t, reference)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]Attribute, len(input))
		copy(shuffled, input)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		condiscon, err := Build(shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, groupingOf(t, condiscon))
	}
}

func TestBuildCollapsesDuplicates(t *testing.T) {
	condiscon, err := Build([]Attribute{"ns.a", "ns.a", "ns.a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ns.a"}, groupingOf(t, condiscon))
}

func TestBuildRejectsMalformedIdentifier(t *testing.T) {
	for _, bad := range []Attribute{"bad", ".leading", ""} {
		_, err := Build([]Attribute{bad})
		require.Error(t, err, "identifier %q", bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAttribute))
	}
}

func TestBuildEmptyInput(t *testing.T) {
	condiscon, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, condiscon)
}
