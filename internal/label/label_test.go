package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expectedPkg string
		expectedTgt string
	}{
		{
			name:        "explicit name",
			raw:         "//tools/compiler:driver",
			expectedPkg: "tools/compiler",
			expectedTgt: "driver",
		},
		{
			name:        "implicit name from package",
			raw:         "//tools/compiler",
			expectedPkg: "tools/compiler",
			expectedTgt: "compiler",
		},
		{
			name:        "root package",
			raw:         "//:all-docs",
			expectedPkg: "",
			expectedTgt: "all-docs",
		},
		{
			name:        "name with dots and dashes",
			raw:         "//lib:lib.v2-gen",
			expectedPkg: "lib",
			expectedTgt: "lib.v2-gen",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := Parse(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedPkg, l.Package())
			assert.Equal(t, tc.expectedTgt, l.Name())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	invalid := []string{
		"",
		"tools/compiler:driver",
		"//tools/compiler:",
		"//",
		"//:",
		"//tools//compiler:x",
		"//tools/..:x",
		"//tools:a b",
	}

	for _, raw := range invalid {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw)
			assert.Error(t, err)
		})
	}
}

func TestLabel_RoundTrip(t *testing.T) {
	canonical := []string{
		"//tools/compiler:driver",
		"//lib:lib",
		"//:root-target",
	}

	for _, raw := range canonical {
		t.Run(raw, func(t *testing.T) {
			l, err := Parse(raw)
			require.NoError(t, err)

			roundTrip := l.String()
			assert.Equal(t, raw, roundTrip)

			again, err := Parse(roundTrip)
			require.NoError(t, err)
			assert.True(t, l.Equal(again))
		})
	}
}

func TestLabel_CanonicalString(t *testing.T) {
	// The short form expands to the canonical form with the name spelled out.
	l, err := Parse("//tools/compiler")
	require.NoError(t, err)
	assert.Equal(t, "//tools/compiler:compiler", l.String())
}

func TestLabel_Equal(t *testing.T) {
	a1, _ := Parse("//a:b")
	a2, _ := Parse("//a:b")
	a3, _ := Parse("//a:c")
	a4, _ := Parse("//c:b")

	assert.True(t, a1.Equal(a2))
	assert.False(t, a1.Equal(a3))
	assert.False(t, a1.Equal(a4))
	assert.False(t, a1.IsZero())
	assert.True(t, Label{}.IsZero())
}
