package instrument

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"trade-journal/internal/models"
)

func TestClassify_StaticLists(t *testing.T) {
	for _, s := range ForexPairs {
		assert.Equal(t, models.CategoryForex, Classify(s), s)
	}
	for _, s := range Indices {
		assert.Equal(t, models.CategoryIndices, Classify(s), s)
	}
}

func TestClassify_UnknownFallsBackToForex(t *testing.T) {
	for _, s := range []string{"", "XAU/USD", "DAX40", "us30", "BTC"} {
		assert.Equal(t, models.CategoryForex, Classify(s), s)
		assert.False(t, IsKnown(s), s)
	}
}

func TestPointValue(t *testing.T) {
	assert.Equal(t, 50.0, PointValue("SPX500"))
	assert.Equal(t, 20.0, PointValue("NAS100"))
	assert.Equal(t, 1.0, PointValue("US30"))
	assert.Equal(t, 1.0, PointValue("NIKKEI225"))
	assert.Equal(t, 1.0, PointValue("UNKNOWN"))
}

func TestLookup(t *testing.T) {
	fx := Lookup("USD/JPY")
	assert.Equal(t, models.CategoryForex, fx.Category)
	assert.Equal(t, "pips", fx.Unit)
	assert.Equal(t, 0.01, fx.PipSize)

	idx := Lookup("NAS100")
	assert.Equal(t, models.CategoryIndices, idx.Category)
	assert.Equal(t, "points", idx.Unit)
	assert.Equal(t, 20.0, idx.PointValue)

	assert.Len(t, Symbols(), len(ForexPairs)+len(Indices))
}

// Property: classification is total and pip size depends only on "JPY".
func TestProperty_ClassifierTotality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Classify returns forex or indices for any string", prop.ForAll(
		func(s string) bool {
			c := Classify(s)
			if c != models.CategoryForex && c != models.CategoryIndices {
				return false
			}
			if !IsKnown(s) {
				return c == models.CategoryForex
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("PipSize is 0.01 iff symbol contains JPY", prop.ForAll(
		func(prefix, suffix string, withJPY bool) bool {
			s := prefix + suffix
			if withJPY {
				s = prefix + "JPY" + suffix
			}
			want := 0.0001
			if strings.Contains(s, "JPY") {
				want = 0.01
			}
			return PipSize(s) == want
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
