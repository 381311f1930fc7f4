package distance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocuswithJustin/versedistance/core/corpus/corpustest"
	"github.com/FocuswithJustin/versedistance/core/distance"
)

func TestParseMethod(t *testing.T) {
	for _, m := range []distance.Method{distance.TextPercentage, distance.ScopedPercentage, distance.ScopedCount} {
		got, err := distance.ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := distance.ParseMethod("furlongs")
	assert.Error(t, err)
	assert.Equal(t, "Method(9)", distance.Method(9).String())
}

func TestDescribe(t *testing.T) {
	e, _ := newEngine(t, corpustest.Scenario())

	tests := []struct {
		name   string
		guess  string
		chap   int
		verse  int
		method distance.Method
		want   string
	}{
		{"text", "A", 2, 2, distance.TextPercentage, " (33.333% away)"},
		{"chapter percent", "A", 2, 2, distance.ScopedPercentage, " (50% chapters in book away)"},
		{"chapter count", "A", 2, 2, distance.ScopedCount, " (1 chapters in book away)"},
		{"book percent", "B", 1, 4, distance.ScopedPercentage, " (50% books away)"},
		{"verse percent", "A", 1, 3, distance.ScopedPercentage, " (67% verses in chapter away)"},
		{"verse count", "A", 1, 3, distance.ScopedCount, " (2 verses in chapter away)"},
		{"exact", "A", 1, 1, distance.ScopedPercentage, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := e.Compare(corpustest.Ref("A", 1, 1), corpustest.Ref(tt.guess, tt.chap, tt.verse))
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Describe(tt.method))
		})
	}
}
