package distance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FocuswithJustin/versedistance/core/corpus"
	"github.com/FocuswithJustin/versedistance/core/corpus/corpustest"
	"github.com/FocuswithJustin/versedistance/core/distance"
	"github.com/FocuswithJustin/versedistance/core/errors"
)

func newEngine(t *testing.T, p corpus.Provider) (*distance.Engine, *corpus.Index) {
	t.Helper()
	idx, err := corpus.Build(context.Background(), p)
	require.NoError(t, err)
	return distance.NewEngine(idx, corpus.NewAggregates(idx, 0)), idx
}

func TestScenario(t *testing.T) {
	e, _ := newEngine(t, corpustest.Scenario())
	const answer, guess corpus.Ordinal = 1, 5 // A 1:1, A 2:2

	text, err := e.TextPercent(answer, guess)
	require.NoError(t, err)
	assert.InDelta(t, 100.0/3, text.Percent, 1e-9)
	assert.Equal(t, distance.DirectionHigher, text.Direction)

	books, err := e.BetweenBooks(answer, guess)
	require.NoError(t, err)
	assert.Equal(t, distance.ScopedDistance{Count: 0, Percent: 0, Unit: distance.UnitBooks}, books)

	chapters, err := e.BetweenChapters(answer, guess, "A")
	require.NoError(t, err)
	assert.Equal(t, distance.ScopedDistance{Count: 1, Percent: 50, Unit: distance.UnitChapters}, chapters)

	verses, err := e.BetweenVerses(answer, guess, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, 4, verses.Count)
	assert.Equal(t, distance.UnitVerses, verses.Unit)
	// 4 verses against a 3-verse chapter is capped.
	assert.Equal(t, 100.0, verses.Percent)
}

func TestTextPercent_EqualReferences(t *testing.T) {
	e, idx := newEngine(t, corpustest.Scenario())
	for o := corpus.Ordinal(1); int(o) <= idx.Len(); o++ {
		d, err := e.TextPercent(o, o)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d.Percent)
		assert.Equal(t, distance.DirectionEqual, d.Direction)
	}
}

func TestTextPercent_SwapFlipsDirection(t *testing.T) {
	e, idx := newEngine(t, corpustest.Sample())
	n := corpus.Ordinal(idx.Len())
	for a := corpus.Ordinal(1); a <= n; a++ {
		for g := a + 1; g <= n; g++ {
			fwd, err := e.TextPercent(a, g)
			require.NoError(t, err)
			back, err := e.TextPercent(g, a)
			require.NoError(t, err)

			assert.Equal(t, fwd.Percent, back.Percent)
			assert.Equal(t, distance.DirectionHigher, fwd.Direction)
			assert.Equal(t, distance.DirectionLower, back.Direction)
		}
	}
}

func TestTextPercent_AdjacentIsZero(t *testing.T) {
	e, _ := newEngine(t, corpustest.Scenario())
	d, err := e.TextPercent(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.Percent)
	assert.Equal(t, distance.DirectionHigher, d.Direction)
}

func TestScoped_SameUnitIsZero(t *testing.T) {
	e, _ := newEngine(t, corpustest.Scenario())

	// A 1:1 and A 2:2 share a book.
	books, err := e.BetweenBooks(1, 5)
	require.NoError(t, err)
	assert.Zero(t, books.Count)

	// B 1:1 and B 1:4 share a chapter.
	chapters, err := e.BetweenChapters(6, 9, "B")
	require.NoError(t, err)
	assert.Zero(t, chapters.Count)
	assert.Zero(t, chapters.Percent)
}

func TestScoped_AcrossBooks(t *testing.T) {
	e, _ := newEngine(t, corpustest.Scenario())

	// A 1:1 -> B 1:4: [1, 9) touches A and B.
	books, err := e.BetweenBooks(1, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, books.Count)
	assert.Equal(t, 50.0, books.Percent)

	// A 2:2 -> B 1:1: [5, 6) holds only A 2:2, so no book lies between them.
	books, err = e.BetweenBooks(5, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, books.Count)

	chapters, err := e.BetweenChapters(1, 9, "A")
	require.NoError(t, err)
	assert.Equal(t, 2, chapters.Count)
	assert.Equal(t, 100.0, chapters.Percent)
}

func TestBetweenVerses_NoSubtraction(t *testing.T) {
	e, _ := newEngine(t, corpustest.Scenario())

	tests := []struct {
		a, g    corpus.Ordinal
		count   int
		percent float64
	}{
		{1, 1, 0, 0},
		{1, 2, 1, 100.0 / 3},
		{2, 1, 1, 100.0 / 3},
		{1, 3, 2, 200.0 / 3},
	}
	for _, tt := range tests {
		d, err := e.BetweenVerses(tt.a, tt.g, "A", 1)
		require.NoError(t, err)
		assert.Equal(t, tt.count, d.Count, "%d -> %d", tt.a, tt.g)
		assert.InDelta(t, tt.percent, d.Percent, 1e-9, "%d -> %d", tt.a, tt.g)
	}
}

func TestScoped_SymmetricMagnitude(t *testing.T) {
	e, idx := newEngine(t, corpustest.Scenario())
	n := corpus.Ordinal(idx.Len())
	for a := corpus.Ordinal(1); a <= n; a++ {
		for g := corpus.Ordinal(1); g <= n; g++ {
			b1, err := e.BetweenBooks(a, g)
			require.NoError(t, err)
			b2, err := e.BetweenBooks(g, a)
			require.NoError(t, err)
			assert.Equal(t, b1, b2)

			c1, err := e.BetweenChapters(a, g, "A")
			require.NoError(t, err)
			c2, err := e.BetweenChapters(g, a, "A")
			require.NoError(t, err)
			assert.Equal(t, c1, c2)

			v1, err := e.BetweenVerses(a, g, "B", 1)
			require.NoError(t, err)
			v2, err := e.BetweenVerses(g, a, "B", 1)
			require.NoError(t, err)
			assert.Equal(t, v1, v2)
		}
	}
}

func TestCompare_PercentsInRange(t *testing.T) {
	for name, p := range map[string]*corpus.StaticProvider{
		"scenario": corpustest.Scenario(),
		"sample":   corpustest.Sample(),
	} {
		t.Run(name, func(t *testing.T) {
			e, idx := newEngine(t, p)
			verses := idx.Range(1, corpus.Ordinal(idx.Len()))
			for _, answer := range verses {
				for _, guess := range verses {
					r, err := e.Compare(answer.Reference, guess.Reference)
					require.NoError(t, err)
					for _, pct := range []float64{r.Text.Percent, r.Books.Percent, r.Chapters.Percent, r.Verses.Percent} {
						assert.GreaterOrEqual(t, pct, 0.0)
						assert.LessOrEqual(t, pct, 100.0)
					}
				}
			}
		})
	}
}

func TestCompare(t *testing.T) {
	e, _ := newEngine(t, corpustest.Sample())

	r, err := e.Compare(corpustest.Ref("John", 3, 16), corpustest.Ref("genesis", 1, 1))
	require.NoError(t, err)
	assert.Equal(t, corpustest.Ref("Genesis", 1, 1), r.Guess, "guess is reported in corpus spelling")
	assert.Equal(t, distance.DirectionLower, r.Text.Direction)
	assert.False(t, r.BookFound)
	assert.False(t, r.ChapterFound)
	assert.False(t, r.VerseFound)
	assert.Equal(t, 1, r.Books.Count)

	r, err = e.Compare(corpustest.Ref("John", 3, 16), corpustest.Ref("John", 3, 17))
	require.NoError(t, err)
	assert.True(t, r.BookFound)
	assert.True(t, r.ChapterFound)
	assert.False(t, r.VerseFound)
	assert.Equal(t, 1, r.Verses.Count)
	assert.Equal(t, distance.DirectionHigher, r.Text.Direction)

	r, err = e.Compare(corpustest.Ref("John", 3, 16), corpustest.Ref("John", 3, 16))
	require.NoError(t, err)
	assert.True(t, r.Exact())
	assert.Equal(t, distance.DirectionEqual, r.Text.Direction)
}

func TestCompare_UnresolvedReference(t *testing.T) {
	e, _ := newEngine(t, corpustest.Sample())

	_, err := e.Compare(corpustest.Ref("John", 3, 16), corpustest.Ref("John", 30, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrReferenceNotFound)
	assert.Contains(t, err.Error(), "guess")

	_, err = e.Compare(corpustest.Ref("Jude", 1, 1), corpustest.Ref("John", 3, 16))
	assert.ErrorIs(t, err, errors.ErrReferenceNotFound)
	assert.Contains(t, err.Error(), "answer")
}

func TestEngine_InvalidOrdinalsAndScopes(t *testing.T) {
	e, _ := newEngine(t, corpustest.Scenario())

	_, err := e.TextPercent(0, 3)
	assert.ErrorIs(t, err, errors.ErrReferenceNotFound)
	_, err = e.BetweenBooks(1, 10)
	assert.ErrorIs(t, err, errors.ErrReferenceNotFound)
	_, err = e.BetweenChapters(1, 2, "Z")
	assert.ErrorIs(t, err, errors.ErrUnknownBook)
	_, err = e.BetweenVerses(1, 2, "A", 7)
	assert.ErrorIs(t, err, errors.ErrUnknownChapter)
}

func TestEngine_ZeroLengthCorpusIsIntegrityError(t *testing.T) {
	idx, err := corpus.NewIndex([]string{"A"}, []corpus.Verse{
		{Reference: corpustest.Ref("A", 1, 1)},
		{Reference: corpustest.Ref("A", 1, 2)},
		{Reference: corpustest.Ref("A", 1, 3)},
	})
	require.NoError(t, err)
	e := distance.NewEngine(idx, corpus.NewAggregates(idx, 0))

	_, err = e.TextPercent(1, 3)
	require.Error(t, err)
	assert.True(t, errors.IsIntegrityError(err))
}
