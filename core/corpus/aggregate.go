package corpus

import (
	"github.com/FocuswithJustin/versedistance/core/cache"
	"github.com/FocuswithJustin/versedistance/core/errors"
)

type chapterKey struct {
	book    string
	chapter int
}

// Aggregates memoizes the corpus totals used to normalize distances.
// Each accessor scans the index on first use and returns the stored value after.
// Aggregates is safe for concurrent use.
type Aggregates struct {
	idx *Index

	totalLength cache.Value[int64]
	bookCount   cache.Value[int]
	chapters    *cache.Memo[string, int]
	maxVerses   *cache.Memo[chapterKey, int]
}

// NewAggregates creates the aggregate cache for idx. size bounds the number of
// memoized per-book and per-chapter entries (cache.DefaultSize when size <= 0).
func NewAggregates(idx *Index, size int) *Aggregates {
	chapters, err := cache.NewMemo[string, int](size)
	if err != nil {
		panic(err) // unreachable: NewMemo clamps size to a positive value
	}
	maxVerses, err := cache.NewMemo[chapterKey, int](size)
	if err != nil {
		panic(err)
	}
	return &Aggregates{idx: idx, chapters: chapters, maxVerses: maxVerses}
}

// TotalTextLength returns the summed length of every verse.
func (a *Aggregates) TotalTextLength() (int64, error) {
	return a.totalLength.Get(func() (int64, error) {
		var total int64
		for _, e := range a.idx.entries {
			total += int64(e.verse.Length)
		}
		if total <= 0 {
			return 0, errors.NewCorpusIntegrity("total_text_length", "corpus text length is zero")
		}
		return total, nil
	})
}

// TotalBookCount returns the number of distinct books.
func (a *Aggregates) TotalBookCount() (int, error) {
	return a.bookCount.Get(func() (int, error) {
		seen := make(map[string]struct{})
		for _, e := range a.idx.entries {
			seen[e.verse.Book] = struct{}{}
		}
		if len(seen) == 0 {
			return 0, errors.NewCorpusIntegrity("total_book_count", "corpus has no books")
		}
		return len(seen), nil
	})
}

// ChapterCount returns the number of distinct chapters in book.
func (a *Aggregates) ChapterCount(book string) (int, error) {
	title, ok := a.idx.CanonicalBook(book)
	if !ok {
		return 0, errors.NewUnknownBook(book)
	}
	return a.chapters.Get(title, func(title string) (int, error) {
		chapters, err := a.idx.Chapters(title)
		if err != nil {
			return 0, err
		}
		if len(chapters) == 0 {
			return 0, errors.NewCorpusIntegrity("chapter_count", "book "+title+" has no chapters")
		}
		return len(chapters), nil
	})
}

// MaxVerse returns the highest verse number in a chapter.
func (a *Aggregates) MaxVerse(book string, chapter int) (int, error) {
	title, ok := a.idx.CanonicalBook(book)
	if !ok {
		return 0, errors.NewUnknownBook(book)
	}
	return a.maxVerses.Get(chapterKey{title, chapter}, func(k chapterKey) (int, error) {
		verses, err := a.idx.Verses(k.book, k.chapter)
		if err != nil {
			return 0, err
		}
		highest := 0
		for _, v := range verses {
			if v > highest {
				highest = v
			}
		}
		if highest == 0 {
			return 0, errors.NewCorpusIntegrity("max_verse", "chapter has no verses")
		}
		return highest, nil
	})
}

// Warm computes the global totals up front so later calls never scan.
// It fails with a CorpusIntegrityError when the corpus cannot normalize distances.
func (a *Aggregates) Warm() error {
	if _, err := a.TotalTextLength(); err != nil {
		return err
	}
	_, err := a.TotalBookCount()
	return err
}

// CacheStats reports the per-book and per-chapter memo statistics.
func (a *Aggregates) CacheStats() (chapters, maxVerses cache.Stats) {
	return a.chapters.Stats(), a.maxVerses.Stats()
}
