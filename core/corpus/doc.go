// Package corpus provides the ordered verse index and the aggregate totals every
// distance calculation is built on.
//
// # Ordering
//
// An Index assigns each verse an Ordinal in reading order: book order first, then
// chapter, then verse. Ordinals are dense (1..Len) and never change once the index
// is built. The corpus is read-only for the life of the process.
//
// # Interval queries
//
// The index precomputes, per ordinal, the book sequence number, the global chapter
// sequence number and a running sum of verse lengths. This makes the interval
// queries used by the distance engine constant time:
//
//   - LengthBetween sums lengths over the open interval (lo, hi).
//   - DistinctBooks, DistinctChapters and DistinctVerses count units over the
//     half-open interval [lo, hi).
//
// # Aggregates
//
// Aggregates memoizes the corpus totals used to normalize distances: total text
// length, book count, chapters per book and highest verse per chapter.
//
// # Example
//
//	idx, err := corpus.Build(ctx, provider)
//	if err != nil {
//	    return err
//	}
//	agg := corpus.NewAggregates(idx, 0)
//	ord, err := idx.Resolve(corpus.Reference{Book: "John", Chapter: 3, Verse: 16})
package corpus
