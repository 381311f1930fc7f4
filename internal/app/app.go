// Package app wires a configured corpus source into the index, aggregate
// cache, distance engine and lookup service used by the versedist commands.
package app

import (
	"context"
	"io"
	"time"

	"github.com/FocuswithJustin/versedistance/core/corpus"
	"github.com/FocuswithJustin/versedistance/core/distance"
	"github.com/FocuswithJustin/versedistance/core/errors"
	"github.com/FocuswithJustin/versedistance/core/lookup"
	"github.com/FocuswithJustin/versedistance/core/ref"
	"github.com/FocuswithJustin/versedistance/core/snapshot"
	"github.com/FocuswithJustin/versedistance/internal/config"
	"github.com/FocuswithJustin/versedistance/internal/logging"
	"github.com/FocuswithJustin/versedistance/internal/provider/osis"
	"github.com/FocuswithJustin/versedistance/internal/provider/sqldb"
	"github.com/FocuswithJustin/versedistance/internal/validation"
)

// App holds a loaded corpus and the services built on it.
type App struct {
	Config     *config.Config
	Index      *corpus.Index
	Aggregates *corpus.Aggregates
	Engine     *distance.Engine
	Lookup     *lookup.Service
	Method     distance.Method

	closer io.Closer
}

// OpenProvider returns the corpus provider selected by cfg. The returned
// closer is nil for in-memory sources. An auto source is replaced in cfg by
// the detected one.
func OpenProvider(ctx context.Context, cfg *config.Config) (corpus.Provider, io.Closer, error) {
	if cfg.Corpus.Source == config.SourceAuto {
		t, err := validation.DetectFile(cfg.Corpus.Path)
		if err != nil {
			return nil, nil, errors.NewIO("detect", cfg.Corpus.Path, err)
		}
		logging.DebugContext(ctx, "corpus_source_detected", "path", cfg.Corpus.Path, "source", string(t))
		cfg.Corpus.Source = string(t)
	}

	switch cfg.Corpus.Source {
	case config.SourceSQLite:
		p, err := sqldb.OpenSQLite(ctx, cfg.Corpus.Path)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case config.SourcePostgres:
		p, err := sqldb.OpenPostgres(ctx, cfg.Corpus.DSN)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case config.SourceOSIS:
		p, err := osis.Open(cfg.Corpus.Path, osis.Options{})
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case config.SourceSnapshot:
		p, err := snapshot.ReadFile(cfg.Corpus.Path)
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	}
	return nil, nil, errors.NewValidation("corpus.source", "unknown source "+cfg.Corpus.Source)
}

// Open validates cfg, loads the configured corpus and builds the services.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, closer, err := OpenProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a, err := New(ctx, cfg, p)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	a.closer = closer
	return a, nil
}

// New builds the services from an already opened provider. The aggregate
// totals are computed eagerly so a malformed corpus fails here.
func New(ctx context.Context, cfg *config.Config, p corpus.Provider) (*App, error) {
	method, err := distance.ParseMethod(cfg.Distance.Method)
	if err != nil {
		return nil, errors.NewValidation("distance.method", err.Error())
	}

	start := time.Now()
	idx, err := corpus.Build(ctx, p)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s corpus", cfg.Corpus.Source)
	}
	agg := corpus.NewAggregates(idx, cfg.Cache.Size)
	if err := agg.Warm(); err != nil {
		return nil, errors.Wrapf(err, "load %s corpus", cfg.Corpus.Source)
	}
	logging.CorpusLoaded(ctx, cfg.Corpus.Source, len(idx.Books()), idx.Len(), time.Since(start))

	return &App{
		Config:     cfg,
		Index:      idx,
		Aggregates: agg,
		Engine:     distance.NewEngine(idx, agg),
		Lookup:     lookup.New(idx),
		Method:     method,
	}, nil
}

// Close releases the corpus source.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Compare parses both references and compares the guess against the answer.
func (a *App) Compare(ctx context.Context, answer, guess string) (*distance.Report, error) {
	ar, err := a.parse(ctx, "compare", answer)
	if err != nil {
		return nil, err
	}
	gr, err := a.parse(ctx, "compare", guess)
	if err != nil {
		return nil, err
	}

	r, err := a.Engine.Compare(ar, gr)
	if err != nil {
		logging.LookupFailed(ctx, "compare", answer+" / "+guess, err, errors.IsInputError(err))
		return nil, err
	}
	logging.DistanceComputed(ctx, r.Answer.String(), r.Guess.String(), a.Method.String(), r.Text.Percent)
	return r, nil
}

// Verse parses s and fetches the verse it names.
func (a *App) Verse(ctx context.Context, s string) (lookup.VerseWithText, error) {
	r, err := a.parse(ctx, "verse", s)
	if err != nil {
		return lookup.VerseWithText{}, err
	}
	v, err := a.Lookup.Fetch(r)
	if err != nil {
		logging.LookupFailed(ctx, "verse", s, err, errors.IsInputError(err))
	}
	return v, err
}

// Context parses s and returns count verses of context in direction dir.
func (a *App) Context(ctx context.Context, s string, count int, dir lookup.Direction) ([]lookup.VerseWithText, error) {
	r, err := a.parse(ctx, "context", s)
	if err != nil {
		return nil, err
	}
	vs, err := a.Lookup.Context(r, count, dir)
	if err != nil {
		logging.LookupFailed(ctx, "context", s, err, errors.IsInputError(err))
	}
	return vs, err
}

// Passage parses s and returns the verse with the configured context on each side.
func (a *App) Passage(ctx context.Context, s string) ([]lookup.VerseWithText, error) {
	r, err := a.parse(ctx, "passage", s)
	if err != nil {
		return nil, err
	}
	n := a.Config.Lookup.Context
	vs, err := a.Lookup.Surrounding(r, n, n)
	if err != nil {
		logging.LookupFailed(ctx, "passage", s, err, errors.IsInputError(err))
	}
	return vs, err
}

func (a *App) parse(ctx context.Context, op, s string) (corpus.Reference, error) {
	r, err := ref.Parse(s)
	if err != nil {
		logging.LookupFailed(ctx, op, s, err, true)
	}
	return r, err
}
