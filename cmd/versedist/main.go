// Command versedist measures how far a guessed verse is from an answer verse
// and looks up verse text and context.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/versedistance/core/distance"
	"github.com/FocuswithJustin/versedistance/core/lookup"
	"github.com/FocuswithJustin/versedistance/core/snapshot"
	"github.com/FocuswithJustin/versedistance/core/sqlite"
	"github.com/FocuswithJustin/versedistance/internal/app"
	"github.com/FocuswithJustin/versedistance/internal/config"
	"github.com/FocuswithJustin/versedistance/internal/logging"
	"github.com/FocuswithJustin/versedistance/internal/provider/sqldb"
)

const version = "0.1.0"

// Globals are flags shared by every command. Non-empty values override the
// config file and environment.
type Globals struct {
	Config    string `short:"c" help:"YAML config file" type:"path" env:"VERSEDIST_CONFIG"`
	Source    string `help:"Corpus source: sqlite, postgres, osis, snapshot or auto"`
	Corpus    string `help:"Corpus file for sqlite, osis and snapshot sources" type:"path"`
	DSN       string `name:"dsn" help:"PostgreSQL connection string"`
	LogLevel  string `help:"Log level: debug, info, warn or error"`
	LogFormat string `help:"Log format: text or json"`
	JSON      bool   `help:"Print results as JSON"`
}

// CLI defines the command-line interface for versedist.
type CLI struct {
	Globals `embed:""`

	Distance DistanceCmd `cmd:"" help:"Compare a guess against an answer"`
	Verse    VerseCmd    `cmd:"" help:"Print a verse, optionally with surrounding context"`
	Context  ContextCmd  `cmd:"" help:"Print verses before or after a reference"`
	Books    BooksCmd    `cmd:"" help:"List books in reading order"`
	Chapters ChaptersCmd `cmd:"" help:"List the chapters of a book"`
	Verses   VersesCmd   `cmd:"" help:"List the verse numbers of a chapter"`
	Info     InfoCmd     `cmd:"" help:"Summarize the loaded corpus"`
	Snapshot SnapshotCmd `cmd:"" help:"Export or import corpus snapshots"`
	Driver   DriverCmd   `cmd:"" help:"Show the compiled-in SQLite driver"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// env is bound into every command's Run method.
type env struct {
	ctx     context.Context
	out     io.Writer
	globals *Globals
}

// config loads the configuration with flag overrides applied and sets up logging.
func (e *env) config() (*config.Config, error) {
	cfg, err := config.Load(e.globals.Config)
	if err != nil {
		return nil, err
	}
	g := e.globals
	for dst, v := range map[*string]string{
		&cfg.Corpus.Source: g.Source,
		&cfg.Corpus.Path:   g.Corpus,
		&cfg.Corpus.DSN:    g.DSN,
		&cfg.Log.Level:     g.LogLevel,
		&cfg.Log.Format:    g.LogFormat,
	} {
		if v != "" {
			*dst = v
		}
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format)
	return cfg, nil
}

func (e *env) open() (*app.App, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	return app.Open(e.ctx, cfg)
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DistanceCmd compares a guess against an answer.
type DistanceCmd struct {
	Answer string `arg:"" help:"Answer reference, e.g. \"John 3:16\""`
	Guess  string `arg:"" help:"Guessed reference"`
	Method string `short:"m" help:"Hint method: text-percentage, scoped-percentage or scoped-count (default from config)"`
}

func (c *DistanceCmd) Run(e *env) error {
	a, err := e.open()
	if err != nil {
		return err
	}
	defer a.Close()

	method := a.Method
	if c.Method != "" {
		if method, err = distance.ParseMethod(c.Method); err != nil {
			return err
		}
	}

	r, err := a.Compare(e.ctx, c.Answer, c.Guess)
	if err != nil {
		return err
	}
	if e.globals.JSON {
		return e.printJSON(r)
	}
	if r.Exact() {
		fmt.Fprintf(e.out, "%s: correct\n", r.Guess)
		return nil
	}
	fmt.Fprintf(e.out, "%s%s\n", r.Guess, r.Describe(method))
	return nil
}

// VerseCmd prints a verse.
type VerseCmd struct {
	Reference string `arg:"" help:"Verse reference"`
	Context   bool   `help:"Include the configured number of context verses on each side"`
}

func (c *VerseCmd) Run(e *env) error {
	a, err := e.open()
	if err != nil {
		return err
	}
	defer a.Close()

	var verses []lookup.VerseWithText
	if c.Context {
		verses, err = a.Passage(e.ctx, c.Reference)
	} else {
		var v lookup.VerseWithText
		v, err = a.Verse(e.ctx, c.Reference)
		verses = []lookup.VerseWithText{v}
	}
	if err != nil {
		return err
	}
	return printVerses(e, verses)
}

// ContextCmd prints verses around a reference.
type ContextCmd struct {
	Reference string `arg:"" help:"Verse reference"`
	Count     int    `short:"n" help:"Number of verses" default:"2"`
	Direction string `short:"d" help:"forward or backward" enum:"forward,backward,after,before" default:"forward"`
}

func (c *ContextCmd) Run(e *env) error {
	dir, err := lookup.ParseDirection(c.Direction)
	if err != nil {
		return err
	}
	a, err := e.open()
	if err != nil {
		return err
	}
	defer a.Close()

	verses, err := a.Context(e.ctx, c.Reference, c.Count, dir)
	if err != nil {
		return err
	}
	return printVerses(e, verses)
}

func printVerses(e *env, verses []lookup.VerseWithText) error {
	if e.globals.JSON {
		return e.printJSON(verses)
	}
	for _, v := range verses {
		fmt.Fprintf(e.out, "%s  %s\n", v.Reference, v.Text)
	}
	return nil
}

// BooksCmd lists books.
type BooksCmd struct{}

func (c *BooksCmd) Run(e *env) error {
	a, err := e.open()
	if err != nil {
		return err
	}
	defer a.Close()

	books := a.Index.Books()
	if e.globals.JSON {
		return e.printJSON(books)
	}
	for _, b := range books {
		fmt.Fprintf(e.out, "%3d  %s (%d chapters)\n", b.Order, b.Title, b.Chapters)
	}
	return nil
}

// ChaptersCmd lists the chapters of a book.
type ChaptersCmd struct {
	Book string `arg:"" help:"Book title"`
}

func (c *ChaptersCmd) Run(e *env) error {
	a, err := e.open()
	if err != nil {
		return err
	}
	defer a.Close()

	chapters, err := a.Index.Chapters(c.Book)
	if err != nil {
		return err
	}
	return printNumbers(e, chapters)
}

// VersesCmd lists the verse numbers of a chapter.
type VersesCmd struct {
	Book    string `arg:"" help:"Book title"`
	Chapter int    `arg:"" help:"Chapter number"`
}

func (c *VersesCmd) Run(e *env) error {
	a, err := e.open()
	if err != nil {
		return err
	}
	defer a.Close()

	verses, err := a.Index.Verses(c.Book, c.Chapter)
	if err != nil {
		return err
	}
	return printNumbers(e, verses)
}

func printNumbers(e *env, ns []int) error {
	if e.globals.JSON {
		return e.printJSON(ns)
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	fmt.Fprintln(e.out, strings.Join(parts, " "))
	return nil
}

// InfoCmd summarizes the corpus.
type InfoCmd struct{}

type corpusInfo struct {
	Source      string `json:"source"`
	Books       int    `json:"books"`
	Verses      int    `json:"verses"`
	TotalLength int64  `json:"total_length"`
}

func (c *InfoCmd) Run(e *env) error {
	a, err := e.open()
	if err != nil {
		return err
	}
	defer a.Close()

	total, err := a.Aggregates.TotalTextLength()
	if err != nil {
		return err
	}
	books, err := a.Aggregates.TotalBookCount()
	if err != nil {
		return err
	}
	info := corpusInfo{Source: a.Config.Corpus.Source, Books: books, Verses: a.Index.Len(), TotalLength: total}
	if e.globals.JSON {
		return e.printJSON(info)
	}
	fmt.Fprintf(e.out, "source:       %s\n", info.Source)
	fmt.Fprintf(e.out, "books:        %d\n", info.Books)
	fmt.Fprintf(e.out, "verses:       %d\n", info.Verses)
	fmt.Fprintf(e.out, "total length: %d\n", info.TotalLength)
	return nil
}

// SnapshotCmd groups snapshot operations.
type SnapshotCmd struct {
	Export SnapshotExportCmd `cmd:"" help:"Write the configured corpus to a snapshot file"`
	Import SnapshotImportCmd `cmd:"" help:"Load a snapshot into a SQLite or PostgreSQL database"`
}

// SnapshotExportCmd writes a snapshot.
type SnapshotExportCmd struct {
	Output string `arg:"" help:"Snapshot file to write" type:"path"`
}

func (c *SnapshotExportCmd) Run(e *env) error {
	cfg, err := e.config()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, closer, err := app.OpenProvider(e.ctx, cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	sum, err := snapshot.WriteFile(e.ctx, c.Output, p)
	if err != nil {
		return err
	}
	logging.InfoContext(e.ctx, "snapshot_exported", "path", c.Output, "blake3", sum)
	fmt.Fprintf(e.out, "%s  %s\n", sum, c.Output)
	return nil
}

// SnapshotImportCmd loads a snapshot into a database.
type SnapshotImportCmd struct {
	Input    string `arg:"" help:"Snapshot file to read" type:"existingfile"`
	Database string `arg:"" optional:"" help:"SQLite file to write; omit to use --dsn for PostgreSQL" type:"path"`
}

func (c *SnapshotImportCmd) Run(e *env) error {
	cfg, err := e.config()
	if err != nil {
		return err
	}
	snap, err := snapshot.ReadFile(c.Input)
	if err != nil {
		return err
	}

	var p *sqldb.Provider
	switch {
	case c.Database != "":
		db, err := sqlite.Open(c.Database)
		if err != nil {
			return err
		}
		p = sqldb.New(db, sqldb.SQLite)
	case cfg.Corpus.DSN != "":
		if p, err = sqldb.OpenPostgres(e.ctx, cfg.Corpus.DSN); err != nil {
			return err
		}
	default:
		return fmt.Errorf("snapshot import needs a SQLite database path or --dsn")
	}
	defer p.Close()

	if err := sqldb.Store(e.ctx, p.DB(), p.Dialect(), snap.Books, snap.Verses); err != nil {
		return err
	}
	logging.InfoContext(e.ctx, "snapshot_imported", "path", c.Input, "dialect", p.Dialect().Name, "verses", len(snap.Verses))
	fmt.Fprintf(e.out, "imported %d verses (%s)\n", len(snap.Verses), snap.Checksum)
	return nil
}

// DriverCmd shows the SQLite driver.
type DriverCmd struct{}

func (c *DriverCmd) Run(e *env) error {
	info := sqlite.GetInfo()
	if e.globals.JSON {
		return e.printJSON(info)
	}
	fmt.Fprintf(e.out, "%s (%s) from %s\n", info.DriverName, info.DriverType, info.Package)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	fmt.Fprintf(e.out, "versedist version %s\n", version)
	return nil
}

// run parses args and executes the selected command, writing results to out.
func run(args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("versedist"),
		kong.Description("Verse distance - how far is a guess from the answer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx := logging.WithRequestID(context.Background(), logging.NewRequestID())
	return kctx.Run(&env{ctx: ctx, out: out, globals: &cli.Globals})
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "versedist: %v\n", err)
		os.Exit(1)
	}
}
