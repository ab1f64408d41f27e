// Package seed bulk-loads verbs and everything stored for them from a
// directory of JSON files.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/infrastructure"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

type Options struct {
	// Drop empties every verb table before the import.
	Drop bool
	// DryRun parses and validates the files without writing anything.
	// Records are not matched against stored verbs.
	DryRun  bool
	Workers int
}

type Report struct {
	Files map[Kind]int `json:"files"`
	// Inserted counts the records written, new or overwriting.
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	// Total is the number of verbs stored once the run is over. A dry run leaves it zero.
	Total int `json:"total"`
}

// verbKey names the verb a record belongs to.
type verbKey struct {
	Infinitive  string `json:"infinitive"`
	Preposition string `json:"preposition"`
}

type translationRecord struct {
	verbKey
	Text string `json:"text"`
}

type conjugationRecord struct {
	verbKey
	Ich string `json:"ich"`
	Du  string `json:"du"`
	Er  string `json:"er"`
	Wir string `json:"wir"`
	Ihr string `json:"ihr"`
	Sie string `json:"sie"`
}

type sentencesRecord struct {
	verbKey
	Sentences []domain.SentenceInput `json:"sentences"`
}

type Importer struct {
	db     *infrastructure.DB
	c      *infrastructure.Collections
	verbs  *infrastructure.VerbRepository
	logger *slog.Logger
}

func NewImporter(db *infrastructure.DB, c *infrastructure.Collections, logger *slog.Logger) *Importer {
	return &Importer{db: db, c: c, verbs: infrastructure.NewVerbRepository(db, c), logger: logger}
}

type counters struct {
	inserted atomic.Int64
	skipped  atomic.Int64
}

// Run imports every seed file under dir. Kinds are imported one after another;
// the files of one kind are imported concurrently, each in its own transaction.
func (im *Importer) Run(ctx context.Context, dir string, opts Options) (*Report, error) {
	files, err := Scan(dir, func(path string) {
		im.logger.Debug("ignoring file", slog.String("file", path))
	})
	if err != nil {
		return nil, err
	}
	report := &Report{Files: make(map[Kind]int, len(Phases))}
	for _, kind := range Phases {
		report.Files[kind] = len(files[kind])
	}

	if opts.Drop && !opts.DryRun {
		if err := im.db.Truncate(ctx, im.c); err != nil {
			return nil, err
		}
		im.logger.Info("dropped existing verbs")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	var count counters
	for _, kind := range Phases {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, f := range files[kind] {
			f := f
			g.Go(func() error {
				return im.importFile(gctx, f, opts.DryRun, &count)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		im.logger.Info("imported seed files", slog.String("kind", string(kind)), slog.Int("files", len(files[kind])))
	}
	report.Inserted = int(count.inserted.Load())
	report.Skipped = int(count.skipped.Load())
	if opts.DryRun {
		return report, nil
	}
	total, err := im.verbs.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	report.Total = total
	return report, nil
}

func decode[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("malformed seed file %s: %w", path, err)
	}
	return records, nil
}

func (im *Importer) importFile(ctx context.Context, f File, dryRun bool, count *counters) error {
	var (
		inserted, skipped int
		err               error
	)
	switch f.Kind {
	case KindVerbs:
		inserted, skipped, err = im.importVerbs(ctx, f, dryRun)
	case KindTranslations:
		inserted, skipped, err = im.importTranslations(ctx, f, dryRun)
	case KindConjugations:
		inserted, skipped, err = im.importConjugations(ctx, f, dryRun)
	case KindSentences:
		inserted, skipped, err = im.importSentences(ctx, f, dryRun)
	}
	if err != nil {
		return err
	}
	count.inserted.Add(int64(inserted))
	count.skipped.Add(int64(skipped))
	im.logger.Debug("imported seed file",
		slog.String("file", f.Path),
		slog.Int("inserted", inserted),
		slog.Int("skipped", skipped),
	)
	return nil
}

// skip logs a record that could not be imported.
func (im *Importer) skip(f File, key verbKey, reason error) {
	im.logger.Warn("skipping seed record",
		slog.String("file", f.Path),
		slog.String("infinitive", key.Infinitive),
		slog.String("preposition", key.Preposition),
		slog.Any("err", reason),
	)
}

// skippable reports whether err rejects a single record rather than the whole file.
func skippable(err error) bool {
	return domain.IsValidation(err) || errors.Is(err, domain.ErrNotFound) || errors.Is(err, errLetterMismatch)
}

var errLetterMismatch = errors.New("letter mismatch")

// inVerbOrder returns records sorted by the slug of their verb. Files written
// concurrently then lock the rows of a shard in the same order.
func inVerbOrder[T any](records []T, key func(T) verbKey) []T {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b T) int {
		ka, kb := key(a), key(b)
		return strings.Compare(domain.Slugify(ka.Infinitive, ka.Preposition), domain.Slugify(kb.Infinitive, kb.Preposition))
	})
	return sorted
}

// eachRecord runs fn for every record inside one transaction, counting the
// records fn rejects as skipped.
func eachRecord[T any](ctx context.Context, im *Importer, f File, dryRun bool, records []T, key func(T) verbKey, fn func(tx *infrastructure.VerbRepository, r T) error) (inserted, skipped int, err error) {
	run := func(tx *infrastructure.VerbRepository) error {
		for _, r := range inVerbOrder(records, key) {
			if err := fn(tx, r); err != nil {
				if !skippable(err) {
					return fmt.Errorf("%s: %w", f.Path, err)
				}
				im.skip(f, key(r), err)
				skipped++
				continue
			}
			inserted++
		}
		return nil
	}
	if dryRun {
		return inserted, skipped, run(nil)
	}
	return inserted, skipped, im.verbs.InTx(ctx, run)
}

func (im *Importer) importVerbs(ctx context.Context, f File, dryRun bool) (int, int, error) {
	records, err := decode[domain.VerbInput](f.Path)
	if err != nil {
		return 0, 0, err
	}
	key := func(in domain.VerbInput) verbKey { return verbKey{Infinitive: in.Infinitive, Preposition: in.Preposition} }
	return eachRecord(ctx, im, f, dryRun, records, key, func(tx *infrastructure.VerbRepository, in domain.VerbInput) error {
		v, err := in.Normalize()
		if err != nil {
			return err
		}
		if v.Letter != f.Letter {
			return fmt.Errorf("verb belongs to letter %s: %w", v.Letter, errLetterMismatch)
		}
		if tx == nil {
			return nil
		}
		_, _, err = tx.Upsert(ctx, v)
		return err
	})
}

// ref checks the record's letter and, outside a dry run, looks the verb up.
func ref(ctx context.Context, tx *infrastructure.VerbRepository, f File, key verbKey) (domain.VerbRef, error) {
	letter, err := domain.LetterOf(key.Infinitive)
	if err != nil {
		return domain.VerbRef{}, err
	}
	if letter != f.Letter {
		return domain.VerbRef{}, fmt.Errorf("verb belongs to letter %s: %w", letter, errLetterMismatch)
	}
	if tx == nil {
		return domain.VerbRef{Letter: letter}, nil
	}
	v, err := tx.Get(ctx, letter, domain.Slugify(key.Infinitive, key.Preposition))
	if err != nil {
		return domain.VerbRef{}, err
	}
	return v.Ref(), nil
}

func (im *Importer) importTranslations(ctx context.Context, f File, dryRun bool) (int, int, error) {
	records, err := decode[translationRecord](f.Path)
	if err != nil {
		return 0, 0, err
	}
	key := func(r translationRecord) verbKey { return r.verbKey }
	return eachRecord(ctx, im, f, dryRun, records, key, func(tx *infrastructure.VerbRepository, r translationRecord) error {
		t := domain.Translation{Language: f.Language, Text: domain.CleanText(r.Text)}
		if err := t.Validate(); err != nil {
			return err
		}
		vr, err := ref(ctx, tx, f, r.verbKey)
		if err != nil || tx == nil {
			return err
		}
		return tx.UpsertTranslation(ctx, vr, t)
	})
}

func (im *Importer) importConjugations(ctx context.Context, f File, dryRun bool) (int, int, error) {
	records, err := decode[conjugationRecord](f.Path)
	if err != nil {
		return 0, 0, err
	}
	key := func(r conjugationRecord) verbKey { return r.verbKey }
	return eachRecord(ctx, im, f, dryRun, records, key, func(tx *infrastructure.VerbRepository, r conjugationRecord) error {
		c := domain.Conjugation{Tense: f.Tense, Ich: r.Ich, Du: r.Du, Er: r.Er, Wir: r.Wir, Ihr: r.Ihr, Sie: r.Sie}
		if err := c.Validate(); err != nil {
			return err
		}
		vr, err := ref(ctx, tx, f, r.verbKey)
		if err != nil || tx == nil {
			return err
		}
		return tx.UpsertConjugation(ctx, vr, c.Clean())
	})
}

func (im *Importer) importSentences(ctx context.Context, f File, dryRun bool) (int, int, error) {
	records, err := decode[sentencesRecord](f.Path)
	if err != nil {
		return 0, 0, err
	}
	key := func(r sentencesRecord) verbKey { return r.verbKey }
	return eachRecord(ctx, im, f, dryRun, records, key, func(tx *infrastructure.VerbRepository, r sentencesRecord) error {
		for _, s := range r.Sentences {
			if err := s.Validate(); err != nil {
				return err
			}
		}
		vr, err := ref(ctx, tx, f, r.verbKey)
		if err != nil || tx == nil {
			return err
		}
		return tx.ReplaceSentences(ctx, vr, f.Tense, r.Sentences)
	})
}
