// Package dungeon parses dungeon command flags and runs generation.
package dungeon

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/louisbranch/dungeongen/internal/dungeon"
	"github.com/louisbranch/dungeongen/internal/dungeon/render"
	entrypoint "github.com/louisbranch/dungeongen/internal/platform/cmd"
	"github.com/louisbranch/dungeongen/internal/platform/id"
	"github.com/louisbranch/dungeongen/internal/platform/logging"
	"github.com/louisbranch/dungeongen/internal/platform/otel"
	"github.com/louisbranch/dungeongen/internal/random"
	"github.com/louisbranch/dungeongen/internal/storage"
	"github.com/louisbranch/dungeongen/internal/storage/sqlite"
)

// Entropy backends selectable with -entropy.
const (
	EntropySeeded = "seeded"
	EntropyCrypto = "crypto"
)

// Config holds dungeon command configuration.
type Config struct {
	Width     int     `env:"WIDTH"      envDefault:"8"`
	Height    int     `env:"HEIGHT"     envDefault:"8"`
	Seed      int64   `env:"SEED"`
	Entropy   string  `env:"ENTROPY"    envDefault:"seeded"`
	Mode      string  `env:"MODE"       envDefault:"ascii"`
	Coverage  float64 `env:"COVERAGE"   envDefault:"0.75"`
	MaxPasses int     `env:"MAX_PASSES" envDefault:"10000"`
	DBPath    string  `env:"DB_PATH"`
	List      bool
	PageSize  int
	PageToken string
	Show      string
	Log       logging.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Width, "width", cfg.Width, "dungeon width in cells")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "dungeon height in cells")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
	fs.StringVar(&cfg.Entropy, "entropy", cfg.Entropy, "entropy backend (seeded, crypto)")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "output mode (ascii, raw)")
	fs.Float64Var(&cfg.Coverage, "coverage", cfg.Coverage, "fraction of cells to discover before stopping")
	fs.IntVar(&cfg.MaxPasses, "max-passes", cfg.MaxPasses, "frontier sweeps before giving up")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite archive path (empty = do not archive)")
	fs.BoolVar(&cfg.List, "list", false, "list archived dungeons")
	fs.IntVar(&cfg.PageSize, "page-size", 0, "archived dungeons per page when listing (0 = default)")
	fs.StringVar(&cfg.PageToken, "page-token", "", "resume a listing from a previous next-page token")
	fs.StringVar(&cfg.Show, "show", "", "render an archived dungeon by id")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug, info, warn, error)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the dungeon command, writing renderings to out and logs to
// errOut.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	logger, err := logging.New(cfg.Log, errOut)
	if err != nil {
		return err
	}
	mode, err := render.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceDungeon, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		var store storage.DungeonStore
		if strings.TrimSpace(cfg.DBPath) != "" {
			s, err := sqlite.Open(ctx, cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer s.Close()
			store = s
		}

		switch {
		case cfg.List:
			return listDungeons(ctx, store, cfg.PageSize, cfg.PageToken, out)
		case strings.TrimSpace(cfg.Show) != "":
			return showDungeon(ctx, store, cfg.Show, mode, out)
		default:
			return generate(ctx, cfg, store, mode, out, logger)
		}
	})
}

func generate(ctx context.Context, cfg Config, store storage.DungeonStore, mode render.Mode, out io.Writer, logger logrus.FieldLogger) error {
	src, seed, err := newSource(cfg)
	if err != nil {
		return err
	}
	gen, err := dungeon.NewGenerator(src, dungeon.Config{
		Coverage:  cfg.Coverage,
		MaxPasses: cfg.MaxPasses,
	})
	if err != nil {
		return err
	}

	ctx, span := otel.Tracer().Start(ctx, "dungeon.generate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("dungeon.width", cfg.Width),
		attribute.Int("dungeon.height", cfg.Height),
		attribute.Int64("dungeon.seed", seed),
		attribute.String("dungeon.entropy", cfg.Entropy),
	)

	log := logger.WithFields(logrus.Fields{
		"width":  cfg.Width,
		"height": cfg.Height,
		"seed":   seed,
	})

	started := time.Now()
	result, err := gen.Generate(ctx, cfg.Width, cfg.Height)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, dungeon.ErrStalled) && result != nil {
			log.WithFields(logrus.Fields{
				"covered": result.Covered(),
				"passes":  result.Passes,
			}).Warn("dungeon generation stalled")
		}
		return fmt.Errorf("generate dungeon: %w", err)
	}
	span.SetAttributes(
		attribute.Int("dungeon.covered", result.Covered()),
		attribute.Int("dungeon.passes", result.Passes),
	)
	log.WithFields(logrus.Fields{
		"entrance": result.Grid.Entrance(),
		"covered":  result.Covered(),
		"area":     result.Grid.Area(),
		"passes":   result.Passes,
		"elapsed":  time.Since(started).String(),
	}).Info("dungeon generated")

	if store != nil {
		recordID, err := id.NewID()
		if err != nil {
			return err
		}
		if err := store.PutDungeon(ctx, storage.NewRecord(recordID, seed, result, time.Now())); err != nil {
			return fmt.Errorf("archive dungeon: %w", err)
		}
		log.WithField("id", recordID).Info("dungeon archived")
	}

	return render.Write(out, result.Grid, mode)
}

// newSource builds the sampling backend. Seeded sources draw a crypto seed
// when none is configured so every archived dungeon can be replayed.
func newSource(cfg Config) (dungeon.IntSource, int64, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Entropy)) {
	case "", EntropySeeded:
		seed := cfg.Seed
		if seed == 0 {
			var err error
			seed, err = random.NewSeed()
			if err != nil {
				return nil, 0, err
			}
		}
		return random.NewSeededSource(seed), seed, nil
	case EntropyCrypto:
		if cfg.Seed != 0 {
			return nil, 0, errors.New("seed cannot be combined with crypto entropy")
		}
		return random.NewCryptoSource(nil), 0, nil
	default:
		return nil, 0, fmt.Errorf("unknown entropy backend %q (want seeded or crypto)", cfg.Entropy)
	}
}

func listDungeons(ctx context.Context, store storage.DungeonStore, pageSize int, pageToken string, out io.Writer) error {
	if store == nil {
		return errors.New("listing requires an archive (-db)")
	}
	page, err := store.ListDungeons(ctx, pageSize, pageToken)
	if err != nil {
		return err
	}
	if len(page.Records) == 0 {
		_, err := fmt.Fprintln(out, "No archived dungeons.")
		return err
	}
	for _, r := range page.Records {
		if _, err := fmt.Fprintf(out, "%s  %dx%d  seed=%d  covered=%d/%d  passes=%d  %s\n",
			r.ID, r.Width, r.Height, r.Seed, r.Covered, r.Width*r.Height, r.Passes,
			r.CreatedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	if page.NextPageToken != "" {
		if _, err := fmt.Fprintf(out, "next page: %s\n", page.NextPageToken); err != nil {
			return err
		}
	}
	return nil
}

func showDungeon(ctx context.Context, store storage.DungeonStore, dungeonID string, mode render.Mode, out io.Writer) error {
	if store == nil {
		return errors.New("showing a dungeon requires an archive (-db)")
	}
	record, err := store.GetDungeon(ctx, dungeonID)
	if err != nil {
		return fmt.Errorf("get dungeon %s: %w", dungeonID, err)
	}
	grid, err := record.Grid()
	if err != nil {
		return err
	}
	return render.Write(out, grid, mode)
}
