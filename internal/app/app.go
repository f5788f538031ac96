package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/ProjectCodeKw/reviewharvest/internal/config"
	"github.com/ProjectCodeKw/reviewharvest/internal/dataset"
	"github.com/ProjectCodeKw/reviewharvest/internal/infrastructure/csvtable"
	"github.com/ProjectCodeKw/reviewharvest/internal/infrastructure/metacritic"
	"github.com/ProjectCodeKw/reviewharvest/internal/infrastructure/postgres"
	"github.com/ProjectCodeKw/reviewharvest/internal/infrastructure/steam"
	"github.com/ProjectCodeKw/reviewharvest/internal/infrastructure/telegram"
	"github.com/ProjectCodeKw/reviewharvest/internal/infrastructure/translate"
	"github.com/ProjectCodeKw/reviewharvest/internal/logging"
	"github.com/ProjectCodeKw/reviewharvest/internal/source"
	"github.com/ProjectCodeKw/reviewharvest/internal/usecase"
	"github.com/ProjectCodeKw/reviewharvest/pkg/ratelimit"
)

// Application wires configuration to use cases.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, logger *slog.Logger) *Application {
	if logger == nil {
		logger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: logger}
}

// RunHarvest executes one quota-balanced collection run against the
// configured source.
func (a *Application) RunHarvest(ctx context.Context) error {
	registry := source.NewRegistry()
	registry.Register(steam.NewSource(a.cfg.Sources.Steam.ReviewsURL, nil))
	registry.Register(metacritic.NewSource(a.cfg.Sources.Metacritic.BaseURL, nil))

	src, err := registry.Resolve(a.cfg.Harvest.Source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}

	deps := usecase.HarvestDeps{
		Source:   src,
		Table:    csvtable.NewStore(a.cfg.Harvest.TablePath, a.cfg.Harvest.Thresholds()),
		Metadata: steam.NewMetadataProvider(a.cfg.Sources.Steam.StoreURL, nil),
		Limiter: ratelimit.New(
			time.Duration(a.cfg.Harvest.PageCooldownMs)*time.Millisecond,
			time.Duration(a.cfg.Harvest.BackoffSeconds)*time.Second,
		),
		Logger: logging.Component(a.logger, "harvest"),
	}

	if a.cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", a.cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		deps.Archive = postgres.NewArchive(db)
	}

	if tg := a.cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		deps.Notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	opts := usecase.HarvestOptions{
		Subjects:         a.cfg.DomainSubjects(),
		TargetPerSubject: a.cfg.Harvest.TargetPerSubject,
		Thresholds:       a.cfg.Harvest.Thresholds(),
		MinWords:         a.cfg.Harvest.MinWords,
		MaxPages:         a.cfg.Harvest.MaxPages,
		SubjectCooldown:  time.Duration(a.cfg.Harvest.SubjectCooldownMs) * time.Millisecond,
	}

	bar := pb.StartNew(len(opts.Subjects))
	report, err := usecase.NewHarvest(deps, opts).Run(ctx, bar)
	bar.Finish()
	if err != nil {
		return err
	}

	fmt.Print(report.Digest())
	return nil
}

// RunTranslate passes every review text of a table through the transformation
// service and writes the result to a new table.
func (a *Application) RunTranslate(ctx context.Context, inPath, outPath string) error {
	reviews, err := csvtable.LoadFile(inPath, a.cfg.Harvest.Thresholds())
	if err != nil {
		return err
	}

	client := translate.NewClient(
		a.cfg.Translator.Endpoint, a.cfg.Translator.APIKey,
		a.cfg.Translator.MinWords, a.cfg.Translator.MaxWords,
	)

	bar := pb.StartNew(len(reviews))
	translated, report := usecase.NewTranslate(client, logging.Component(a.logger, "translate")).
		Run(ctx, reviews, bar)
	bar.Finish()

	if err := csvtable.SaveFile(outPath, translated); err != nil {
		return err
	}

	fmt.Printf("translated %d reviews, %d fell back to original text\n", report.Total, report.FellBack)
	return nil
}

// RunCombine merges labeled source tables into one.
func (a *Application) RunCombine(labeled []string, outPath string) error {
	inputs := make([]dataset.Input, 0, len(labeled))
	for _, arg := range labeled {
		label, path, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("combine input %q: want Label=path", arg)
		}
		reviews, err := csvtable.LoadFile(path, a.cfg.Harvest.Thresholds())
		if err != nil {
			return err
		}
		inputs = append(inputs, dataset.Input{Label: label, Reviews: reviews})
	}

	combined := dataset.Combine(inputs)
	if err := csvtable.SaveFile(outPath, combined); err != nil {
		return err
	}

	fmt.Printf("combined %d reviews into %s\n", len(combined), outPath)
	return nil
}

// RunClean applies the curation rules to a table.
func (a *Application) RunClean(inPath, outPath string) error {
	reviews, err := csvtable.LoadFile(inPath, a.cfg.Harvest.Thresholds())
	if err != nil {
		return err
	}

	cleaned, report := dataset.Clean(reviews, dataset.DefaultCleanOptions())
	if err := csvtable.SaveFile(outPath, cleaned); err != nil {
		return err
	}

	fmt.Printf("kept %d of %d (duplicates %d, too short %d, too long %d, too funny %d)\n",
		report.Kept, report.Input, report.Duplicates, report.TooShort, report.TooLong, report.TooFunny)
	return nil
}

// RunBalance downsamples one source to a target row count.
func (a *Application) RunBalance(inPath, outPath, src string, target int, seed int64) error {
	reviews, err := csvtable.LoadFile(inPath, a.cfg.Harvest.Thresholds())
	if err != nil {
		return err
	}

	balanced := dataset.Balance(reviews, src, target, seed)
	if err := csvtable.SaveFile(outPath, balanced); err != nil {
		return err
	}

	fmt.Printf("balanced %d -> %d reviews\n", len(reviews), len(balanced))
	return nil
}

// RunNormalize fills in numeric scores for vote-only reviews.
func (a *Application) RunNormalize(inPath, outPath string) error {
	reviews, err := csvtable.LoadFile(inPath, a.cfg.Harvest.Thresholds())
	if err != nil {
		return err
	}

	normalized := dataset.NormalizeScores(reviews)
	if err := csvtable.SaveFile(outPath, normalized); err != nil {
		return err
	}

	fmt.Printf("normalized %d reviews\n", len(normalized))
	return nil
}

// RunStats prints dataset balance numbers.
func (a *Application) RunStats(inPath string) error {
	reviews, err := csvtable.LoadFile(inPath, a.cfg.Harvest.Thresholds())
	if err != nil {
		return err
	}

	fmt.Print(dataset.Compute(reviews).String())
	return nil
}
