// Command rebuildmerge rebuilds the PDF of a batch of sales documents and
// concatenates them into a single file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/application/docmerge"
	"github.com/openbiz/backend/internal/infrastructure/config"
	"github.com/openbiz/backend/internal/infrastructure/i18n"
	"github.com/openbiz/backend/internal/infrastructure/logger"
	"github.com/openbiz/backend/internal/infrastructure/persistence"
	"github.com/openbiz/backend/internal/infrastructure/printing"
	"github.com/openbiz/backend/internal/infrastructure/storage"
)

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "rebuildmerge",
		Short: "Rebuild document PDFs and merge them into one file",
		Example: "  rebuildmerge --tenant=<id> --filter=nopayment --lang=fr-FR\n" +
			"  rebuildmerge --tenant=<id> --mode=order --filter=date --date-after=20260101 --date-before=20260131",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, opts, err := f.options(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, f, tenantID, opts)
		},
	}
	f.register(cmd)
	return cmd
}

func run(ctx context.Context, f *flags, tenantID uuid.UUID, opts docmerge.Options) error {
	var (
		cfg *config.Config
		err error
	)
	if f.configFile != "" {
		cfg, err = config.LoadFrom(f.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	level := cfg.Log.Level
	if f.logLevel != "" {
		level = f.logLevel
	}
	log, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLevel), 0)))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	fileStore, err := storage.New(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize document storage: %w", err)
	}
	translator, err := i18n.New(cfg.App.DefaultLanguage)
	if err != nil {
		return err
	}
	paper, err := printing.PaperFromConfig(cfg.Documents)
	if err != nil {
		return err
	}
	templates, err := printing.NewTemplateEngine(translator)
	if err != nil {
		return err
	}
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Documents.RenderTimeout,
		ExecPath:       cfg.Documents.ChromePath,
		NoSandbox:      os.Geteuid() == 0,
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("failed to start PDF renderer: %w", err)
	}
	defer func() {
		_ = renderer.Close()
	}()

	svc := docmerge.NewService(docmerge.Config{
		Documents: persistence.NewGormDocumentRepository(db.DB),
		Generator: printing.NewGenerator(templates, renderer, fileStore, paper, log,
			printing.WithDefaultModel(cfg.Documents.DefaultModel)),
		Merger:          printing.NewMerger(),
		Store:           fileStore,
		Languages:       translator,
		Paper:           paper,
		DefaultLanguage: cfg.App.DefaultLanguage,
		Logger:          log,
	})

	code, err := svc.RebuildMerge(ctx, tenantID, opts)
	switch code {
	case docmerge.ResultSuccess:
		if err != nil {
			log.Warn("Some documents could not be rebuilt", zap.Error(err))
		}
		if opts.DoNotMerge {
			log.Info("Rebuild completed")
			break
		}
		log.Info("Merge completed", zap.String("output", opts.OutputKey(tenantID)))
	case docmerge.ResultEmpty:
		log.Info("No document matched the selection")
	default:
		if err == nil {
			err = fmt.Errorf("rebuild failed")
		}
		return err
	}
	return nil
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
