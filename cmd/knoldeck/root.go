package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/config"
	"github.com/conorfennell/knoldeck/internal/importer"
	"github.com/conorfennell/knoldeck/internal/logger"
	"github.com/conorfennell/knoldeck/internal/sm2"
	"github.com/conorfennell/knoldeck/internal/storage"
	"github.com/conorfennell/knoldeck/internal/study"
)

// app carries what every subcommand needs once the root has loaded the
// configuration and opened the database.
type app struct {
	cfg *config.Config
	db  *storage.DB
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "knoldeck",
		Short:        "Spaced repetition flashcards",
		Long:         "knoldeck schedules flashcard reviews with the SM-2 algorithm and serves them over a JSON API.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newDeckCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newDueCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newReviewCmd(a))
	return root
}

// execute runs root and closes the database afterwards, also when the
// command failed.
func (a *app) execute(root *cobra.Command) error {
	defer func() {
		if err := a.close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}()
	return root.Execute()
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db
	slog.Debug("Database opened", "path", cfg.DBPath)
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *app) studyService() *study.Service {
	scheduler := sm2.NewScheduler(sm2.NewParams(a.cfg.MaxEase), nil)
	return study.NewService(a.db, scheduler, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

func (a *app) importer() *importer.Importer {
	return importer.New(a.db, a.cfg.ReposDir, nil)
}
