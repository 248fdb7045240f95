package commands

import (
	"fmt"
	"os"

	"github.com/baharimarine/compro/internal/config"
	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewRootCommand builds the cmsctl command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "cmsctl",
		Short:         "Management cli",
		Long:          `cmsctl manages accounts, project data and logs of a company profile CMS database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (defaults to $CONFIG_PATH or ./config.yaml)")

	env := &environment{configPath: &configPath}
	root.AddCommand(
		newCreateUserCommand(env),
		newImportProjectsCommand(env),
		newPruneLogsCommand(env),
		newInitConfigCommand(env),
	)
	return root
}

// environment loads config and opens the database lazily, once a
// subcommand actually needs them.
type environment struct {
	configPath *string
	cfg        *config.Config
}

func (e *environment) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.Load(e.path())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	e.cfg = cfg
	return cfg, nil
}

func (e *environment) path() string {
	if *e.configPath != "" {
		return *e.configPath
	}
	return os.Getenv("CONFIG_PATH")
}

func (e *environment) database() (*gorm.DB, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	db, err := models.Open(&cfg.Database, gormlogger.Warn)
	if err != nil {
		return nil, err
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
