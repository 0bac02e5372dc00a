package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"github.com/yourusername/automatismes-api/internal/config"
	"github.com/yourusername/automatismes-api/internal/engine"
	redisRepo "github.com/yourusername/automatismes-api/internal/repository/redis"
	"github.com/yourusername/automatismes-api/internal/repository/sqlstore"
	"github.com/yourusername/automatismes-api/internal/service"
	"github.com/yourusername/automatismes-api/pkg/database"
)

var importCmd = &cobra.Command{
	Use:   "import <workbook.xlsx>",
	Short: "Import exercises and method sheets from an Excel workbook",
	Long: `import reads the "Exercices" and "Methode" sheets and upserts them.
The whole workbook is validated first: nothing is written if any row is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		content, cleanup, err := newContentService(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		report, err := content.ImportWorkbook(ctx, f)
		if err != nil {
			return err
		}

		fmt.Printf("Exercises: %d created, %d updated\n", report.ExercisesCreated, report.ExercisesUpdated)
		fmt.Printf("Methods:   %d created, %d updated\n", report.MethodsCreated, report.MethodsUpdated)
		printFindings(report.Findings)
		return nil
	},
}

var lintStrict bool

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check every exercise template for inconsistencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		content, cleanup, err := newContentService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		findings, err := content.Lint(cmd.Context())
		if err != nil {
			return err
		}
		printFindings(findings)
		if lintStrict && len(findings) > 0 {
			return fmt.Errorf("%d finding(s)", len(findings))
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Exit with an error when any finding is reported")
}

// newContentService подключает БД и, если Redis доступен, сбрасывает кеш каталога после импорта
func newContentService(ctx context.Context, cfg *config.Config) (*service.ContentService, func(), error) {
	db, err := database.Open(cfg.Database, logger.Warn)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := database.GetSQLDB(db)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { sqlDB.Close() }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	exerciseRepo := sqlstore.NewExerciseRepo(db)
	methodRepo := sqlstore.NewMethodRepo(db)

	var invalidator service.CatalogInvalidator
	if redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis); err != nil {
		log.Printf("[admin] Redis недоступен, кеш каталога не будет сброшен: %v", err)
	} else {
		closers = append(closers, func() { redisClient.Close() })
		cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		catalog, err := service.NewCatalogService(exerciseRepo, methodRepo, cacheRepo, cfg.Practice.CatalogCacheTTL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		invalidator = catalog
	}

	content, err := service.NewContentService(exerciseRepo, methodRepo, invalidator)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return content, cleanup, nil
}

func printFindings(findings []engine.Finding) {
	if len(findings) == 0 {
		fmt.Println("No template findings")
		return
	}
	fmt.Printf("%d template finding(s):\n", len(findings))
	for _, f := range findings {
		fmt.Printf("  #%-4d %-22s %s\n", f.Numero, f.Code, f.Message)
	}
}
