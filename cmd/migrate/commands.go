package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"electronic_product/config"
	"electronic_product/internal/logger"
	"electronic_product/internal/migration/categorymap"
	"electronic_product/internal/migration/enricher"
	"electronic_product/internal/migration/loader"
	"electronic_product/internal/migration/models"
	"electronic_product/internal/migration/orchestrator"
	"electronic_product/internal/migration/source"
	"electronic_product/internal/migration/store"
)

// cliOptions là các flag dùng chung của mọi sub-command
type cliOptions struct {
	envFile       string
	extraFile     string
	extraExplicit bool // extraFile do --extra-file hoặc PRODUCT_EXTRA_FILE chỉ định, không phải mặc định
	categoryMap   string
	adminID       string
	batchSize     int

	cfg *config.Configuration
	log logrus.FieldLogger
}

// job là một lần chạy trên Runner đã dựng sẵn
type job func(ctx context.Context, r *orchestrator.Runner) ([]orchestrator.TableReport, error)

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Migrate the legacy SQL catalog into MongoDB",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initGlobal(opts.envFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.log = logger.GetMigrationLogger()

			_, extraFromEnv := os.LookupEnv("PRODUCT_EXTRA_FILE")
			opts.extraExplicit = cmd.Flags().Changed("extra-file") || extraFromEnv
			if !cmd.Flags().Changed("extra-file") {
				opts.extraFile = cfg.ProductExtraFile
			}
			if !cmd.Flags().Changed("category-map") {
				opts.categoryMap = cfg.ProductCategoryMapFile
			}
			if !cmd.Flags().Changed("admin-id") {
				opts.adminID = cfg.SeedAdminID
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envFile, "env", "", "Env file to load (default: config/env/<GO_ENV>.env)")
	flags.StringVar(&opts.extraFile, "extra-file", "", "Supplementary product fields JSON (default: PRODUCT_EXTRA_FILE)")
	flags.StringVar(&opts.categoryMap, "category-map", "", "Category catalog JSON (default: PRODUCT_CATEGORY_MAP_FILE)")
	flags.StringVar(&opts.adminID, "admin-id", "", "Fallback admin ObjectID for createdBy (default: SEED_ADMIN_ID)")
	flags.IntVar(&opts.batchSize, "batch-size", loader.DefaultBatchSize, "Documents per write batch")

	root.AddCommand(
		newTablesCmd(opts),
		newCategoriesCmd(opts),
		newProductsCmd(opts),
		newAllCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

func newTablesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Mirror the accounts, categories and products tables into raw collections (destructive)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), opts, "migrate_tables", true, migrateTables(opts))
		},
	}
}

func newCategoriesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Build enhanced categories from the raw categories collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), opts, "migrate_categories", false, migrateCategories(opts))
		},
	}
}

func newProductsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "Build enhanced products from the raw products collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), opts, "migrate_products", false, migrateProducts(opts))
		},
	}
}

func newAllCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run tables, categories and products in order, stopping at the first failure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd.Context(), opts, "migrate_all", true, sequence(allSteps(opts)...))
		},
	}
}

func newSeedCmd(opts *cliOptions) *cobra.Command {
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Apply the category catalog file",
	}
	seed.AddCommand(
		&cobra.Command{
			Use:   "categories",
			Short: "Create catalog categories missing from enhanced categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return execute(cmd.Context(), opts, "seed_categories", false, withCatalog(opts, (*orchestrator.Runner).SeedCategoryCatalog))
			},
		},
		&cobra.Command{
			Use:   "product-categories",
			Short: "Overwrite category links of enhanced products from the catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return execute(cmd.Context(), opts, "seed_product_categories", false, withCatalog(opts, (*orchestrator.Runner).LinkProductCategories))
			},
		},
	)
	return seed
}

// allSteps là thứ tự của `migrate all`
func allSteps(opts *cliOptions) []job {
	return []job{migrateTables(opts), migrateCategories(opts), migrateProducts(opts)}
}

// sequence chạy các job lần lượt, dừng ở job lỗi đầu tiên
func sequence(steps ...job) job {
	return func(ctx context.Context, r *orchestrator.Runner) ([]orchestrator.TableReport, error) {
		var reports []orchestrator.TableReport
		for _, step := range steps {
			reps, err := step(ctx, r)
			reports = append(reports, reps...)
			if err != nil {
				return reports, err
			}
		}
		return reports, nil
	}
}

func migrateTables(opts *cliOptions) job {
	return func(ctx context.Context, r *orchestrator.Runner) ([]orchestrator.TableReport, error) {
		return r.MigrateTables(ctx, models.DefaultMirrorSchemas(opts.cfg.Collections))
	}
}

func migrateCategories(opts *cliOptions) job {
	return func(ctx context.Context, r *orchestrator.Runner) ([]orchestrator.TableReport, error) {
		rep, err := r.MigrateCategories(ctx, opts.adminID)
		return []orchestrator.TableReport{rep}, err
	}
}

// migrateProducts là job duy nhất đọc file dữ liệu bổ sung
func migrateProducts(opts *cliOptions) job {
	return func(ctx context.Context, r *orchestrator.Runner) ([]orchestrator.TableReport, error) {
		extras, err := loadExtras(opts)
		if err != nil {
			return nil, err
		}
		r.SetExtras(extras)
		rep, err := r.MigrateProducts(ctx)
		return []orchestrator.TableReport{rep}, err
	}
}

// loadExtras đọc file dữ liệu bổ sung. File mặc định không tồn tại thì chạy không có dữ liệu bổ sung;
// file được chỉ định rõ mà đọc lỗi thì dừng job.
func loadExtras(opts *cliOptions) (enricher.ExtraLookup, error) {
	log := opts.log.WithField("file", opts.extraFile)
	if !opts.extraExplicit && opts.extraFile != "" {
		if _, err := os.Stat(opts.extraFile); errors.Is(err, fs.ErrNotExist) {
			log.Warn("Default supplementary product file not found, using defaults only")
			return enricher.NoExtras{}, nil
		}
	}

	extras, err := enricher.LoadExtraCatalog(opts.extraFile)
	if err != nil {
		log.WithError(err).Error("Cannot load supplementary product fields")
		return nil, err
	}
	log.WithField("extras", extras.Len()).Info("Supplementary product fields loaded")
	return extras, nil
}

func withCatalog(opts *cliOptions, fn func(*orchestrator.Runner, context.Context, *categorymap.Catalog) (orchestrator.TableReport, error)) job {
	return func(ctx context.Context, r *orchestrator.Runner) ([]orchestrator.TableReport, error) {
		catalog, err := categorymap.Load(opts.categoryMap)
		if err != nil {
			return nil, fmt.Errorf("load category map %s: %w", opts.categoryMap, err)
		}
		rep, err := fn(r, ctx, catalog)
		return []orchestrator.TableReport{rep}, err
	}
}

// execute mở kết nối, dựng Runner, chạy job rồi ghi audit và dòng kết quả cuối
func execute(ctx context.Context, opts *cliOptions, action string, needSQL bool, run job) error {
	start := time.Now()
	cfg := opts.cfg
	log := opts.log

	mongoHandle, err := initDatabase_MongoDB(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("Cannot open target database")
		return err
	}
	defer func() {
		if cerr := mongoHandle.Close(context.Background()); cerr != nil {
			log.WithError(cerr).Warn("Failed to close MongoDB connection")
		}
	}()

	var src orchestrator.Source
	if needSQL {
		sqlHandle, err := initDatabase_SQL(ctx, cfg, log)
		if err != nil {
			log.WithError(err).Error("Cannot open SQL source")
			return err
		}
		defer func() {
			if cerr := sqlHandle.Close(); cerr != nil {
				log.WithError(cerr).Warn("Failed to close SQL connection")
			}
		}()
		src = source.NewReader(sqlHandle.DB(), sqlHandle.Flavor(), log)
	}

	db, err := mongoHandle.Database()
	if err != nil {
		return err
	}
	runner := orchestrator.NewRunner(orchestrator.Options{
		Source: src,
		Store:  store.NewMongoStore(db, cfg.Collections),
		Collection: func(name string) (loader.Collection, error) {
			coll, err := mongoHandle.Collection(name)
			if err != nil {
				return nil, err
			}
			return coll, nil
		},
		Names:     cfg.Collections,
		BatchSize: opts.batchSize,
		Log:       log,
	})

	runLog := log.WithFields(logrus.Fields{"action": action, "run_id": runner.RunID()})
	runLog.Info("Migration run started")

	reports, err := run(ctx, runner)

	details := make(map[string]interface{}, len(reports))
	for _, rep := range reports {
		details[rep.Table+"->"+rep.Collection] = rep.Fields()
	}
	logger.LogRun(action, runner.RunID(), err == nil, time.Since(start), details)

	if err != nil {
		runLog.WithError(err).Error("Migration failed")
		logger.GetErrorLogger().WithFields(logrus.Fields{"action": action, "run_id": runner.RunID()}).WithError(err).Error("Migration failed")
		return err
	}
	runLog.WithField("tables", len(reports)).Info("Migration completed successfully")
	return nil
}
