package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"cdoc/internal/analysis"
	"cdoc/internal/analyzer"
	"cdoc/internal/config"
	"cdoc/internal/crawler"
	"cdoc/internal/git"
	"cdoc/internal/linker"
	"cdoc/internal/logging"
	"cdoc/internal/patterns"
	"cdoc/internal/storage"
	"cdoc/internal/suggest"
	"cdoc/internal/watch"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "cdoc",
		Short: "Fault-tolerant C/C++ declaration analyzer and comment assistant",
	}
	configPath string
	dbPath     string
	excludes   []string
	reportPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "cdoc.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the declaration database (SQLite), overrides config")
	rootCmd.PersistentFlags().StringSliceVarP(&excludes, "exclude", "e", nil, "Additional directory patterns to exclude from scans")

	suggestCmd.Flags().StringVarP(&reportPath, "output", "o", "", "Report output path, overrides config")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(watchCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Output.DatabasePath = dbPath
	}
	if reportPath != "" {
		cfg.Output.ReportPath = reportPath
	}
	cfg.Project.Excludes = append(cfg.Project.Excludes, excludes...)
	return cfg, nil
}

func initStore(cfg *config.Config) (*storage.Store, error) {
	return storage.NewStore(cfg.Output.DatabasePath)
}

func newCrawler(cfg *config.Config) (*crawler.Crawler, error) {
	cr, err := crawler.New(cfg.Project.Excludes)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude patterns: %w", err)
	}
	cr.UseGitignore(cfg.Project.Root)
	return cr, nil
}

// projectRoot resolves the scan root: positional arg wins over config.
func projectRoot(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Project.Root
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan the project, extract variable declarations, and index symbols",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("%v", err)
		}
		root := projectRoot(cfg, args)

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		cr, err := newCrawler(cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}

		fmt.Printf("📂 Scanning directory: %s\n", root)
		ctx := context.Background()
		start := time.Now()

		files := 0
		declCount := 0
		index := linker.Index{}
		err = cr.ScanProject(root, func(path, source string) {
			files++
			decls := analyzer.Analyze(source)
			declCount += len(decls)
			if err := store.SaveDeclarations(ctx, path, decls); err != nil {
				log.Printf("⚠️ Failed to save %s: %v", path, err)
			}
			for _, sym := range linker.ScanSource(path, source) {
				index[sym.Name] = sym
			}
		})
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}

		if err := store.SaveSymbols(ctx, index); err != nil {
			log.Fatalf("Failed to save symbol index: %v", err)
		}

		fmt.Printf("✅ Scanned %d files in %v: %d declarations, %d symbols.\n",
			files, time.Since(start).Round(time.Millisecond), declCount, len(index))
		fmt.Printf("🎉 Database: %s\n", cfg.Output.DatabasePath)
	},
}

var learnCmd = &cobra.Command{
	Use:   "learn [path]",
	Short: "Learn commenting patterns from the existing codebase",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("%v", err)
		}
		root := projectRoot(cfg, args)

		cr, err := newCrawler(cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}

		fmt.Printf("🧠 Learning comment patterns from: %s\n", root)
		learner := patterns.NewLearner()
		files := 0
		err = cr.ScanProject(root, func(path, source string) {
			files++
			learner.LearnFile(path, source)
		})
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}

		set := learner.Result()
		if err := patterns.Save(set, cfg.Knowledge.PatternsPath); err != nil {
			log.Fatalf("Failed to save patterns: %v", err)
		}

		fmt.Printf("✅ Learned from %d files: %d variable comment types, %d functions, %d structs.\n",
			files, len(set.Variable), len(set.Function), len(set.DataStructures))
		fmt.Printf("💾 Patterns: %s\n", cfg.Knowledge.PatternsPath)
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [path]",
	Short: "Generate comment suggestions for extracted declarations",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("%v", err)
		}
		root := projectRoot(cfg, args)

		dict, err := suggest.LoadDictionary(cfg.Knowledge.DictionaryPath)
		if err != nil {
			log.Fatalf("Failed to load dictionary: %v", err)
		}

		// Learned patterns are optional; suggestions degrade gracefully.
		set, err := patterns.Load(cfg.Knowledge.PatternsPath)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("⚠️ Ignoring patterns file: %v", err)
			}
			set = nil
		}

		cr, err := newCrawler(cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}

		fmt.Printf("✍️  Generating suggestions for: %s\n", root)
		gen := suggest.NewGenerator(dict, set)

		var report []suggest.FileSuggestions
		total := 0
		err = cr.ScanProject(root, func(path, source string) {
			sugg := gen.ForSource(source)
			total += len(sugg)
			report = append(report, suggest.FileSuggestions{File: path, Suggestions: sugg})
		})
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}

		content := suggest.FormatReport(report)
		if err := os.WriteFile(cfg.Output.ReportPath, []byte(content), 0o644); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}

		fmt.Printf("✅ %d suggestions written to %s\n", total, cfg.Output.ReportPath)
	},
}

var linkCmd = &cobra.Command{
	Use:   "link [path]",
	Short: "Backlink symbol mentions in markdown docs to their definitions",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("%v", err)
		}
		root := projectRoot(cfg, args)

		cr, err := newCrawler(cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}

		fmt.Printf("🔗 Indexing symbol definitions in: %s\n", root)
		index, err := linker.BuildIndex(cr, root)
		if err != nil {
			log.Fatalf("Failed to build symbol index: %v", err)
		}
		fmt.Printf("   %d symbols found.\n", len(index))

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()
		if err := store.SaveSymbols(context.Background(), index); err != nil {
			log.Fatalf("Failed to save symbol index: %v", err)
		}

		lk := linker.New(index)
		docs, err := markdownFiles(root)
		if err != nil {
			log.Fatalf("Failed to find markdown files: %v", err)
		}

		linked := 0
		for _, doc := range docs {
			n, err := lk.LinkFile(doc)
			if err != nil {
				log.Printf("⚠️ Failed to link %s: %v", doc, err)
				continue
			}
			if n > 0 {
				fmt.Printf("   %s: %d symbols linked\n", doc, n)
			}
			linked += n
		}

		fmt.Printf("✅ Linked %d symbol mentions across %d docs.\n", linked, len(docs))
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Incrementally re-extract declarations for files changed in git",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("%v", err)
		}

		changes, err := git.ChangedFiles("HEAD")
		if err != nil {
			log.Fatalf("Failed to get git changes: %v", err)
		}
		if len(changes) == 0 {
			fmt.Println("✅ No changes detected.")
			return
		}
		fmt.Printf("📝 Detected %d changed files.\n", len(changes))

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		ctx := context.Background()

		// Impact is computed against the facts stored before this edit.
		report, err := analysis.AffectedDeclarations(ctx, store, changes)
		if err != nil {
			log.Printf("Analysis warning: %v", err)
		} else {
			fmt.Printf("🔍 %d stored declarations sit on changed lines:\n", len(report.Affected))
			for _, a := range report.Affected {
				fmt.Printf("   %s:%d %s %s\n", a.File, a.Declaration.Line, a.Declaration.Type, a.Declaration.Name)
			}
		}

		updated, removed := 0, 0
		for _, change := range changes {
			if !crawler.IsSourceFile(change.Path) {
				continue
			}
			if _, err := os.Stat(change.Path); os.IsNotExist(err) {
				if err := store.DeleteFile(ctx, change.Path); err != nil {
					log.Printf("⚠️ Failed to remove %s: %v", change.Path, err)
					continue
				}
				removed++
				continue
			}
			source, err := crawler.ReadSource(change.Path)
			if err != nil {
				log.Printf("⚠️ Failed to read %s: %v", change.Path, err)
				continue
			}
			if err := store.SaveDeclarations(ctx, change.Path, analyzer.Analyze(source)); err != nil {
				log.Printf("⚠️ Failed to save %s: %v", change.Path, err)
				continue
			}
			updated++
		}

		fmt.Printf("📊 Update: %d files re-extracted, %d removed.\n", updated, removed)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch the project and keep extracted declarations fresh",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("%v", err)
		}
		root := projectRoot(cfg, args)
		logger := logging.New(logging.FromEnv("watch"))

		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		w, err := watch.New(root, watch.DefaultDebounce)
		if err != nil {
			log.Fatalf("Failed to start watcher: %v", err)
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("👀 Watching %s (Ctrl-C to stop)...\n", root)
		err = w.Run(ctx, func(files []string) {
			for _, path := range files {
				if _, err := os.Stat(path); os.IsNotExist(err) {
					if err := store.DeleteFile(ctx, path); err != nil {
						logger.Warn("failed to remove file facts", "path", path, "error", err)
						continue
					}
					logger.Info("file removed", "path", path)
					continue
				}
				source, err := crawler.ReadSource(path)
				if err != nil {
					logger.Warn("failed to read file", "path", path, "error", err)
					continue
				}
				decls := analyzer.Analyze(source)
				if err := store.SaveDeclarations(ctx, path, decls); err != nil {
					logger.Warn("failed to save declarations", "path", path, "error", err)
					continue
				}
				logger.Info("file re-extracted", "path", path, "declarations", len(decls))
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Fatalf("Watcher stopped: %v", err)
		}
		fmt.Println("👋 Stopped.")
	},
}

// markdownFiles lists .md files under root, skipping dot-directories.
func markdownFiles(root string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			docs = append(docs, path)
		}
		return nil
	})
	return docs, err
}
