package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rentdesk/pkg/importer"
	"rentdesk/pkg/match"
	"rentdesk/pkg/store"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

var verbose bool

func logV(format string, args ...any) {
	if verbose {
		logger.Info().Msgf(format, args...)
	}
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.Fatal().Msg("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	return gdb
}

// Main: scans a drop directory for bank-export CSVs, imports each through
// the matcher/validator pipeline, optional watch mode. Processed files are
// moved to done/ or failed/ so reruns are idempotent.
func main() {
	dirFlag := flag.String("dir", "drop/transactions", "directory to scan for CSV exports")
	modeFlag := flag.String("mode", "tenant", "import mode: tenant or owner")
	dryRun := flag.Bool("dry-run", false, "Parse, match and validate only; no DB writes, files stay in place")
	watch := flag.Bool("watch", false, "Watch directory for new files")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-file logging")
	flag.Parse()

	_ = godotenv.Load()

	mode := match.Mode(*modeFlag)
	if mode != match.ModeTenant && mode != match.ModeOwner {
		logger.Fatal().Str("mode", *modeFlag).Msg("mode must be tenant or owner")
	}

	w := &watcher{dir: *dirFlag, mode: mode, dryRun: *dryRun}
	if !*dryRun {
		w.store = store.NewStore(mustInitDBFromEnv())
	}

	files := listCSVFiles(*dirFlag)
	logger.Info().Int("files", len(files)).Int("workers", effectiveWorkers(*workers)).
		Str("dir", *dirFlag).Msg("scanning")
	w.runWorkerPool(files, effectiveWorkers(*workers))

	if *watch {
		if err := w.watchDirectory(effectiveWorkers(*workers)); err != nil {
			logger.Fatal().Err(err).Msg("watch failed")
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func listCSVFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isCSV(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

type watcher struct {
	dir    string
	mode   match.Mode
	dryRun bool
	store  *store.Store
}

// processFile runs one CSV through parse, match, validate, commit. The
// first-tenant fallback stays off here: nobody reviews these rows before
// they hit the ledger.
func (w *watcher) processFile(name string) {
	path := filepath.Join(w.dir, name)
	headers, rows, err := importer.ParseFile(path)
	if err != nil {
		logger.Error().Err(err).Str("file", name).Msg("parse failed")
		w.moveTo(name, "failed")
		return
	}

	var ref importer.ReferenceData
	if !w.dryRun {
		ref, err = w.store.LoadReferenceData(context.Background())
		if err != nil {
			logger.Error().Err(err).Str("file", name).Msg("failed to load reference data")
			return
		}
	}

	s := importer.NewSession(w.mode, headers, rows, ref)
	s.Process()
	valid, warning, errRows := s.Counts()
	logV("%s: %d rows, %d valid, %d warning, %d error", name, len(rows), valid, warning, errRows)

	if w.dryRun {
		logger.Info().Str("file", name).Int("valid", valid).Int("warning", warning).
			Int("error", errRows).Msg("dry-run: no writes")
		return
	}

	inserted, err := s.Commit(context.Background(), w.store)
	if err != nil {
		logger.Error().Err(err).Str("file", name).Msg("import failed")
		w.moveTo(name, "failed")
		return
	}
	logger.Info().Str("file", name).Int("imported", len(inserted)).
		Int("skipped", errRows).Msg("imported")
	w.moveTo(name, "done")
}

func (w *watcher) moveTo(name, sub string) {
	dst := filepath.Join(w.dir, sub)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		logger.Error().Err(err).Str("dir", dst).Msg("cannot create dir")
		return
	}
	if err := os.Rename(filepath.Join(w.dir, name), filepath.Join(dst, name)); err != nil {
		logger.Error().Err(err).Str("file", name).Msg("cannot move file")
	}
}

func (w *watcher) watchDirectory(workers int) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return err
	}
	logger.Info().Str("dir", w.dir).Msg("watching (debounced)")

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending files; a CSV is picked up once
		// it has stopped growing
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-fw.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					name := filepath.Base(ev.Name)
					if !isCSV(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-fw.Errors:
				if !ok {
					close(fileCh)
					return
				}
				logger.Error().Err(err).Msg("watch error")
			}
		}
	}()

	w.runWorkerPool(nil, workers, fileCh)
	return nil
}

// runWorkerPool fans names out to workers; with extra channels it blocks
// and keeps consuming (watch mode), otherwise it drains the initial list
// and returns.
func (w *watcher) runWorkerPool(initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				w.processFile(name)
			}
		}()
	}
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	wg.Wait()
}
