package loader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"filtergrid/internal/domain"
	"filtergrid/internal/eventbus"
)

// Stdin is the source name that reads standard input
const Stdin = "-"

// ErrLoadInProgress is returned by Start while a previous load is running
var ErrLoadInProgress = errors.New("load already in progress")

const (
	defaultBatchSize = 256
	maxLineSize      = 1024 * 1024
	maxDepth         = 5
	sniffSize        = 8000
)

// LoaderService reads lines from files, directories and stdin
type LoaderService interface {
	Start(ctx context.Context, sources []string) error
	Stop()
}

// Option configures a loader
type Option func(*loaderService)

// WithStdin replaces the reader used for the "-" source
func WithStdin(r io.Reader) Option {
	return func(ls *loaderService) {
		ls.stdin = r
	}
}

// WithBatchSize sets how many entries go into one EntriesLoadedEvent
func WithBatchSize(n int) Option {
	return func(ls *loaderService) {
		if n > 0 {
			ls.batchSize = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(ls *loaderService) {
		ls.log = log
	}
}

// loaderService is the concrete implementation
type loaderService struct {
	bus       eventbus.EventBus
	stdin     io.Reader
	batchSize int
	log       zerolog.Logger

	mu         sync.Mutex
	isLoading  bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewLoaderService creates a new loader publishing on bus
func NewLoaderService(bus eventbus.EventBus, opts ...Option) LoaderService {
	ls := &loaderService{
		bus:       bus,
		stdin:     os.Stdin,
		batchSize: defaultBatchSize,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(ls)
	}
	return ls
}

// Start reads sources in the background. Entries arrive as
// EntriesLoadedEvent batches, in source order, followed by one
// LoadCompletedEvent.
func (ls *loaderService) Start(ctx context.Context, sources []string) error {
	ls.mu.Lock()
	if ls.isLoading {
		ls.mu.Unlock()
		return ErrLoadInProgress
	}
	ls.isLoading = true

	loadCtx, cancel := context.WithCancel(ctx)
	ls.cancelFunc = cancel
	ls.mu.Unlock()

	ls.bus.Publish(eventbus.LoadStartedEvent{Sources: sources})

	ls.wg.Add(1)
	go func() {
		defer ls.wg.Done()

		r := &reader{ls: ls, ctx: loadCtx}
		defer func() {
			cancel()
			ls.mu.Lock()
			ls.isLoading = false
			ls.cancelFunc = nil
			ls.mu.Unlock()

			ls.bus.Publish(eventbus.LoadCompletedEvent{EntriesFound: r.nextID})
		}()

		for _, source := range sources {
			if loadCtx.Err() != nil {
				return
			}
			if err := r.source(source); err != nil && !errors.Is(err, context.Canceled) {
				ls.log.Error().Err(err).Str("source", source).Msg("failed to load source")
				ls.bus.Publish(eventbus.ErrorEvent{
					Message: fmt.Sprintf("Failed to load %s", source),
					Err:     err,
				})
			}
		}
	}()

	return nil
}

// Stop cancels any ongoing load and waits for it to finish
func (ls *loaderService) Stop() {
	ls.mu.Lock()
	if ls.cancelFunc != nil {
		ls.cancelFunc()
	}
	ls.mu.Unlock()

	ls.wg.Wait()
}

// reader holds the state of one load
type reader struct {
	ls     *loaderService
	ctx    context.Context
	nextID int
}

func (r *reader) source(source string) error {
	if source == Stdin {
		return r.stream(Stdin, r.ls.stdin)
	}
	info, err := os.Stat(source)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return r.directory(source)
	}
	return r.file(source)
}

// directory loads every text file under root, skipping hidden and
// dependency directories
func (r *reader) directory(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := r.ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			r.ls.log.Warn().Err(err).Str("path", path).Msg("error walking path")
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			relPath, _ := filepath.Rel(root, path)
			if strings.Count(relPath, string(filepath.Separator)) >= maxDepth || skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		if err := r.file(path); err != nil && !errors.Is(err, context.Canceled) {
			r.ls.log.Warn().Err(err).Str("path", path).Msg("skipping file")
		}
		return nil
	})
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "vendor", "target", "build", "dist", "__pycache__", "venv":
		return true
	}
	return false
}

func (r *reader) file(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, _ := br.Peek(sniffSize)
	if bytes.IndexByte(head, 0) >= 0 {
		r.ls.log.Debug().Str("path", path).Msg("skipping binary file")
		return nil
	}
	return r.stream(path, br)
}

// stream publishes the lines of in as batches. in is scanned on its own
// goroutine: cancellation returns at once, even while a read is blocked on an
// open pipe, and the scanner ends with its next read.
func (r *reader) stream(source string, in io.Reader) error {
	lines := make(chan string, r.ls.batchSize)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-r.ctx.Done():
				scanErr <- r.ctx.Err()
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	batch := make([]domain.Entry, 0, r.ls.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		r.ls.bus.Publish(eventbus.EntriesLoadedEvent{Source: source, Entries: batch})
		batch = make([]domain.Entry, 0, r.ls.batchSize)
	}

	line := 0
	for {
		select {
		case <-r.ctx.Done():
			flush()
			return r.ctx.Err()

		case text, ok := <-lines:
			if !ok {
				flush()
				if err := <-scanErr; err != nil {
					return fmt.Errorf("read %s: %w", source, err)
				}
				r.ls.log.Debug().Str("source", source).Int("lines", line).Msg("source loaded")
				return nil
			}
			if err := r.ctx.Err(); err != nil {
				flush()
				return err
			}
			line++
			batch = append(batch, domain.Entry{
				ID:     r.nextID,
				Source: source,
				Line:   line,
				Text:   strings.TrimRight(text, "\r"),
			})
			r.nextID++
			if len(batch) == r.ls.batchSize {
				flush()
			}
		}
	}
}
