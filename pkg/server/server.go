package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC for one checker.
//
// Requests are handled one at a time in arrival order. The config watcher
// runs beside the request loop, so every checker access goes through mu.
type Server struct {
	checker      *suggest.CachedChecker
	loader       *dictionary.RuntimeLoader
	config       *config.Config
	configPath   string
	version      string
	requestCount int
	mu           sync.RWMutex
}

// NewServer creates a server. loader may be nil, which disables OpReload.
// configPath may be empty, which disables saving and watching the config.
func NewServer(checker *suggest.CachedChecker, loader *dictionary.RuntimeLoader, cfg *config.Config, configPath string) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		checker:    checker,
		loader:     loader,
		config:     cfg,
		configPath: configPath,
	}
}

// SetVersion sets the version reported in the ready message.
func (s *Server) SetVersion(v string) { s.version = v }

// Start serves stdin/stdout until stdin closes or ctx is done, watching the
// config file when enabled.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if s.config.Server.WatchConfig && s.configPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := config.Watch(ctx, s.configPath, s.applyConfig); err != nil {
				log.Warnf("Config watch disabled: %v", err)
			}
		}()
	}

	err := s.Serve(ctx, os.Stdin, os.Stdout)
	cancel()
	wg.Wait()
	return err
}

// Serve reads requests from r and writes responses to w. It returns nil on a
// clean EOF. A message that cannot be decoded ends the stream, since msgpack
// offers no way to resynchronise.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	log.Debug("Starting Server.")
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)

	s.mu.RLock()
	ready := ReadyResponse{Status: "ready", Version: s.version, Words: s.checker.Dictionary().Words()}
	s.mu.RUnlock()
	if err := send(enc, bw, ready); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Input closed, stopping server")
				return nil
			}
			_ = send(enc, bw, ErrorResponse{Error: "invalid msgpack request", Code: 400})
			return fmt.Errorf("decode request: %w", err)
		}

		if err := send(enc, bw, s.handle(req)); err != nil {
			return err
		}
	}
}

func send(enc *msgpack.Encoder, bw *bufio.Writer, response any) error {
	if err := enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("encode response: %w", err)
	}
	return bw.Flush()
}

// handle dispatches one request and returns the response to send.
func (s *Server) handle(req Request) any {
	s.requestCount++

	switch req.Op {
	case OpCheck:
		return s.handleCheck(req)
	case OpSuggest:
		return s.handleSuggest(req)
	case OpBatch:
		return s.handleBatch(req)
	case OpAdd:
		return s.handleAdd(req)
	case OpInfo:
		return s.handleInfo(req)
	case OpConfig:
		return s.handleConfig(req)
	case OpReload:
		return s.handleReload(req)
	}
	log.Debugf("Unknown op %q in request %s", req.Op, req.ID)
	return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown op: %q", req.Op), Code: 400}
}

func (s *Server) handleCheck(req Request) any {
	if req.Word == "" {
		return ErrorResponse{ID: req.ID, Error: "missing word", Code: 400}
	}
	start := time.Now()
	s.mu.RLock()
	correct := s.checker.Check(req.Word)
	s.mu.RUnlock()
	return CheckResponse{ID: req.ID, Correct: correct, TimeTaken: time.Since(start).Microseconds()}
}

func (s *Server) handleSuggest(req Request) any {
	if req.Word == "" {
		return ErrorResponse{ID: req.ID, Error: "missing word", Code: 400}
	}

	start := time.Now()
	s.mu.RLock()
	limit := s.clampLimit(req.Limit)
	correct := s.checker.Check(req.Word)
	matches := s.checker.SuggestMatches(req.Word, limit)
	s.mu.RUnlock()
	elapsed := time.Since(start)

	distances := make([]int, len(matches))
	for i, m := range matches {
		distances[i] = m.Score
	}
	ranks := utils.RankByDistance(distances)

	suggestions := make([]Suggestion, len(matches))
	for i, m := range matches {
		suggestions[i] = Suggestion{Word: m.Word, Rank: ranks[i], Distance: m.Score}
	}

	return SuggestResponse{
		ID:          req.ID,
		Correct:     correct,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
}

func (s *Server) handleBatch(req Request) any {
	if len(req.Words) == 0 {
		return ErrorResponse{ID: req.ID, Error: "missing words", Code: 400}
	}

	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	if maxBatch := s.config.Server.MaxBatch; len(req.Words) > maxBatch {
		return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("batch of %d exceeds max_batch %d", len(req.Words), maxBatch), Code: 413}
	}

	results := s.checker.BatchSuggestParallel(req.Words, s.clampLimit(req.Limit))
	items := make([]BatchItem, len(results))
	for i, r := range results {
		items[i] = BatchItem{
			Word:        r.Word,
			Correct:     s.checker.Check(r.Word),
			Suggestions: r.Suggestions,
		}
	}
	return BatchResponse{ID: req.ID, Results: items, Count: len(items), TimeTaken: time.Since(start).Microseconds()}
}

func (s *Server) handleAdd(req Request) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.checker.Add(req.Word)
	if err != nil {
		code := 400
		if errors.Is(err, dictionary.ErrLengthNotSupported) {
			code = 413
		}
		return ErrorResponse{ID: req.ID, Error: err.Error(), Code: code}
	}
	return AddResponse{ID: req.ID, Status: "ok", Added: added, Words: s.checker.Dictionary().Words()}
}

func (s *Server) handleInfo(req Request) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.checker.Dictionary().Stats()
	info := InfoResponse{
		ID:          req.ID,
		Status:      "ok",
		Words:       stats.Words,
		Buckets:     stats.Buckets,
		MaxLen:      stats.MaxLen,
		MaxWordLen:  s.checker.Dictionary().MaxWordLen(),
		Fingerprint: strconv.FormatUint(stats.Fingerprint, 16),
		MaxDif:      s.checker.MaxDif(),
		MaxLimit:    s.config.Server.MaxLimit,
		MaxBatch:    s.config.Server.MaxBatch,
		Cached:      s.checker.Cache().Len(),
		Requests:    s.requestCount,
	}
	if s.loader != nil {
		info.Dictionary = s.loader.Path()
	}
	return info
}

func (s *Server) handleConfig(req Request) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.config.Update(s.configPath, req.MaxDif, req.MaxLimit, req.MaxBatch); err != nil {
		log.Warnf("Config update not saved: %v", err)
	}
	s.checker.SetMaxDif(s.config.Checker.MaxDif)

	return ConfigResponse{
		ID:       req.ID,
		Status:   "ok",
		MaxDif:   s.checker.MaxDif(),
		MaxLimit: s.config.Server.MaxLimit,
		MaxBatch: s.config.Server.MaxBatch,
	}
}

func (s *Server) handleReload(req Request) any {
	if s.loader == nil {
		return ErrorResponse{ID: req.ID, Error: "reload not available", Code: 501}
	}

	d, changed, err := s.loader.Reload()
	if err != nil {
		log.Errorf("Reloading dictionary: %v", err)
		return ErrorResponse{ID: req.ID, Error: err.Error(), Code: 500}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if changed {
		s.checker.SetDictionary(d)
		log.Infof("Reloaded %s: %d words", s.loader.Path(), d.Words())
	}
	return ReloadResponse{ID: req.ID, Status: "ok", Changed: changed, Words: s.checker.Dictionary().Words()}
}

// applyConfig takes the live tunables from a reloaded config file.
func (s *Server) applyConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config.Checker.MaxDif = cfg.Checker.MaxDif
	s.config.Server.MaxLimit = cfg.Server.MaxLimit
	s.config.Server.MaxBatch = cfg.Server.MaxBatch
	s.checker.SetMaxDif(cfg.Checker.MaxDif)
	log.Debugf("Applied config: max_dif=%d max_limit=%d max_batch=%d",
		cfg.Checker.MaxDif, cfg.Server.MaxLimit, cfg.Server.MaxBatch)
}

// clampLimit maps a requested limit onto max_limit. 0 or anything above
// max_limit becomes max_limit; max_limit 0 leaves the request unbounded.
func (s *Server) clampLimit(limit int) int {
	maxLimit := s.config.Server.MaxLimit
	if maxLimit == 0 {
		return max(limit, 0)
	}
	if limit <= 0 || limit > maxLimit {
		return maxLimit
	}
	return limit
}
