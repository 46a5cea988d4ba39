// Copyright © 2026 The tclint authors

// Package lsp implements the tclsp language server. It drives the core
// analysis engine incrementally from editor buffers: diagnostics on
// change, whole-document and range formatting, and document symbols for
// proc definitions.
package lsp

import (
	"os"
	"sync"
	"time"

	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/tclint/config"
)

const serverName = "tclsp"

// Server is the tclint language server.
type Server struct {
	handler protocol.Handler
	glspSrv *glspserver.Server
	docs    *DocumentStore

	// Run configuration loaded at initialize from the workspace root.
	runCfg   *config.RunConfig
	runCfgMu sync.RWMutex

	rootPath string

	// Debouncer for didChange notifications.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithConfig injects a run configuration instead of discovering one in
// the workspace root.
func WithConfig(rc *config.RunConfig) Option {
	return func(s *Server) { s.runCfg = rc }
}

// New creates a new tclsp server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:     NewDocumentStore(),
		debounce: make(map[string]*time.Timer),
		exitFn:   os.Exit,
	}
	for _, o := range opts {
		o(s)
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentFormatting:      s.textDocumentFormatting,
		TextDocumentRangeFormatting: s.textDocumentRangeFormatting,
		TextDocumentDocumentSymbol:  s.textDocumentDocumentSymbol,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootPath = uriToPath(*params.RootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
	}

	s.loadConfig()

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// loadConfig reads the workspace configuration once at startup. A broken
// or missing config silently falls back to defaults; the CLI is the
// place where config errors are surfaced loudly.
func (s *Server) loadConfig() {
	s.runCfgMu.Lock()
	defer s.runCfgMu.Unlock()
	if s.runCfg != nil {
		return
	}

	if s.rootPath != "" {
		for _, name := range config.DefaultFiles {
			path := s.rootPath + string(os.PathSeparator) + name
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if rc, err := config.Load(path); err == nil {
				s.runCfg = rc
				return
			}
		}
	}
	s.runCfg = config.DefaultRunConfig()
}

// configForPath returns the effective config for a file path.
func (s *Server) configForPath(path string) *config.Config {
	s.runCfgMu.RLock()
	defer s.runCfgMu.RUnlock()
	if s.runCfg == nil {
		return config.Default()
	}
	return s.runCfg.ForPath(path)
}

// shutdown handles the LSP shutdown request.
func (s *Server) shutdown(ctx *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	return nil
}

// exit terminates the process on the LSP exit notification.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
