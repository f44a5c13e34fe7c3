// Package cli wires the storefront client together behind a cobra
// command tree. It is the view layer: it renders state and forwards
// user intents (including confirmations) into the core components.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/Leorodrigs/deathstore-storefront/internal/cart"
	"github.com/Leorodrigs/deathstore-storefront/internal/catalog"
	"github.com/Leorodrigs/deathstore-storefront/internal/config"
	"github.com/Leorodrigs/deathstore-storefront/internal/gateway"
	"github.com/Leorodrigs/deathstore-storefront/internal/session"
)

// App holds the constructed components shared by all commands. Explicit
// construction and injection; no ambient globals.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Session *session.Manager
	Gateway *gateway.Client
	Cart    *cart.Engine
	Catalog *catalog.Pipeline

	In  io.Reader
	Out io.Writer
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// NewApp builds every component from configuration and restores any
// persisted session.
func NewApp(configPath string, verbose bool) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(verbose)
	if err != nil {
		return nil, err
	}

	mgr := session.NewManager(session.NewFileStore(cfg.TokenPath), log.Named("session"))
	if err := mgr.Restore(); err != nil {
		return nil, err
	}

	gw := gateway.New(cfg.BaseURL, mgr, log.Named("gateway"),
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		log.Warn("unrecognized locale, using und", zap.String("locale", cfg.Locale))
		tag = language.Und
	}

	return &App{
		Config:  cfg,
		Log:     log,
		Session: mgr,
		Gateway: gw,
		Cart:    cart.NewEngine(gw, log.Named("cart")),
		Catalog: catalog.New(tag),
		In:      os.Stdin,
		Out:     os.Stdout,
	}, nil
}

// Confirm asks the user a yes/no question. The affirmative response is
// what authorizes confirm-then-commit cart operations.
func (a *App) Confirm(prompt string) bool {
	fmt.Fprintf(a.Out, "%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(a.In)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// RequireAdmin gates admin commands on the claimed role. Advisory only:
// the backend still rejects unauthorized calls.
func (a *App) RequireAdmin() error {
	if !a.Session.IsAdmin() {
		return fmt.Errorf("admin access required")
	}
	return nil
}

// RequireSession gates commands that need an authenticated user.
func (a *App) RequireSession() error {
	if a.Session.Session() == nil {
		return fmt.Errorf("not logged in; run 'storefront login' first")
	}
	return nil
}
