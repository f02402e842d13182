package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/storefront-tui/internal/backend"
	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/atomicstack/storefront-tui/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	BaseURL        string
	Demo           bool
	Width          int
	Height         int
	ShowFooter     bool
	Verbose        bool
	Locale         string
	Currency       string
	Debounce       time.Duration
	RequestTimeout time.Duration
	BadgeInterval  time.Duration
}

// Run bootstraps and executes the Bubble Tea program. Cancelling parent
// ends the program.
func Run(parent context.Context, cfg Config) error {
	baseURL := cfg.BaseURL
	if cfg.Demo {
		demo, err := StartDemo()
		if err != nil {
			return fmt.Errorf("start demo backend: %w", err)
		}
		defer demo.Stop()
		baseURL = demo.URL
	}
	client, err := shop.NewClient(baseURL, shop.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return fmt.Errorf("storefront client: %w", err)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	watcher := backend.NewWatcher(client, cfg.BadgeInterval)
	defer watcher.Stop()

	model := ui.NewModel(ui.Options{
		Backend:    client,
		Context:    ctx,
		Printer:    i18n.New(cfg.Locale),
		Currency:   cfg.Currency,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Debounce:   cfg.Debounce,
		Watcher:    watcher,
		Animate:    true,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
