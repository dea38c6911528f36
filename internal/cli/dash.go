package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netdash/netdash/internal/config"
	"github.com/netdash/netdash/internal/dashboard"
	"github.com/netdash/netdash/internal/errors"
	"github.com/netdash/netdash/internal/logger"
)

// dashCommand starts the TUI dashboard with a background refresh scheduler.
func dashCommand(cfg *config.Config) error {
	client := newClient(cfg)

	// Stderr logging would tear the alternate screen; the dashboard stays
	// quiet unless --verbose is set.
	log := logger.Logger(logger.Noop())
	if verboseFlag {
		log = newLogger()
	}

	model := dashboard.NewModel(client, dashboard.Options{
		Timeout:          cfg.API.Timeout,
		MemoryFallbackGB: cfg.Memory.FallbackGB,
		Logger:           log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	// The scheduler drives alert and anomaly refreshes by injecting
	// messages into the running program. Stop blocks until the in-flight
	// tick returns, so no RefreshMsg is sent after Run exits.
	poller := dashboard.NewPoller(cfg.Refresh.Interval, func(ctx context.Context) {
		p.Send(dashboard.RefreshMsg{})
	})
	poller.Start()
	defer poller.Stop()

	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "Dashboard terminated unexpectedly")
	}
	return nil
}
