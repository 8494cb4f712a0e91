package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/motordesk/internal/client/api"
	"github.com/dmitrijs2005/motordesk/internal/client/config"
	"github.com/dmitrijs2005/motordesk/internal/client/manifest"
	"github.com/dmitrijs2005/motordesk/internal/client/models"
	"github.com/dmitrijs2005/motordesk/internal/client/uploader"
	"github.com/dmitrijs2005/motordesk/internal/filex"
)

type App struct {
	config   *config.Config
	api      *api.Client
	uploader *uploader.Uploader
	manifest *manifest.Store
	vehicle  models.Vehicle
	loggedIn bool
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := api.NewClient(c.ServerURL)
	if err != nil {
		return nil, err
	}

	dir, err := filex.EnsureSubdDir(c.ManifestDir)
	if err != nil {
		return nil, fmt.Errorf("preparing manifest directory: %w", err)
	}

	m, err := manifest.Open(dir)
	if err != nil {
		return nil, err
	}

	u := uploader.New(apiClient, m)
	if err := u.Restore(); err != nil {
		return nil, fmt.Errorf("restoring upload queue: %w", err)
	}

	return &App{
		config:   c,
		api:      apiClient,
		uploader: u,
		manifest: m,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Close() error {
	return a.manifest.Close()
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.Close() }()

	printlnFn("Welcome to motordesk CLI (type 'help' for commands)")

	if restored := a.uploader.Images(); len(restored) > 0 {
		printlnFn(fmt.Sprintf("Restored %d staged image(s) from a previous session; entries without data must be re-added.", len(restored)))
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
