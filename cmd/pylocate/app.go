// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pylocate/pylocate/internal/config"
	"github.com/pylocate/pylocate/internal/consistency"
	"github.com/pylocate/pylocate/internal/discovery"
	"github.com/pylocate/pylocate/internal/locator"
	"github.com/pylocate/pylocate/internal/osenv"
	"github.com/pylocate/pylocate/pkg/pyenv"
	"github.com/pylocate/pylocate/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. All Cobra handlers
	// receive an App and delegate through its service interfaces.
	App struct {
		Config    ConfigProvider
		Discovery DiscoveryService
		Documents DocumentService
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Discovery DiscoveryService
		Documents DocumentService
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// FindRequest captures the merged flag and config inputs of one
	// discovery run.
	FindRequest struct {
		// SearchPaths are scanned for environments; empty means the working directory.
		SearchPaths []types.FilesystemPath
		// EnvironmentDirectories hold conda environments as immediate children.
		EnvironmentDirectories []types.FilesystemPath
		// CondaExecutable pins the conda binary.
		CondaExecutable types.FilesystemPath
		// WorkspaceOnly skips global enumeration and PATH scanning.
		WorkspaceOnly bool
		// Kinds restricts results; empty means every kind.
		Kinds []pyenv.Kind
		// Concurrency bounds parallel classification; 0 uses the CPU count.
		Concurrency int
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// DiscoveryService runs one discovery pass.
	DiscoveryService interface {
		Find(ctx context.Context, req FindRequest) (*discovery.Result, error)
	}

	// DocumentService reads environment documents from disk.
	DocumentService interface {
		Read(path types.FilesystemPath) (*consistency.Document, error)
	}

	appDiscoveryService struct {
		env func() osenv.Environment
	}

	fileDocumentService struct{}
)

// NewApp creates an App with production defaults for nil dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		Discovery: deps.Discovery,
		Documents: deps.Documents,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Discovery == nil {
		app.Discovery = &appDiscoveryService{env: func() osenv.Environment { return osenv.FromProcess() }}
	}
	if app.Documents == nil {
		app.Documents = fileDocumentService{}
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// Find builds the default strategy set for the host and runs discovery.
func (s *appDiscoveryService) Find(ctx context.Context, req FindRequest) (*discovery.Result, error) {
	env := s.env()

	roots := req.SearchPaths
	if len(roots) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		roots = []types.FilesystemPath{types.FilesystemPath(wd)}
	}

	locators := locator.Default(env, locator.Options{
		CondaExecutable: req.CondaExecutable,
		CondaEnvDirs:    req.EnvironmentDirectories,
	})

	d := discovery.New(locators,
		discovery.WithEnvironment(env),
		discovery.WithSearchRoots(roots...),
		discovery.WithWorkspaceOnly(req.WorkspaceOnly),
		discovery.WithKinds(req.Kinds...),
		discovery.WithConcurrency(req.Concurrency),
	)
	return d.Discover(ctx)
}

// Read parses and schema-checks an environment document.
func (fileDocumentService) Read(path types.FilesystemPath) (*consistency.Document, error) {
	return consistency.ReadDocument(path)
}
