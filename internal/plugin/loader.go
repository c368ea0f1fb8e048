// ABOUTME: Discovers plugin modules in a folder and installs their exported constructors.
// ABOUTME: Bad modules and failing constructors are logged and skipped; loading never aborts boot.

package plugin

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lokesh58/lichobi/internal/chat"
	"github.com/lokesh58/lichobi/internal/command"
)

// DefaultExtensions is the module file extension allow-list.
var DefaultExtensions = []string{".go"}

// Export is one exported value of an imported module.
type Export struct {
	Name  string
	Value any
}

// Importer loads a module file and returns its exported values.
type Importer interface {
	Import(ctx context.Context, path string) ([]Export, error)
}

// Loader walks a folder for plugin modules.
type Loader struct {
	importer   Importer
	installer  *Installer
	extensions []string
	logger     *slog.Logger
}

// NewLoader creates a loader. Pass nil logger for default.
func NewLoader(importer Importer, installer *Installer, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		importer:   importer,
		installer:  installer,
		extensions: DefaultExtensions,
		logger:     logger.With("component", "plugin_loader"),
	}
}

// WithExtensions replaces the extension allow-list.
func (l *Loader) WithExtensions(exts ...string) *Loader {
	l.extensions = exts
	return l
}

// LoadFromFolder recursively imports every allowed file under root and
// installs the command and participant constructors each one exports. Only an
// unreadable root is returned as an error.
func (l *Loader) LoadFromFolder(ctx context.Context, root string) (Report, error) {
	var report Report

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			l.logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			return nil
		}
		if d.IsDir() || !l.allowed(path) {
			return nil
		}
		report.Add(l.loadFile(ctx, path))
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("loading plugins from %s: %w", root, err)
	}

	l.logger.Info("plugins loaded",
		"path", root,
		"commands", report.Commands,
		"participants", report.Participants,
		"failed", report.Failed)
	return report, nil
}

func (l *Loader) allowed(path string) bool {
	if strings.HasSuffix(path, "_test.go") {
		return false
	}
	return slices.Contains(l.extensions, filepath.Ext(path))
}

func (l *Loader) loadFile(ctx context.Context, path string) Report {
	var report Report

	exports, err := build(func() ([]Export, error) { return l.importer.Import(ctx, path) })
	if err != nil {
		l.logger.Error("failed to import plugin module", "path", path, "error", err)
		report.Failed++
		return report
	}

	valid := 0
	for _, export := range exports {
		source := path + ":" + export.Name
		switch fn := export.Value.(type) {
		case CommandConstructor:
			valid++
			report.countCommand(l.installer.InstallCommand(ctx, source, fn))
		case func(*Host) (*command.Descriptor, error):
			valid++
			report.countCommand(l.installer.InstallCommand(ctx, source, fn))
		case ParticipantConstructor:
			valid++
			report.countParticipant(l.installer.InstallParticipant(ctx, source, fn))
		case func(*Host) (*chat.Participant, error):
			valid++
			report.countParticipant(l.installer.InstallParticipant(ctx, source, fn))
		}
	}

	if valid == 0 {
		l.logger.Warn("plugin module has no command or participant constructors", "path", path)
	}
	return report
}

func (r *Report) countCommand(ok bool) {
	if ok {
		r.Commands++
	} else {
		r.Failed++
	}
}

func (r *Report) countParticipant(ok bool) {
	if ok {
		r.Participants++
	} else {
		r.Failed++
	}
}
