// ABOUTME: Build-time list of plugin constructors and their installation.
// ABOUTME: A failing or panicking constructor is logged and skipped, never fatal.

package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lokesh58/lichobi/internal/chat"
	"github.com/lokesh58/lichobi/internal/command"
)

// Catalog lists the constructors compiled into the binary.
type Catalog struct {
	commands     []named[CommandConstructor]
	participants []named[ParticipantConstructor]
}

type named[T any] struct {
	name string
	fn   T
}

// AddCommand appends a command constructor. name is used in logs.
func (c *Catalog) AddCommand(name string, fn CommandConstructor) *Catalog {
	c.commands = append(c.commands, named[CommandConstructor]{name: name, fn: fn})
	return c
}

// AddParticipant appends a participant constructor. name is used in logs.
func (c *Catalog) AddParticipant(name string, fn ParticipantConstructor) *Catalog {
	c.participants = append(c.participants, named[ParticipantConstructor]{name: name, fn: fn})
	return c
}

// Len returns the number of constructors.
func (c *Catalog) Len() int {
	return len(c.commands) + len(c.participants)
}

// Report summarizes an installation.
type Report struct {
	Commands     int
	Participants int
	Failed       int
}

// Add accumulates other into r.
func (r *Report) Add(other Report) {
	r.Commands += other.Commands
	r.Participants += other.Participants
	r.Failed += other.Failed
}

// Installer instantiates constructors and registers their products.
type Installer struct {
	Host         *Host
	Commands     *command.Registry
	Participants *chat.Registry
	Logger       *slog.Logger
}

// Install builds and registers every constructor in c.
func (c *Catalog) Install(ctx context.Context, in *Installer) Report {
	var report Report
	for _, entry := range c.commands {
		if in.InstallCommand(ctx, entry.name, entry.fn) {
			report.Commands++
		} else {
			report.Failed++
		}
	}
	for _, entry := range c.participants {
		if in.InstallParticipant(ctx, entry.name, entry.fn) {
			report.Participants++
		} else {
			report.Failed++
		}
	}
	return report
}

// InstallCommand builds and registers one command. It reports success.
func (in *Installer) InstallCommand(ctx context.Context, source string, fn CommandConstructor) bool {
	desc, err := build(func() (*command.Descriptor, error) { return fn(in.Host) })
	if err == nil && desc == nil {
		err = fmt.Errorf("constructor returned no descriptor")
	}
	if err != nil {
		in.logger().Error("failed to build command", "source", source, "error", err)
		return false
	}
	if err := in.Commands.Register(ctx, desc); err != nil {
		in.logger().Error("failed to register command", "source", source, "command", desc.Name, "error", err)
		return false
	}
	return true
}

// InstallParticipant builds and registers one participant. It reports success.
func (in *Installer) InstallParticipant(ctx context.Context, source string, fn ParticipantConstructor) bool {
	p, err := build(func() (*chat.Participant, error) { return fn(in.Host) })
	if err == nil && p == nil {
		err = fmt.Errorf("constructor returned no participant")
	}
	if err != nil {
		in.logger().Error("failed to build chat participant", "source", source, "error", err)
		return false
	}
	if err := in.Participants.Register(ctx, p); err != nil {
		in.logger().Error("failed to register chat participant", "source", source, "participant", p.Name, "error", err)
		return false
	}
	return true
}

func (in *Installer) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.Default()
}

// build runs a constructor, converting a panic into an error.
func build[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()
	return fn()
}
