// ABOUTME: Extracts declared chat-input options from an interaction into a typed bag.
// ABOUTME: Coerces raw JSON values and resolves entity ids against the resolved table.

package command

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/platform"
)

// Options is the extracted option bag handed to chat-input handlers.
// Absent optional options are absent from the bag.
type Options struct {
	values map[string]any
}

// NewOptions builds a bag from already-typed values, for tests and plugins
// that call handlers directly.
func NewOptions(values map[string]any) Options {
	return Options{values: values}
}

// Len returns the number of present options.
func (o Options) Len() int { return len(o.values) }

// Has reports whether name is present.
func (o Options) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Map returns a copy of the bag.
func (o Options) Map() map[string]any {
	out := make(map[string]any, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}

func (o Options) String(name string) (string, bool) {
	v, ok := o.values[name].(string)
	return v, ok
}

func (o Options) Int(name string) (int64, bool) {
	v, ok := o.values[name].(int64)
	return v, ok
}

func (o Options) Float(name string) (float64, bool) {
	v, ok := o.values[name].(float64)
	return v, ok
}

func (o Options) Bool(name string) (bool, bool) {
	v, ok := o.values[name].(bool)
	return v, ok
}

func (o Options) User(name string) (platform.User, bool) {
	v, ok := o.values[name].(platform.User)
	return v, ok
}

func (o Options) Role(name string) (platform.Role, bool) {
	v, ok := o.values[name].(platform.Role)
	return v, ok
}

func (o Options) Channel(name string) (platform.Channel, bool) {
	v, ok := o.values[name].(platform.Channel)
	return v, ok
}

func (o Options) Mentionable(name string) (platform.Mentionable, bool) {
	v, ok := o.values[name].(platform.Mentionable)
	return v, ok
}

func (o Options) Attachment(name string) (platform.Attachment, bool) {
	v, ok := o.values[name].(platform.Attachment)
	return v, ok
}

// ExtractOptions resolves every option declared in spec from the interaction.
// A missing required option is an error.
func ExtractOptions(spec *ChatInputSpec, in *platform.Interaction) (Options, error) {
	opts := Options{values: make(map[string]any)}
	if spec == nil {
		return opts, nil
	}

	for _, decl := range spec.Options {
		raw, present := in.Option(decl.Name)
		if !present || raw.Value == nil {
			if decl.Required {
				return Options{}, errs.NewUserInputError("Missing required option %q.", decl.Name)
			}
			continue
		}

		value, err := extractValue(decl, raw, &in.Resolved)
		if err != nil {
			return Options{}, fmt.Errorf("option %q: %w", decl.Name, err)
		}
		if value == nil {
			if decl.Required {
				return Options{}, errs.NewUserInputError("Invalid value for option %q.", decl.Name)
			}
			continue
		}
		opts.values[decl.Name] = value
	}
	return opts, nil
}

// extractValue converts raw by the declared type. A nil value with nil error
// means the value was filtered out (e.g. a disallowed channel type).
func extractValue(decl Option, raw platform.OptionValue, resolved *platform.Resolved) (any, error) {
	switch decl.Type {
	case platform.OptionString:
		s, ok := raw.Value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw.Value)
		}
		return s, nil

	case platform.OptionInteger:
		f, err := toFloat(raw.Value)
		if err != nil {
			return nil, err
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("expected integer, got %v", f)
		}
		return int64(f), nil

	case platform.OptionNumber:
		return toFloat(raw.Value)

	case platform.OptionBoolean:
		b, ok := raw.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", raw.Value)
		}
		return b, nil

	case platform.OptionUser:
		id := idOf(raw.Value)
		u, ok := resolved.Users[id]
		if !ok {
			return nil, fmt.Errorf("user %q not resolved", id)
		}
		return u, nil

	case platform.OptionRole:
		id := idOf(raw.Value)
		r, ok := resolved.Roles[id]
		if !ok {
			return nil, fmt.Errorf("role %q not resolved", id)
		}
		return r, nil

	case platform.OptionChannel:
		id := idOf(raw.Value)
		c, ok := resolved.Channels[id]
		if !ok {
			return nil, fmt.Errorf("channel %q not resolved", id)
		}
		if len(decl.ChannelTypes) > 0 && !slices.Contains(decl.ChannelTypes, c.Type) {
			return nil, nil
		}
		return c, nil

	case platform.OptionMentionable:
		id := idOf(raw.Value)
		if u, ok := resolved.Users[id]; ok {
			return platform.Mentionable{User: &u}, nil
		}
		if r, ok := resolved.Roles[id]; ok {
			return platform.Mentionable{Role: &r}, nil
		}
		return nil, fmt.Errorf("mentionable %q not resolved", id)

	case platform.OptionAttachment:
		id := idOf(raw.Value)
		a, ok := resolved.Attachments[id]
		if !ok {
			return nil, fmt.Errorf("attachment %q not resolved", id)
		}
		return a, nil
	}
	return nil, fmt.Errorf("unsupported option type %s", decl.Type)
}

// toFloat coerces the numeric shapes a decoded payload may carry.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}

func idOf(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case fmt.Stringer:
		return id.String()
	}
	return fmt.Sprint(v)
}
