// ABOUTME: Tests for chat-input option extraction.
// ABOUTME: Covers per-type coercion, entity resolution, channel filtering and required options.

package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/platform"
)

func TestExtractOptions_AllTypes(t *testing.T) {
	spec := &ChatInputSpec{Options: []Option{
		{Name: "text", Type: platform.OptionString},
		{Name: "count", Type: platform.OptionInteger},
		{Name: "ratio", Type: platform.OptionNumber},
		{Name: "flag", Type: platform.OptionBoolean},
		{Name: "who", Type: platform.OptionUser},
		{Name: "role", Type: platform.OptionRole},
		{Name: "where", Type: platform.OptionChannel},
		{Name: "ping", Type: platform.OptionMentionable},
		{Name: "file", Type: platform.OptionAttachment},
	}}

	in := &platform.Interaction{
		Options: []platform.OptionValue{
			{Name: "text", Type: platform.OptionString, Value: "hi"},
			{Name: "count", Type: platform.OptionInteger, Value: float64(7)},
			{Name: "ratio", Type: platform.OptionNumber, Value: json.Number("0.5")},
			{Name: "flag", Type: platform.OptionBoolean, Value: true},
			{Name: "who", Type: platform.OptionUser, Value: "u1"},
			{Name: "role", Type: platform.OptionRole, Value: "r1"},
			{Name: "where", Type: platform.OptionChannel, Value: "c1"},
			{Name: "ping", Type: platform.OptionMentionable, Value: "r1"},
			{Name: "file", Type: platform.OptionAttachment, Value: "a1"},
		},
		Resolved: platform.Resolved{
			Users:       map[string]platform.User{"u1": {ID: "u1", Username: "alice"}},
			Roles:       map[string]platform.Role{"r1": {ID: "r1", Name: "mods"}},
			Channels:    map[string]platform.Channel{"c1": {ID: "c1", Name: "general"}},
			Attachments: map[string]platform.Attachment{"a1": {ID: "a1", Filename: "main.go"}},
		},
	}

	opts, err := ExtractOptions(spec, in)
	require.NoError(t, err)
	assert.Equal(t, 9, opts.Len())

	s, _ := opts.String("text")
	assert.Equal(t, "hi", s)
	n, _ := opts.Int("count")
	assert.Equal(t, int64(7), n)
	f, _ := opts.Float("ratio")
	assert.InDelta(t, 0.5, f, 1e-9)
	b, _ := opts.Bool("flag")
	assert.True(t, b)
	u, _ := opts.User("who")
	assert.Equal(t, "alice", u.Username)
	r, _ := opts.Role("role")
	assert.Equal(t, "mods", r.Name)
	c, _ := opts.Channel("where")
	assert.Equal(t, "general", c.Name)
	m, _ := opts.Mentionable("ping")
	require.NotNil(t, m.Role)
	assert.Equal(t, "r1", m.ID())
	a, _ := opts.Attachment("file")
	assert.Equal(t, "main.go", a.Filename)
}

func TestExtractOptions_AbsentOptional(t *testing.T) {
	spec := &ChatInputSpec{Options: []Option{
		{Name: "query", Type: platform.OptionString, Required: true},
		{Name: "context_messages", Type: platform.OptionInteger},
	}}
	in := &platform.Interaction{Options: []platform.OptionValue{
		{Name: "query", Value: "why?"},
	}}

	opts, err := ExtractOptions(spec, in)
	require.NoError(t, err)
	assert.False(t, opts.Has("context_messages"))

	n, ok := opts.Int("context_messages")
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestExtractOptions_MissingRequired(t *testing.T) {
	spec := &ChatInputSpec{Options: []Option{
		{Name: "query", Type: platform.OptionString, Required: true},
	}}

	_, err := ExtractOptions(spec, &platform.Interaction{})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestExtractOptions_ChannelTypeFilter(t *testing.T) {
	spec := &ChatInputSpec{Options: []Option{
		{Name: "where", Type: platform.OptionChannel, ChannelTypes: []platform.ChannelType{platform.ChannelGuildText}},
	}}
	in := &platform.Interaction{
		Options: []platform.OptionValue{{Name: "where", Value: "v1"}},
		Resolved: platform.Resolved{
			Channels: map[string]platform.Channel{"v1": {ID: "v1", Type: platform.ChannelGuildVoice}},
		},
	}

	opts, err := ExtractOptions(spec, in)
	require.NoError(t, err)
	assert.False(t, opts.Has("where"))
}

func TestExtractOptions_NonIntegralInteger(t *testing.T) {
	spec := &ChatInputSpec{Options: []Option{{Name: "n", Type: platform.OptionInteger}}}
	in := &platform.Interaction{Options: []platform.OptionValue{{Name: "n", Value: 1.5}}}

	_, err := ExtractOptions(spec, in)
	assert.Error(t, err)
}

func TestExtractOptions_UnresolvedUser(t *testing.T) {
	spec := &ChatInputSpec{Options: []Option{{Name: "who", Type: platform.OptionUser}}}
	in := &platform.Interaction{Options: []platform.OptionValue{{Name: "who", Value: "ghost"}}}

	_, err := ExtractOptions(spec, in)
	assert.Error(t, err)
}
