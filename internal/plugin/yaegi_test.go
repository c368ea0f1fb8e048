// ABOUTME: Tests for interpreting plugin source with yaegi.
// ABOUTME: Loads a small plugin importing the SDK and installs what it exports.

package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokesh58/lichobi/internal/command"
)

const helloPlugin = `package hello

import (
	"context"

	"lichobi/sdk"
)

var Greeting = "hello"

func NewHello(h *sdk.Host) (*sdk.Descriptor, error) {
	return &sdk.Descriptor{
		Name:        "hello",
		Description: "says hello",
		Legacy: &sdk.LegacySpec{
			Description: "says hello",
			Handler: func(ctx context.Context, evt *sdk.MessageEvent, args string) error {
				return nil
			},
		},
	}, nil
}

func helper() string { return Greeting }
`

func TestYaegiImporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.go")
	require.NoError(t, os.WriteFile(path, []byte(helloPlugin), 0o644))

	exports, err := NewYaegiImporter().Import(context.Background(), path)
	require.NoError(t, err)

	names := make([]string, 0, len(exports))
	for _, e := range exports {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"Greeting", "NewHello"}, names)

	in := newInstaller()
	report, err := NewLoader(NewYaegiImporter(), in, nil).LoadFromFolder(context.Background(), filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Commands)

	desc, ok := in.Commands.Get("hello", command.LegacyText)
	require.True(t, ok)
	assert.Equal(t, "says hello", desc.Description)
}

func TestYaegiImporterSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.go")
	require.NoError(t, os.WriteFile(path, []byte("package broken\nfunc {"), 0o644))

	_, err := NewYaegiImporter().Import(context.Background(), path)
	assert.Error(t, err)
}
