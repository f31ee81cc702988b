package printer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/capscope/internal/facade"
)

func TestPrinter_Line(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf bytes.Buffer
	root, provider := facade.New(facade.WithDisplayName("Printer"))

	// --- Act ---
	err := provider.With(context.Background(), New(&buf), func(ctx context.Context) error {
		_, err := root.Get("line").Call(ctx, "hello")
		return err
	})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "hello\n", buf.String())
}

func TestPrinter_BannerDelegatesToLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	root, provider := facade.New(facade.WithDisplayName("Printer"))

	err := provider.With(context.Background(), New(&buf), func(ctx context.Context) error {
		_, err := root.Get("banner").Call(ctx, "hi")
		return err
	})

	require.NoError(t, err)
	require.Equal(t, "======\n| hi |\n======\n", buf.String())
}

func TestPrinter_LoudOverrideChangesBanner(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf bytes.Buffer
	root, provider := facade.New(facade.WithDisplayName("Printer"))

	// --- Act ---
	err := provider.With(context.Background(), New(&buf), func(ctx context.Context) error {
		return provider.WithOverride(ctx, NewLoud(&buf), "loud", func(ctx context.Context) error {
			_, err := root.Get("banner").Call(ctx, "hi")
			return err
		})
	})

	// --- Assert ---
	// banner reaches 'line' through its Self parameter, so the override
	// layer's loud line shapes the whole banner.
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, []string{"======!", "| HI |!", "======!"}, lines)
}

func TestPrinter_RegisteredShapesAreValid(t *testing.T) {
	t.Parallel()

	require.NoError(t, facade.ValidateImpl("printer", New(&bytes.Buffer{})))
	require.NoError(t, facade.ValidateImpl("printer_loud", NewLoud(&bytes.Buffer{})))
}
