package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/deck"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/session"
)

type fakeLibrary struct {
	cards []domain.Card
	err   error
}

func (f fakeLibrary) GetAllCards(context.Context) ([]domain.Card, error) {
	return f.cards, f.err
}

type fakeRecorder struct {
	runs []domain.Run
}

func (f *fakeRecorder) RecordRun(_ context.Context, run domain.Run) error {
	f.runs = append(f.runs, run)
	return nil
}

func TestStudyLoop(t *testing.T) {
	rec := &fakeRecorder{}
	var out bytes.Buffer
	// flip, wrong, flip, right, flip, unknown key, right, restart, quit
	in := strings.NewReader("\nn\n\ny\n\nmaybe\ny\nr\nq\n")

	err := study(context.Background(), in, &out, session.New("squares", deck.NewSquaresDeck([]int{2, 3})), rec)

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "[2 left] 2^2 = ?")
	assert.Contains(t, text, "=> 2^2 = 4")
	assert.Contains(t, text, "[1 left] 2^2 = ?")
	assert.Contains(t, text, "Questions: 2, Attempts: 3")
	require.Len(t, rec.runs, 1)
	assert.Equal(t, 3, rec.runs[0].Attempts)
	// After the restart the first prompt is shown again
	assert.Equal(t, 2, strings.Count(text, "[2 left] 2^2 = ?"))
}

func TestStudyEndOfInput(t *testing.T) {
	var out bytes.Buffer
	err := study(context.Background(), strings.NewReader(""), &out, session.New("squares", deck.SquaresUpTo(1)), &fakeRecorder{})
	assert.NoError(t, err)
}

func TestStudyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := study(ctx, strings.NewReader("\n"), io.Discard, session.New("squares", deck.SquaresUpTo(1)), &fakeRecorder{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStudyCancelledWhileWaitingForInput(t *testing.T) {
	in, w := io.Pipe()
	t.Cleanup(func() { w.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	errc := make(chan error, 1)
	go func() {
		errc <- study(ctx, in, io.Discard, session.New("squares", deck.SquaresUpTo(1)), &fakeRecorder{})
	}()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("study kept waiting for input after cancellation")
	}
}

func TestLoadDeck(t *testing.T) {
	ctx := context.Background()
	deckPath := filepath.Join(t.TempDir(), "capitals.deck")
	require.NoError(t, os.WriteFile(deckPath, []byte("France?|Paris|europe\nPeru?|Lima|americas\n"), 0o644))
	library := fakeLibrary{cards: []domain.Card{{Prompt: "stored", Answer: "yes", Tags: []string{"x"}}}}

	t.Run("deck file with tag", func(t *testing.T) {
		name, d, err := loadDeck(ctx, &config.Config{Deck: deckPath, Tag: "americas"}, library)
		require.NoError(t, err)
		assert.Equal(t, "capitals.deck#americas", name)
		assert.Equal(t, 1, d.Size())
		text, _ := d.Text()
		assert.Equal(t, "Peru?", text)
	})

	t.Run("squares", func(t *testing.T) {
		name, d, err := loadDeck(ctx, &config.Config{Squares: []int{4}}, library)
		require.NoError(t, err)
		assert.Equal(t, "squares", name)
		text, _ := d.Text()
		assert.Equal(t, "4^2 = ?", text)
	})

	t.Run("library", func(t *testing.T) {
		name, d, err := loadDeck(ctx, &config.Config{}, library)
		require.NoError(t, err)
		assert.Equal(t, "library", name)
		assert.Equal(t, 1, d.Size())
	})

	t.Run("library filtered to nothing", func(t *testing.T) {
		_, d, err := loadDeck(ctx, &config.Config{Tag: "none"}, library)
		require.NoError(t, err)
		assert.Equal(t, deck.Exhausted, d.State())
	})

	t.Run("library error", func(t *testing.T) {
		_, _, err := loadDeck(ctx, &config.Config{}, fakeLibrary{err: errors.New("boom")})
		assert.Error(t, err)
	})
}

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	require.NoError(t, RootCmd.ExecuteContext(context.Background()), "flashdeck %v", args)
	return out.String()
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cards")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "geo.md"),
		[]byte("Q: Capital of France?\nA: Paris\nT: geo\n\nQ: 2+2?\nA: 4\nT: math\n"), 0o644))

	dbPath := filepath.Join(dir, "flashdeck.db")
	common := []string{"--db", dbPath, "--repos", filepath.Join(dir, "repos")}

	out := execute(t, "", append([]string{"source", "add", src}, common...)...)
	assert.Contains(t, out, "added local source 1")

	out = execute(t, "", append([]string{"sync", "--quiet"}, common...)...)
	assert.Contains(t, out, "1 sources: 2 cards parsed, 2 new, 0 removed, 0 errors")

	out = execute(t, "", append([]string{"source", "list"}, common...)...)
	assert.Contains(t, out, src)

	out = execute(t, "\ny\n\nn\n\nn\n\ny\nq\n", append([]string{"study"}, common...)...)
	assert.Contains(t, out, "Capital of France?")
	assert.Contains(t, out, "Questions: 2, Attempts: 4")

	out = execute(t, "", append([]string{"runs"}, common...)...)
	assert.Contains(t, out, "library")

	out = execute(t, "", append([]string{"export", "--tag", "geo"}, common...)...)
	assert.Equal(t, "Capital of France?|Paris|geo\n", out)

	out = execute(t, "", append([]string{"source", "rm", "1"}, common...)...)
	assert.Contains(t, out, "removed source 1")
}
