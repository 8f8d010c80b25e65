package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func newTestApp(t *testing.T) (*cli.App, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DATABASE_URL", filepath.Join(dir, "cli.db"))
	return appWithOutput()
}

func appWithOutput() (*cli.App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	app := NewApp()
	app.Writer = out
	app.ErrWriter = out
	return app, out
}

func TestArticleAddAndList(t *testing.T) {
	app, out := newTestApp(t)

	err := app.Run([]string{"selfhelpblog", "article", "add",
		"--author", "a@x.com", "--title", "T", "--category", "cat", "--content", "C"})
	if err != nil {
		t.Fatalf("article add failed: %v", err)
	}
	if !strings.Contains(out.String(), "created article 1") {
		t.Errorf("unexpected add output: %q", out.String())
	}

	app, out = appWithOutput()
	if err := app.Run([]string{"selfhelpblog", "article", "list"}); err != nil {
		t.Fatalf("article list failed: %v", err)
	}
	want := "1\tcat\tT\ta@x.com\t0\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestArticleAddRequiresContent(t *testing.T) {
	app, _ := newTestApp(t)
	err := app.Run([]string{"selfhelpblog", "article", "add",
		"--author", "a@x.com", "--title", "T", "--category", "cat"})
	if err == nil {
		t.Fatal("expected error without content")
	}
}

func TestMigrateCreatesDatabase(t *testing.T) {
	app, _ := newTestApp(t)
	if err := app.Run([]string{"selfhelpblog", "migrate"}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
}

func TestServeRequiresSecrets(t *testing.T) {
	app, _ := newTestApp(t)
	t.Setenv("SECRET_KEY", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	err := app.Run([]string{"selfhelpblog", "serve"})
	if err == nil || !strings.Contains(err.Error(), "SECRET_KEY") {
		t.Fatalf("expected missing SECRET_KEY error, got %v", err)
	}
}
