package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"selfhelpblog/internal/app"
	"selfhelpblog/internal/config"
	"selfhelpblog/internal/db"
	"selfhelpblog/internal/models"
	"selfhelpblog/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// NewApp returns the command-line application; serve is the default action.
func NewApp() *cli.App {
	return &cli.App{
		Name:  "selfhelpblog",
		Usage: "A small blog with Google login, comments and likes",
		Commands: []*cli.Command{
			ServeCommand,
			MigrateCommand,
			ArticleCommand,
		},
		Action: ServeCommand.Action,
	}
}

// NewLogger installs the process-wide slog logger: JSON in release mode, text otherwise.
func NewLogger(ginMode string) *slog.Logger {
	var handler slog.Handler
	if ginMode == gin.ReleaseMode {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

var ServeCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the web server",
	Action: func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := NewLogger(cfg.GinMode)
		gin.SetMode(cfg.GinMode)

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		engine, err := router.New(a, logger)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server starting", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		slog.Info("shutdown complete")
		return nil
	},
}

var MigrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create or update the database schema",
	Action: func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close(conn)
		return db.Migrate(conn)
	},
}

var ArticleCommand = &cli.Command{
	Name:  "article",
	Usage: "Manage articles (there is no web form for them)",
	Subcommands: []*cli.Command{
		articleAddCommand,
		articleListCommand,
	},
}

var articleAddCommand = &cli.Command{
	Name:  "add",
	Usage: "Publish an article, creating the author if needed",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "author", Usage: "author email", Required: true},
		&cli.StringFlag{Name: "title", Required: true},
		&cli.StringFlag{Name: "category", Required: true},
		&cli.StringFlag{Name: "content", Usage: "Markdown body"},
		&cli.PathFlag{Name: "file", Usage: "read the Markdown body from a file"},
	},
	Action: func(c *cli.Context) error {
		content := c.String("content")
		if path := c.Path("file"); path != "" {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			content = string(b)
		}
		if content == "" {
			return errors.New("one of --content or --file is required")
		}

		return withStore(func(store *db.Store) error {
			ctx := c.Context
			user, _, err := store.FindOrCreateUser(ctx, c.String("author"))
			if err != nil {
				return err
			}
			article := &models.Article{
				Title:    c.String("title"),
				Content:  content,
				Category: c.String("category"),
				UserID:   user.ID,
			}
			if err := store.CreateArticle(ctx, article); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "created article %d\n", article.ID)
			return nil
		})
	},
}

var articleListCommand = &cli.Command{
	Name:  "list",
	Usage: "List every article",
	Action: func(c *cli.Context) error {
		return withStore(func(store *db.Store) error {
			articles, err := store.ListArticles(c.Context)
			if err != nil {
				return err
			}
			for _, a := range articles {
				fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\t%s\t%d\n", a.ID, a.Category, a.Title, a.User.Email, a.CommentCount)
			}
			return nil
		})
	},
}

func withStore(fn func(*db.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close(conn)
	if err := db.Migrate(conn); err != nil {
		return err
	}
	return fn(db.NewStore(conn))
}
