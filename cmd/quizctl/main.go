package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/mind-engage/docquiz/internal/config"
	"github.com/mind-engage/docquiz/internal/db"
	"github.com/mind-engage/docquiz/internal/identity"
	"github.com/mind-engage/docquiz/internal/term"
	"github.com/mind-engage/docquiz/internal/upload"
	"github.com/mind-engage/docquiz/pkg/quizapi"
)

const usage = `usage: quizctl <command> [flags]

commands:
  upload <file> [-n N]   upload a PDF or Excel file and take a quiz on it
  quiz -session ID       take (or continue) a quiz
  results -session ID    show the results of a quiz
  history                list past quizzes
  whoami                 print the local user id
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.StateDriver), cfg.StateDSN)
	cancel()
	if err != nil {
		log.Fatalf("local state open failed: %v", err)
	}
	defer dbh.Close()

	app := &term.App{
		Svc:   quizapi.New(quizapi.Config{BaseURL: cfg.ServiceURL, Timeout: cfg.RequestTimeout}),
		IDs:   identity.NewSQLStore(dbh),
		In:    os.Stdin,
		Out:   os.Stdout,
		Err:   os.Stderr,
		Color: os.Getenv("NO_COLOR") == "",
		Loc:   time.Local,
		Log:   log.New(os.Stderr, "quizctl: ", log.LstdFlags),
	}

	if err := run(ctx, app, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, app *term.App, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	switch cmd {
	case "upload":
		n := fs.Int("n", upload.DefaultQuestionCount, "number of questions (5, 10, 15 or 20)")
		// the file comes first; flags may follow it
		if len(args) == 0 {
			return errors.New("upload: missing file")
		}
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return app.Upload(ctx, args[0], *n)
	case "quiz", "results":
		id := fs.String("session", "", "quiz session id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if cmd == "quiz" {
			return app.Quiz(ctx, *id)
		}
		return app.Results(ctx, *id)
	case "history":
		return app.History(ctx)
	case "whoami":
		return app.WhoAmI(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
