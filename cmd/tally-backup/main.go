// Command tally-backup exports and imports ledger backups against the
// configured storage backend while the server is offline.
//
//	tally-backup export -out backup.json
//	tally-backup import -in backup.json
//	tally-backup clear -confirm
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"tally/internal/cli"
	"tally/internal/impexp"
	"tally/internal/ledger"
	applog "tally/internal/log"
	"tally/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(applog.ComponentBackup)
	cfg := cli.LoadAndValidateConfig(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	kv, cleanup := cli.OpenBackend(cfg, logger)
	defer func() {
		if err := cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
		}
	}()

	ctx := context.Background()
	store, err := ledger.New(ctx, storage.NewLedger(kv, logger), logger)
	if err != nil {
		logger.Error("Failed to load ledger", applog.FieldError, err.Error())
		os.Exit(1)
	}

	switch command {
	case "export":
		err = runExport(ctx, store, args)
	case "import":
		err = runImport(ctx, store, logger, args)
	case "clear":
		err = runClear(ctx, store, logger, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "command", command, applog.FieldError, err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tally-backup <export|import|clear> [flags]")
}

func runExport(ctx context.Context, store *ledger.Store, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "destination file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}
	return impexp.Export(store.Snapshot()).EncodeJSON(w)
}

func runImport(ctx context.Context, store *ledger.Store, logger *applog.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	in := fs.String("in", "", "backup file (default stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("open %s: %w", *in, err)
		}
		defer f.Close()
		r = f
	}
	if err := impexp.ImportJSON(ctx, store, r); err != nil {
		return err
	}
	logger.Info("Backup imported",
		applog.FieldCount, len(store.Expenses()),
		applog.FieldAmountCents, store.TotalIncome().Cents)
	return nil
}

func runClear(ctx context.Context, store *ledger.Store, logger *applog.Logger, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "actually clear all ledger data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*confirm {
		return fmt.Errorf("refusing to clear without -confirm")
	}
	if err := store.ClearAll(ctx); err != nil {
		return err
	}
	logger.Info("Ledger cleared")
	return nil
}
