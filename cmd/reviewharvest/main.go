package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ProjectCodeKw/reviewharvest/internal/app"
	"github.com/ProjectCodeKw/reviewharvest/internal/config"
	"github.com/ProjectCodeKw/reviewharvest/internal/logging"
)

const usage = `usage: reviewharvest <command> [flags]

commands:
  harvest                         collect reviews per the configured quotas
  translate -in F -out F          run the text-transformation service over a table
  combine   -out F Label=path...  merge labeled source tables
  clean     -in F -out F          apply curation rules
  balance   -in F -out F -source S -target N [-seed N]
  normalize -in F -out F          fill numeric scores for vote-only reviews
  stats     -in F                 print dataset balance numbers
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	application := app.New(cfg, logger)

	var err error
	switch command := os.Args[1]; command {
	case "harvest":
		err = application.RunHarvest(ctx)

	case "translate":
		fs := flag.NewFlagSet("translate", flag.ExitOnError)
		in := fs.String("in", "", "input table path")
		out := fs.String("out", "", "output table path")
		_ = fs.Parse(os.Args[2:])
		err = application.RunTranslate(ctx, *in, *out)

	case "combine":
		fs := flag.NewFlagSet("combine", flag.ExitOnError)
		out := fs.String("out", "", "output table path")
		_ = fs.Parse(os.Args[2:])
		err = application.RunCombine(fs.Args(), *out)

	case "clean":
		fs := flag.NewFlagSet("clean", flag.ExitOnError)
		in := fs.String("in", "", "input table path")
		out := fs.String("out", "", "output table path")
		_ = fs.Parse(os.Args[2:])
		err = application.RunClean(*in, *out)

	case "balance":
		fs := flag.NewFlagSet("balance", flag.ExitOnError)
		in := fs.String("in", "", "input table path")
		out := fs.String("out", "", "output table path")
		src := fs.String("source", "Steam", "source label to downsample")
		target := fs.Int("target", 0, "target row count for the source")
		seed := fs.Int64("seed", 42, "sampling seed")
		_ = fs.Parse(os.Args[2:])
		err = application.RunBalance(*in, *out, *src, *target, *seed)

	case "normalize":
		fs := flag.NewFlagSet("normalize", flag.ExitOnError)
		in := fs.String("in", "", "input table path")
		out := fs.String("out", "", "output table path")
		_ = fs.Parse(os.Args[2:])
		err = application.RunNormalize(*in, *out)

	case "stats":
		fs := flag.NewFlagSet("stats", flag.ExitOnError)
		in := fs.String("in", "", "input table path")
		_ = fs.Parse(os.Args[2:])
		err = application.RunStats(*in)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
