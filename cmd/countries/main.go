// Command countries lists independent countries from the REST Countries API
// and runs a flag quiz in the terminal.
//
// Usage:
//
//	countries list [-sort name|population|area|density] [-desc] [-limit N]
//	countries show <common name>
//	countries quiz [-n 5] [-seed S]
//	countries serve
//
// Configuration is read from the environment (see internal/config).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `Usage: countries <command> [flags]

Commands:
  list    print the country catalog
  show    print one country by common name
  quiz    play the flag quiz
  serve   keep the catalog warm and expose /healthz, /readyz and /metrics
`

// errUsage marks command line mistakes; main exits with status 2 for them.
var errUsage = errors.New("usage error")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: missing command", errUsage)
	}

	command, args := args[0], args[1:]
	switch command {
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	case "list", "show", "quiz", "serve":
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	a, err := newApp(stderr)
	if err != nil {
		return err
	}

	switch command {
	case "list":
		return a.list(ctx, args, stdout, stderr)
	case "show":
		return a.show(ctx, args, stdout, stderr)
	case "quiz":
		return a.playQuiz(ctx, args, stdin, stdout, stderr)
	default:
		return a.serve(ctx, args, stderr)
	}
}
