package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"countryquiz/internal/domain/entity"
	"countryquiz/internal/handler/cli"
	"countryquiz/internal/observability/logging"
	"countryquiz/internal/usecase/catalog"
	"countryquiz/internal/usecase/quiz"
)

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("list", stderr)
	sortName := fs.String("sort", entity.SortByCommonName.String(), "sort criterion: name, population, area or density")
	desc := fs.Bool("desc", false, "sort in descending order")
	limit := fs.Int("limit", 0, "print at most N countries (0 prints all)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	criterion, err := entity.ParseSortCriterion(*sortName)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if err := a.loadCatalog(ctx); err != nil {
		return err
	}
	if err := a.catalog.SetSortCriterion(criterion); err != nil {
		return err
	}
	if *desc {
		a.catalog.ToggleSortDirection()
	}

	return cli.PrintCountries(stdout, a.catalog.Sorted(), *limit)
}

func (a *app) show(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("show", stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	name := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: show needs a country name", errUsage)
	}

	if err := a.loadCatalog(ctx); err != nil {
		return err
	}

	country, ok := a.catalog.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q", catalog.ErrCountryNotFound, name)
	}
	return cli.PrintCountry(stdout, country)
}

func (a *app) playQuiz(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("quiz", stderr)
	n := fs.Int("n", a.cfg.QuizQuestions, "number of questions")
	seed := fs.Uint64("seed", 0, "random seed for a reproducible quiz (0 picks one)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *n < 1 {
		return fmt.Errorf("%w: -n must be at least 1", errUsage)
	}

	if err := a.loadCatalog(ctx); err != nil {
		return err
	}

	opts := []quiz.Option{
		quiz.WithNumberOfQuestions(*n),
		quiz.WithLogger(logging.WithComponent(a.logger, "quiz")),
	}
	if *seed != 0 {
		opts = append(opts, quiz.WithSeed(*seed))
	}

	result, err := cli.RunQuiz(ctx, quiz.New(a.catalog, opts...), stdin, stdout)
	if err != nil {
		return err
	}
	a.logger.Debug("quiz session ended",
		slog.Int("score", result.Score),
		slog.Int("questions", result.Total))
	return nil
}
