package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"countryquiz/internal/domain/entity"
	"countryquiz/internal/usecase/quiz"
)

// maxAttempts caps invalid answers per question; the question is then skipped.
const maxAttempts = 3

// QuizEngine is the part of *quiz.Engine the terminal session drives.
type QuizEngine interface {
	Start(ctx context.Context) error
	Guess(choice int) (bool, error)
	NextQuestion() error
	Snapshot() quiz.State
	Results() quiz.Result
}

// RunQuiz plays one quiz in the terminal, reading answer letters A-D from in.
//
// A question whose answer cannot be read after maxAttempts tries, or whose
// input ends, is skipped and its answer revealed. A Start failure is printed
// and returned; the engine is left in its degenerate InProgress state.
func RunQuiz(ctx context.Context, engine QuizEngine, in io.Reader, out io.Writer) (quiz.Result, error) {
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "Ready to guess %d flags?\n", engine.Snapshot().NumberOfQuestions)
	if err := engine.Start(ctx); err != nil {
		fmt.Fprintf(out, "Could not start the quiz: %v\n", err)
		return engine.Results(), err
	}

	for {
		if err := ctx.Err(); err != nil {
			return engine.Results(), err
		}

		s := engine.Snapshot()
		if s.Status != quiz.InProgress || s.Current == nil {
			break
		}

		printQuestion(out, s.QuestionIndex+1, s.TotalQuestions, s.Current)

		choice, ok := getAnswer(reader, out)
		fmt.Fprintln(out)
		answer := s.Current.Answer()
		if !ok {
			fmt.Fprintf(out, "Skipping. Correct answer was %s\n", answer)
		} else {
			correct, err := engine.Guess(choice)
			if err != nil {
				return engine.Results(), err
			}
			if correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Wrong. Correct answer was %s\n", answer)
			}
		}

		if err := engine.NextQuestion(); err != nil {
			return engine.Results(), err
		}
	}

	result := engine.Results()
	fmt.Fprintf(out, "\n%s\n", result.Message())
	return result, nil
}

func printQuestion(out io.Writer, number, total int, q *entity.QuizQuestion) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Question %d/%d\n", number, total)
	fmt.Fprintf(out, "Flag: %s\n", q.ImageURL)
	fmt.Fprintln(out, "That is the flag of which country?")
	fmt.Fprintln(out)
	for i, choice := range q.Choices {
		fmt.Fprintf(out, "%c. %s\n", 'A'+i, choice)
	}
	fmt.Fprint(out, "> ")
}

// getAnswer reads one option letter and returns its index. It returns
// (-1, false) after maxAttempts invalid lines or when input ends.
func getAnswer(reader *bufio.Reader, out io.Writer) (int, bool) {
	maxLetter := byte('A' + entity.ChoicesPerQuestion - 1)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return -1, false
		}

		answer := strings.ToUpper(strings.TrimSpace(line))
		if len(answer) == 1 && answer[0] >= 'A' && answer[0] <= maxLetter {
			return int(answer[0] - 'A'), true
		}

		if err != nil {
			return -1, false
		}
		if attempt < maxAttempts {
			fmt.Fprintf(out, "Invalid input. Please enter a letter A-%c.\n> ", maxLetter)
		}
	}

	return -1, false
}
