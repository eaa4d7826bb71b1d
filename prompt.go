package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"medal-backup/style"
)

var (
	errInvalidChoice = errors.New("invalid choice")
	errInputAborted  = errors.New("input aborted")
)

// ask prints question and returns the trimmed answer line.
// A closed input stream is reported as errInputAborted.
func (app *App) ask(question string) (string, error) {
	style.Prompt(question)
	line, err := app.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		style.PlainLn("")
		if errors.Is(err, io.EOF) {
			return "", errInputAborted
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// choose asks for a 1-based option number in [1, n].
func (app *App) choose(question string, n int) (int, error) {
	answer, err := app.ask(question)
	if err != nil {
		return 0, err
	}
	return parseChoice(answer, n)
}

func parseChoice(answer string, n int) (int, error) {
	i, err := strconv.Atoi(answer)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("%w: %q", errInvalidChoice, answer)
	}
	return i, nil
}
