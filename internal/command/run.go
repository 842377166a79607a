package command

import (
	"bufio"
	"fmt"
	"io"
)

// RunInteractive reads commands line by line, reporting each error and
// continuing until exit or end of input.
func RunInteractive(r io.Reader, e *Executor) error {
	scanner := bufio.NewScanner(r)
	fmt.Fprint(e.out, "> ")
	for scanner.Scan() {
		quit, err := e.Execute(scanner.Text())
		if err != nil {
			fmt.Fprintf(e.out, "Error: %v\n", err)
		}
		if quit {
			fmt.Fprintln(e.out, "Goodbye")
			return nil
		}
		fmt.Fprint(e.out, "> ")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	fmt.Fprintln(e.out, "Goodbye")
	return nil
}

// RunScript executes a commands file, stopping at the first failing command.
func RunScript(r io.Reader, e *Executor) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		quit, err := e.Execute(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}
