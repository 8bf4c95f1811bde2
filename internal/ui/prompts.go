package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readStdinLine reads one line from stdin with the trailing newline
// stripped, for the two prompt helpers below.
func readStdinLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptYesNo asks question on stdout and reads a y/n answer from stdin,
// falling back to defaultYes when stdout isn't a terminal (IsTerminal), the
// answer is not y/yes/n/no, or it can't be read at all (EOF from a script
// piping input).
func PromptYesNo(question string, defaultYes bool) bool {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}

	if !IsTerminal() {
		fmt.Printf("%s [%s] (non-interactive, defaulting to %t)\n", question, hint, defaultYes)
		return defaultYes
	}

	fmt.Printf("%s [%s] ", question, hint)
	answer, err := readStdinLine()
	if err != nil {
		fmt.Printf("(could not read answer, defaulting to %t)\n", defaultYes)
		return defaultYes
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}

// Prompt asks question on stdout and returns whatever line stdin gives
// back, or defaultValue when stdout isn't a terminal (IsTerminal), the line
// is empty, or it can't be read at all.
func Prompt(question, defaultValue string) string {
	if !IsTerminal() {
		fmt.Printf("%s (non-interactive, defaulting to %q)\n", question, defaultValue)
		return defaultValue
	}

	fmt.Printf("%s (default: %q): ", question, defaultValue)
	answer, err := readStdinLine()
	if err != nil {
		fmt.Printf("(could not read answer, defaulting to %q)\n", defaultValue)
		return defaultValue
	}
	if answer == "" {
		return defaultValue
	}
	return answer
}
