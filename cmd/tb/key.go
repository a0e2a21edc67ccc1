package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// key command
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the remembered API key",
}

var keySetCmd = &cobra.Command{
	Use:   "set MODEL",
	Short: "Remember an API key for a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "SetCredential")
		if err != nil {
			return err
		}
		defer a.Close()

		apiKey, err := readSecret("API key: ")
		if err != nil {
			return err
		}
		if err := a.SetCredential(args[0], apiKey); err != nil {
			return err
		}

		fmt.Printf("Remembered API key for %s\n", args[0])
		return persistWarning(a.PersistError())
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the remembered API key (masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Credential")
		if err != nil {
			return err
		}
		defer a.Close()

		cred, ok := a.Credential()
		if !ok {
			fmt.Println("No API key remembered.")
			return nil
		}
		fmt.Printf("%s  %s\n", cred.Model, maskKey(cred.APIKey))
		return nil
	},
}

// readSecret reads a line from stdin without echo when stdin is a terminal.
func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// maskKey shows only the last four characters of a key.
func maskKey(k string) string {
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", len(k)-4) + k[len(k)-4:]
}

// persistWarning turns a recorded save failure into a visible warning.
// The in-memory change already happened, so it is not a command failure.
func persistWarning(err error) error {
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: changes may not have been saved: %v\n", err)
	}
	return nil
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyShowCmd)
}
