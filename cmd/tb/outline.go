package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"tb-go/internal/outline"
	"tb-go/internal/tb"

	"github.com/spf13/cobra"
)

// outline command
var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Edit project outlines",
}

var outlineExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example outline",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(outline.Example)
	},
}

var outlineSetCmd = &cobra.Command{
	Use:   "set ID [FILE]",
	Short: "Replace a project's outline from a file or stdin",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[1:])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), "SaveOutline")
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.SaveOutline(args[0], text); err != nil {
			return err
		}
		fmt.Printf("Saved outline (%d chapters)\n", outline.ChapterCount(text))
		if err := a.ValidateOutline(text); err != nil {
			fmt.Printf("Outline is not ready for generation: %v\n", err)
		}
		return persistWarning(a.PersistError())
	},
}

var outlineShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a project's outline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "GetProject")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.GetProject(args[0])
		if err != nil {
			return err
		}
		fmt.Print(p.Outline)
		return nil
	},
}

var outlineValidateCmd = &cobra.Command{
	Use:   "validate [FILE]",
	Short: "Check an outline file (or stdin)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		if err := outline.Validate(text); err != nil {
			return err
		}

		entries := outline.Extract(text)
		fmt.Printf("Outline is valid: %d chapters (est. $%.2f)\n", len(entries), tb.EstimateCost(len(entries)))
		for _, e := range entries {
			fmt.Printf("  %3d  %s\n", e.Number, e.Title)
		}

		doc, err := outline.Parse(text)
		if err != nil {
			fmt.Printf("warning: %v\n", err)
			return nil
		}
		if doc.Course.Title != "" {
			fmt.Printf("Course: %s\n", doc.Course.Title)
		}
		for _, w := range outline.Lint(doc) {
			fmt.Printf("warning: %s\n", w)
		}
		return nil
	},
}

var outlineWatchCmd = &cobra.Command{
	Use:   "watch ID FILE",
	Short: "Auto-save a project's outline whenever FILE changes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, "WatchOutline")
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", args[1])
		return a.WatchOutline(ctx, args[0], args[1], func(p tb.Project, err error) {
			if err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
				return
			}
			fmt.Printf("Saved at %s (%d chapters)\n", p.UpdatedAt.Format("15:04:05"), outline.ChapterCount(p.Outline))
			persistWarning(a.PersistError())
		})
	},
}

// readInput reads the named file, or stdin when no file is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(b), nil
}

func init() {
	outlineCmd.AddCommand(outlineExampleCmd)
	outlineCmd.AddCommand(outlineSetCmd)
	outlineCmd.AddCommand(outlineShowCmd)
	outlineCmd.AddCommand(outlineValidateCmd)
	outlineCmd.AddCommand(outlineWatchCmd)
}
