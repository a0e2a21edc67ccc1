package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tb-go/internal/outline"
	"tb-go/internal/tb"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate ID",
	Short: "Generate course content for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, "Generate")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.GetProject(args[0])
		if err != nil {
			return err
		}
		n := outline.ChapterCount(p.Outline)
		if p.Status == tb.ProjectGenerating {
			n = len(p.Chapters)
		}
		fmt.Printf("Generating %s with %s: %d chapters, est. $%.2f (Ctrl-C to stop)\n",
			p.Name, p.Model, n, tb.EstimateCost(n))

		done, err := a.Generate(ctx, p.ID, func(g tb.GenerationProgress) {
			if g.Message != "" {
				fmt.Printf("\r\033[K%s\n", g.Message)
			}
			fmt.Printf("\r\033[K%5.1f%%  chapter %d/%d  %s",
				g.Progress, g.CurrentChapter, g.TotalChapters, g.CurrentComponent)
		})
		fmt.Println()
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				fmt.Println("Generation interrupted; run `tb generate` again to resume.")
				return persistWarning(a.PersistError())
			}
			return err
		}

		fmt.Printf("Completed %s: %d chapters\n", done.Name, len(done.Chapters))
		return persistWarning(a.PersistError())
	},
}
