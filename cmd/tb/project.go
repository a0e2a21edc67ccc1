package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"tb-go/internal/outline"
	"tb-go/internal/tb"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available AI models",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tCOST\tSPEED\tQUALITY")
		for _, m := range tb.Models() {
			def := ""
			if m.ID == tb.DefaultModel {
				def = " (default)"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t%s\t%s\n", m.ID, def, m.Name, m.Provider, m.Cost, m.Speed, m.Quality)
		}
		w.Flush()
		fmt.Printf("\nEstimated cost: $%.2f per chapter\n", tb.CostPerChapter)
	},
}

// project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, _ := cmd.Flags().GetString("model")
		remember, _ := cmd.Flags().GetBool("remember-key")
		askKey, _ := cmd.Flags().GetBool("key")

		a, err := newApp(cmd.Context(), "CreateProject")
		if err != nil {
			return err
		}
		defer a.Close()

		var apiKey string
		if _, ok := a.Credential(); askKey || !ok {
			if apiKey, err = readSecret("API key: "); err != nil {
				return err
			}
		}

		p, err := a.CreateProject(args[0], model, apiKey, remember)
		if err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		fmt.Printf("Created project %s (%s)\n", p.ID, p.Name)
		return persistWarning(a.PersistError())
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ListProjects")
		if err != nil {
			return err
		}
		defer a.Close()

		projects := a.ListProjects()
		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCHAPTERS\tUPDATED")
		for _, p := range projects {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				p.ID, p.Name, p.Status, len(p.Chapters), p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show project details",
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
		printProject(p)
		return nil
	},
}

var projectOpenCmd = &cobra.Command{
	Use:   "open ID",
	Short: "Open a project and show its workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "OpenProject")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.OpenProject(args[0])
		if err != nil {
			return err
		}
		printProject(p)

		fmt.Println()
		switch {
		case p.Outline == "":
			fmt.Println("No outline yet. Try `tb outline example` for a starting point.")
		default:
			fmt.Println(p.Outline)
			if err := a.ValidateOutline(p.Outline); err != nil {
				fmt.Printf("Outline is invalid: %v\n", err)
			}
		}
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "DeleteProject")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteProject(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted project %s\n", args[0])
		return persistWarning(a.PersistError())
	},
}

func printProject(p tb.Project) {
	fmt.Printf("ID:       %s\n", p.ID)
	fmt.Printf("Name:     %s\n", p.Name)
	fmt.Printf("Status:   %s\n", p.Status)
	fmt.Printf("Model:    %s\n", p.Model)
	fmt.Printf("API Key:  %s\n", maskKey(p.APIKey))
	fmt.Printf("Created:  %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated:  %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(p.Chapters) > 0 {
		fmt.Printf("Chapters: %d\n", len(p.Chapters))
		for _, ch := range p.Chapters {
			fmt.Printf("  %3d  %-10s  %s\n", ch.Number, ch.Status, ch.Title)
		}
	} else if p.Outline != "" {
		fmt.Printf("Chapters: %d in outline (est. $%.2f)\n",
			outline.ChapterCount(p.Outline), tb.EstimateCost(outline.ChapterCount(p.Outline)))
	}
}

func init() {
	projectCmd.AddCommand(projectCreateCmd)
	projectCreateCmd.Flags().StringP("model", "m", "", "AI model (see `tb models`)")
	projectCreateCmd.Flags().Bool("remember-key", false, "Remember the API key for future projects")
	projectCreateCmd.Flags().Bool("key", false, "Prompt for an API key even if one is remembered")
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectOpenCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}
