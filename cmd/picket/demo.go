package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/picket"
	"github.com/aretw0/picket/internal/presentation/tui"
	"github.com/aretw0/picket/pkg/dsl"
	"github.com/spf13/cobra"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an interactive demo session",
	Long:  `Starts a local feedback survey driven by the full encode/reconcile loop: clicks commit immediately, the form flushes on submit.`,
	Run: func(cmd *cobra.Command, args []string) {
		headless, _ := cmd.Flags().GetBool("headless")

		if !headless {
			tui.PrintBanner(picket.Version)
		}

		app := picket.New("demo")

		page := dsl.NewPage().
			Widget("rating").
			Option(":star_outline:", ":star:").
			Option(":star_outline:", ":star:").
			Option(":star_outline:", ":star:").
			Option(":star_outline:", ":star:").
			Option(":star_outline:", ":star:").
			SingleSelect().
			UpToSelected().
			Widget("sentiment").
			Options(":thumb_up:", ":thumb_down:").
			SingleSelect().
			Widget("topics").
			Option("docs", ":check: docs").
			Option("api", ":check: api").
			Option("performance", ":check: performance").
			MultiSelect().
			InForm("survey").
			Build()

		runner := picket.NewRunner()
		runner.Input = os.Stdin
		runner.Output = os.Stdout
		runner.Headless = headless
		runner.Renderer = tui.NewLabelRenderer(tui.DefaultGlyphs())

		ctx := context.Background()
		if err := runner.Run(ctx, app, "demo", page); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		values, err := app.Values(ctx, "demo")
		if err == nil && len(values) > 0 {
			fmt.Println("\nCommitted values:")
			for id, value := range values {
				fmt.Printf("  %s: %v\n", id, value)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().Bool("headless", false, "Run without the banner (plain IO)")
}
