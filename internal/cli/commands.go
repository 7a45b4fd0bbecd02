package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docwheel/internal/edit"
	"github.com/dgallion1/docwheel/internal/render"
	"github.com/dgallion1/docwheel/internal/wheel"
)

func newOutlineCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "outline <document>",
		Short: "Print the document's header skeleton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, done, err := app.openView(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer done()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view.Frame())
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), view.Tree().Markdown())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the computed section geometry as JSON")
	return cmd
}

func newSVGCmd(app *App) *cobra.Command {
	var out, selectTitle string
	cmd := &cobra.Command{
		Use:   "svg <document>",
		Short: "Render the wheel as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, done, err := app.openView(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer done()

			if selectTitle != "" {
				if _, ok := view.SelectTitle(selectTitle); !ok {
					return fmt.Errorf("no section titled %q", selectTitle)
				}
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			f := view.Frame()
			surface := render.NewSVGSurface(w, int(f.Width), int(f.Height))
			view.Render(surface)
			surface.Finish()
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&selectTitle, "select", "", "Highlight the section with this title")
	return cmd
}

// newEditCmd builds a one-shot command that selects a section by exact title,
// opens an edit session with begin and commits text.
func newEditCmd(app *App, use, short string, begin func(*wheel.View) (*edit.Session, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <document> <section> <title>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			view, done, err := app.openView(ctx, args[0])
			if err != nil {
				return err
			}
			defer done()

			if _, ok := view.SelectTitle(args[1]); !ok {
				return fmt.Errorf("no section titled %q", args[1])
			}
			if _, err := begin(view); err != nil {
				return err
			}
			if err := view.Commit(ctx, args[2]); err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), view.Tree().Markdown())
			return err
		},
	}
}
