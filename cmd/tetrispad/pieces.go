package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxwellito/tetrispad/internal/platform/tui"
	"github.com/maxwellito/tetrispad/internal/registry"
)

var flagShow bool

var piecesCmd = &cobra.Command{
	Use:   "pieces [catalogue]",
	Short: "List piece catalogues",
	Long: `Shows the registered piece catalogues. Pieces defined in the config
file appear as the "custom" catalogue. With a catalogue ID, draws its
pieces.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPieces,
}

func init() {
	piecesCmd.Flags().BoolVar(&flagShow, "show", false, "Draw the pieces of every catalogue")
}

func runPieces(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		return showCatalogue(args[0])
	}

	catalogues := registry.List()
	rows := make([][]string, 0, len(catalogues))
	for _, c := range catalogues {
		mark := ""
		if c.ID == cfg.Game.Catalogue {
			mark = "*"
		}
		rows = append(rows, []string{mark, c.ID, c.Title, strings.Join(c.Pieces, " ")})
	}
	fmt.Println(tui.RenderTable([]string{"", "ID", "Title", "Pieces"}, rows))
	fmt.Println()
	fmt.Println("* configured catalogue. Run 'tetrispad play <id>' to play another.")

	if flagShow {
		for _, c := range catalogues {
			fmt.Println()
			if err := showCatalogue(c.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func showCatalogue(id string) error {
	cat, err := registry.Create(id)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n", id)
	for _, t := range cat {
		fmt.Printf("\n%s (%s)\n%s\n", t.Name, t.Color, tui.RenderPiece(t))
	}
	return nil
}
