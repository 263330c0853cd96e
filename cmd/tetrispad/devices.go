package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxwellito/tetrispad/internal/launchpad"
	"github.com/maxwellito/tetrispad/internal/platform/tui"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List MIDI ports",
	Long: `Shows the MIDI input and output ports of the system. Ports whose name
contains the configured device name (default "Launchpad") are marked.`,
	RunE: runDevices,
}

func runDevices(_ *cobra.Command, _ []string) error {
	defer launchpad.CloseBackend()

	ins, outs, err := launchpad.Ports()
	if err != nil {
		return err
	}
	if len(ins)+len(outs) == 0 {
		fmt.Println("No MIDI ports found.")
		return nil
	}

	var rows [][]string
	add := func(dir string, ports []string) {
		for _, p := range ports {
			mark := ""
			if strings.Contains(p, cfg.Device.Name) {
				mark = "*"
			}
			rows = append(rows, []string{mark, dir, p})
		}
	}
	add("in", ins)
	add("out", outs)

	fmt.Println(tui.RenderTable([]string{"", "Dir", "Port"}, rows))
	fmt.Println()
	fmt.Printf("* matches device name %q\n", cfg.Device.Name)
	return nil
}
