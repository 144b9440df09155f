package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/lightnode/internal/device"
	"github.com/spf13/cobra"
)

// CreateProfilesCmd creates the profiles command.
func CreateProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List built-in device profiles",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			w := newTable()
			fmt.Fprintln(w, "NAME\tMATCH\tFEATURES")
			for _, name := range device.Builtins() {
				p, err := device.Builtin(name)
				if err != nil {
					fail(err)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, strings.Join(p.Match, ","), features(p))
			}
			_ = w.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name|file.toml>",
		Short: "Print a resolved profile as TOML",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			p, err := device.Resolve(args[0], "", nil)
			if err != nil {
				fail(err)
			}
			enc := toml.NewEncoder(os.Stdout)
			enc.SetIndentTables(true)
			if err := enc.Encode(p); err != nil {
				fail(err)
			}
		},
	})

	return cmd
}

func features(p *device.Profile) string {
	var f []string
	if p.HasBacklight() {
		f = append(f, "backlight")
	}
	if p.HasRGB() {
		f = append(f, "rgb")
	}
	if p.HasBreath() {
		f = append(f, "breath")
	}
	if p.HasAW22XX() {
		f = append(f, "aw22xx")
	}
	if p.HasNubia() {
		f = append(f, "nubia")
	}
	if len(f) == 0 {
		return "-"
	}
	return strings.Join(f, ",")
}
