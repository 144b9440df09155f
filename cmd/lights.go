package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smazurov/lightnode/internal/lights"
	"github.com/spf13/cobra"
)

// CreateLightsCmd creates the lights command.
func CreateLightsCmd() *cobra.Command {
	var flags deviceFlags

	cmd := &cobra.Command{
		Use:   "lights",
		Short: "List the lights this device supports",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			svc, profile, err := flags.newService()
			if err != nil {
				fail(err)
			}

			fmt.Printf("Profile: %s\nDriver:  %s\n\n", profile.Name, svc.Driver().Name())

			w := newTable()
			fmt.Fprintln(w, "ID\tTYPE\tORDINAL")
			for _, l := range svc.GetLights() {
				fmt.Fprintf(w, "%d\t%s\t%d\n", l.ID, l.Type, l.Ordinal)
			}
			_ = w.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}

// CreateSetCmd creates the set command.
func CreateSetCmd() *cobra.Command {
	var flags deviceFlags
	var color string
	var flash string
	var onMs, offMs int

	cmd := &cobra.Command{
		Use:   "set <light>",
		Short: "Apply a color and flash pattern to one light",
		Long: `Applies a single light request directly to sysfs, the same way the server does. ` +
			`The light is a type name (backlight, notifications, attention, ...) or its numeric id.`,
		Example: `  lightnode set notifications --color 0xff00ff00 --flash timed --on 500 --off 1500
  lightnode set backlight --color 0xff808080`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			id, err := lights.ParseLightType(args[0])
			if err != nil {
				fail(err)
			}
			state, err := parseState(color, flash, onMs, offMs)
			if err != nil {
				fail(err)
			}

			svc, _, err := flags.newService()
			if err != nil {
				fail(err)
			}
			if err := svc.SetLightState(int(id), state); err != nil {
				fail(err)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&color, "color", "0xffffffff", "Packed ARGB color (hex with 0x prefix, or decimal)")
	cmd.Flags().StringVar(&flash, "flash", "none", "Flash mode: none, timed, hardware")
	cmd.Flags().IntVar(&onMs, "on", 0, "Flash on duration in milliseconds")
	cmd.Flags().IntVar(&offMs, "off", 0, "Flash off duration in milliseconds")

	return cmd
}

func parseState(color, flash string, onMs, offMs int) (lights.HwLightState, error) {
	var state lights.HwLightState

	c, err := strconv.ParseUint(strings.TrimSpace(color), 0, 32)
	if err != nil {
		return state, fmt.Errorf("invalid color %q: %w", color, err)
	}
	mode, err := lights.ParseFlashMode(flash)
	if err != nil {
		return state, err
	}

	state.Color = uint32(c)
	state.FlashMode = mode
	state.FlashOnMs = onMs
	state.FlashOffMs = offMs
	return state, state.Validate()
}
