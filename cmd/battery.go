package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CreateBatteryCmd creates the battery command.
func CreateBatteryCmd() *cobra.Command {
	var flags deviceFlags

	cmd := &cobra.Command{
		Use:   "battery",
		Short: "Print the battery state used by the notification light",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			svc, _, err := flags.newService()
			if err != nil {
				fail(err)
			}
			fmt.Println(svc.BatteryState())
		},
	}

	flags.register(cmd)
	return cmd
}
