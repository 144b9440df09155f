package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/smazurov/lightnode/internal/device"
	"github.com/smazurov/lightnode/internal/lights"
	"github.com/smazurov/lightnode/internal/logging"
	"github.com/spf13/cobra"
)

// deviceFlags are shared by every command that touches hardware.
type deviceFlags struct {
	profile  string
	root     string
	logLevel string
}

func (f *deviceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.profile, "profile", "auto", "Device profile: auto, a built-in name, or a path to a .toml file")
	cmd.Flags().StringVar(&f.root, "root", "", "Prefix for every sysfs path (for testing against a fake tree)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

// newService resolves the profile and builds a light service without an
// event bus; one-shot commands have no subscribers.
func (f *deviceFlags) newService() (*lights.Service, *device.Profile, error) {
	logging.Initialize(logging.Config{Level: f.logLevel, Format: "text"})

	profile, err := device.Resolve(f.profile, f.root, logging.GetLogger("config"))
	if err != nil {
		return nil, nil, err
	}

	svc := lights.New(lights.ServiceOptions{
		Profile: profile,
		Logger:  logging.GetLogger("lights"),
	})
	return svc, profile, nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
