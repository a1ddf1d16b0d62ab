package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projecteru2/macchanger/netdev"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show IFACE",
		Short: "Show the current MAC address of an interface",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if err := netdev.ValidateName(args[0]); err != nil {
		return err
	}
	backend, err := newBackend(conf)
	if err != nil {
		return err
	}
	rec, err := netdev.Read(ctx, backend, args[0])
	if err != nil {
		return err
	}
	addr := rec.Address()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", rec.Name, addr, addr.Describe())
	return nil
}
