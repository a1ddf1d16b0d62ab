package cmd

import (
	"fmt"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"

	"github.com/projecteru2/macchanger/lock"
	"github.com/projecteru2/macchanger/mac"
	"github.com/projecteru2/macchanger/netdev"
)

func runApply(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := log.WithFunc("cmd.apply")
	name := args[0]
	if err := netdev.ValidateName(name); err != nil {
		return err
	}

	addr := mac.New(conf.Address)
	logger.Debugf(ctx, "generated %s (%s) for %s", addr, addr.Describe(), name)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), addr)
		return nil
	}

	backend, err := newBackend(conf)
	if err != nil {
		return err
	}

	var res *netdev.Result
	if err := lock.WithLock(ctx, interfaceLocker(name), func() (err error) {
		res, err = netdev.Apply(ctx, backend, name, addr)
		return err
	}); err != nil {
		return fmt.Errorf("change MAC address of %s: %w", name, err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Current)
	return nil
}
