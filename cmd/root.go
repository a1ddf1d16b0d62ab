package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/projecteru2/macchanger/config"
)

var (
	cfgFile string
	conf    *config.Config
	v       *viper.Viper
)

func newRootCmd() *cobra.Command {
	v = viper.New()
	cfgFile = ""

	cmd := &cobra.Command{
		Use:   "macchanger [flags] IFACE",
		Short: "Assign a random MAC address to a network interface",
		Long: "Generate a random MAC address (unicast, locally administered unless\n" +
			"overridden) and assign it to IFACE. The new address is printed on success.\n\n" +
			"An interface named like a subcommand must follow \"--\":\n" +
			"  macchanger -- show",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig()
		},
		RunE: runApply,
	}

	cmd.Flags().BoolP("multicast", "m", false, "make the address multicast (default unicast)")
	cmd.Flags().BoolP("universal", "u", false, "make the address universally administered (default local)")
	cmd.Flags().Bool("dry-run", false, "print the generated address without applying it")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().String("backend", "", "hardware address backend: ioctl or netlink")
	cmd.PersistentFlags().String("netns", "", "network namespace name or path")
	cmd.PersistentFlags().String("lock-dir", "", "per-interface lock directory")
	cmd.PersistentFlags().String("log-level", "", "log level")

	_ = v.BindPFlag("address.multicast", cmd.Flags().Lookup("multicast"))
	_ = v.BindPFlag("address.universal", cmd.Flags().Lookup("universal"))
	_ = v.BindPFlag("backend", cmd.PersistentFlags().Lookup("backend"))
	_ = v.BindPFlag("netns", cmd.PersistentFlags().Lookup("netns"))
	_ = v.BindPFlag("lock_dir", cmd.PersistentFlags().Lookup("lock-dir"))
	_ = v.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	// viper defaults outrank the empty flag defaults above
	def := config.DefaultConfig()
	v.SetDefault("backend", def.Backend)
	v.SetDefault("lock_dir", def.LockDir)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix("MACCHANGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(
		newShowCmd(),
		newVersionCmd(),
	)

	return cmd
}

// initConfig layers defaults, config file, env and flags into conf.
func initConfig() error {
	conf = config.DefaultConfig()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	if err := v.Unmarshal(conf); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	return log.SetupLog(context.Background(), &conf.Log, "")
}

// ExecuteContext is the main entry point called from main.go. ctx is
// canceled by SIGINT/SIGTERM and only interrupts lock waits.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
