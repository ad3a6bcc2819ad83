package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smorad/minix-sched/sched"
)

// validateCmd checks a policy bundle and prints the resolved configuration
var validateCmd = &cobra.Command{
	Use:   "validate <policy.yaml>",
	Short: "Validate a policy bundle and print the resulting configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveBundle(args[0], sched.DefaultConfig())
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		logrus.Debugf("policy bundle %s is valid", args[0])
		return nil
	},
}

// resolveBundle loads path and applies it on top of base.
func resolveBundle(path string, base sched.Config) (sched.Config, error) {
	bundle, err := sched.LoadPolicyBundle(path)
	if err != nil {
		return sched.Config{}, err
	}
	if err := bundle.Validate(); err != nil {
		return sched.Config{}, fmt.Errorf("invalid policy bundle: %w", err)
	}
	cfg := bundle.Apply(base)
	return cfg, cfg.Validate()
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
