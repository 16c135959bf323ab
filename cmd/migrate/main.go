package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"termin/config"
	"termin/helper"
	"termin/shared/logger"
)

func newActionCmd(action helper.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return helper.Runner(config.Get(), action)
		},
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or roll back the postgres schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.InitLogger()
			logger.SetLogLevel(config.Get())
		},
	}

	root.AddCommand(
		newActionCmd(helper.ActionUp, "Apply all pending migrations"),
		newActionCmd(helper.ActionDown, "Roll back the last migration"),
		newActionCmd(helper.ActionStepUp, "Apply the next pending migration"),
		newActionCmd(helper.ActionDrop, "Roll back every migration"),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("Migration failed")
		os.Exit(1)
	}
}
