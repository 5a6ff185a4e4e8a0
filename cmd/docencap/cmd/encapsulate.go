package cmd

import (
	"fmt"

	"github.com/mrsinham/docencap/cmd/docencap/wizard"
	"github.com/mrsinham/docencap/internal/config"
	"github.com/mrsinham/docencap/internal/dicom"
	"github.com/mrsinham/docencap/internal/dicom/doctype"
	"github.com/mrsinham/docencap/internal/logging"
	"github.com/mrsinham/docencap/internal/util"
	"github.com/spf13/cobra"
)

// NewEncapsulateCmd builds the command for one document class.
func NewEncapsulateCmd(class doctype.Class, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   usageFor(class),
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			cfg.Class = class
			cfg.Input, cfg.Output = args[0], args[1]

			if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
				if err := wizard.Prompt(cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, closer, err := logging.New(logging.Options{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				File:   cfg.LogFile,
				Out:    cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer closer.Close()

			if path, _ := cmd.Flags().GetString("save-config"); path != "" {
				if err := cfg.Save(path); err != nil {
					return err
				}
				logger.Info().Str("file", path).Msg("configuration saved")
			}

			opts, err := buildOptions(cfg)
			if err != nil {
				return err
			}
			logger.Info().Str("class", string(class)).Str("input", cfg.Input).Msg("encapsulating document")

			enc := dicom.NewEncapsulator(util.UIDGenerator{Root: cfg.UIDRoot}, dicom.WithLogger(logger))
			res, err := enc.Encapsulate(opts)
			if err != nil {
				logger.Error().Err(err).Msg("encapsulation failed")
				return fmt.Errorf("encapsulate %s: %w", cfg.Input, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(res))
			return nil
		},
	}
	config.AddGeneralFlags(cmd.Flags())
	config.AddDocumentFlags(cmd.Flags(), class)
	return cmd
}
