package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/vcard"
)

func (a *App) newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Rewrite a vCard file in another version or charset",
		Long: `Read every contact from input and write it to output. Use "-" for standard
input or output. Files are replaced atomically.

Without --to each contact keeps the version it was read in.`,
		Example: `  vcard convert old.vcf new.vcf --to 4.0
  vcard convert --to 2.1 --out-charset Shift_JIS contacts.vcf phone.vcf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.convertOptions(cmd)
			if err != nil {
				return exitWithCode(ExitUsage, err)
			}

			entries, err := a.readEntries(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if args[1] == stdinName {
				return vcard.Encode(a.stdout, entries, opts...)
			}
			if a.convertValidate {
				opts = append(opts, vcard.WithValidation())
			}
			if err := vcard.WriteFile(args[1], entries, opts...); err != nil {
				return err
			}
			a.logger.Info("converted", "input", args[0], "output", args[1], "entries", len(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&a.convertVersion, "to", "", "vCard version to write (2.1, 3.0, 4.0)")
	cmd.Flags().StringVar(&a.convertCharset, "out-charset", "", "charset of 2.1 output")
	cmd.Flags().StringVar(&a.convertBackup, "backup", "", "keep the replaced file with this suffix")
	cmd.Flags().BoolVar(&a.convertValidate, "validate", false, "re-read the output after writing")
	return cmd
}

// convertOptions merges config write settings with command flags.
func (a *App) convertOptions(cmd *cobra.Command) ([]vcard.WriteOption, error) {
	cfg := a.cfg
	flags := cmd.Flags()
	if flags.Changed("to") {
		d, err := vcard.ParseDialect(a.convertVersion)
		if err != nil {
			return nil, err
		}
		cfg.WriteVersion = d
	}
	if flags.Changed("out-charset") {
		if a.convertCharset == "" {
			return nil, errors.New("--out-charset must not be empty")
		}
		cfg.WriteCharset = a.convertCharset
	}
	if flags.Changed("backup") {
		cfg.BackupSuffix = a.convertBackup
	}
	if cfg.WriteCharset == "" {
		return nil, fmt.Errorf("no output charset configured")
	}
	return cfg.WriteOptions(), nil
}
