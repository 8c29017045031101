package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/simonhull/vcard"
)

func (a *App) newVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including version, commit, build date, and Go runtime.`,
		Run: func(cmd *cobra.Command, args []string) {
			info := vcard.GetVersionInfo()
			if a.jsonOutput {
				_ = writeJSON(a.stdout, map[string]string{ //nolint:errcheck // Best effort output
					"version":   info.Version,
					"commit":    info.GitCommit,
					"buildDate": info.BuildTime,
					"goVersion": info.GoVersion,
					"platform":  runtime.GOOS + "/" + runtime.GOARCH,
				})
				return
			}

			if short {
				fmt.Fprintln(a.stdout, info)
				return
			}

			fmt.Fprintf(a.stdout, "vcard %s\n", info.Version)
			fmt.Fprintf(a.stdout, "  commit:     %s\n", info.GitCommit)
			fmt.Fprintf(a.stdout, "  built:      %s\n", info.BuildTime)
			fmt.Fprintf(a.stdout, "  go version: %s\n", info.GoVersion)
			fmt.Fprintf(a.stdout, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print a single line")
	return cmd
}
