package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/vcard"
)

func (a *App) newCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count [file...]",
		Short: "Count the contacts in vCard files",
		Long:  `Count the contacts in each file without building them. Reads standard input when no file is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			type result struct {
				Path    string `json:"path"`
				Entries int    `json:"entries"`
			}

			var (
				results []result
				total   int
			)
			for _, name := range inputs(args) {
				r, release, err := a.open(name)
				if err != nil {
					return err
				}
				n, err := vcard.Count(r, a.parseOptions()...)
				release()
				if err != nil {
					return fmt.Errorf("count %s: %w", name, err)
				}
				results = append(results, result{Path: name, Entries: n})
				total += n
			}

			if a.jsonOutput {
				return writeJSON(a.stdout, map[string]any{"files": results, "total": total})
			}
			for _, r := range results {
				fmt.Fprintf(a.stdout, "%d\t%s\n", r.Entries, r.Path)
			}
			if len(results) > 1 {
				fmt.Fprintf(a.stdout, "%d\ttotal\n", total)
			}
			return nil
		},
	}
}

func (a *App) newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file...]",
		Short: "Guess the vCard version, exporting device and charset",
		Long: `Guess the vCard version, exporting device and charset of each file from its
first contact. An explicit VERSION property always decides the version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			type result struct {
				Path    string `json:"path"`
				Version string `json:"version"`
				Source  string `json:"source"`
				Charset string `json:"charset,omitempty"`
				Rule    string `json:"rule"`
			}

			var results []result
			for _, name := range inputs(args) {
				r, release, err := a.open(name)
				if err != nil {
					return err
				}
				det, err := vcard.Sniff(r)
				release()
				if err != nil {
					return fmt.Errorf("detect %s: %w", name, err)
				}
				a.logger.Debug("sniffed", "path", name, "rule", det.Rule)
				results = append(results, result{
					Path:    name,
					Version: det.Dialect.String(),
					Source:  det.Source.String(),
					Charset: det.Charset,
					Rule:    det.Rule,
				})
			}

			if a.jsonOutput {
				return writeJSON(a.stdout, results)
			}
			for _, r := range results {
				charset := r.Charset
				if charset == "" {
					charset = "-"
				}
				fmt.Fprintf(a.stdout, "%s: version %s, source %s, charset %s (rule %s)\n",
					r.Path, r.Version, r.Source, charset, r.Rule)
			}
			return nil
		},
	}
}

func (a *App) newDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [file]",
		Short: "Print the parser events of a vCard file",
		Long:  `Print every entry and property the parser reports, with line numbers. Useful to see how a file is decoded.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := inputs(args)[0]
			r, release, err := a.open(name)
			if err != nil {
				return err
			}
			defer release()

			p := vcard.NewParser(a.parseOptions()...)
			p.AddInterpreter(&dumper{w: a.stdout})
			return p.ParseContext(cmd.Context(), r)
		},
	}
}

// dumper prints parser events as an indented listing.
type dumper struct {
	w       io.Writer
	entries int
}

var _ vcard.Interpreter = (*dumper)(nil)

func (d *dumper) OnVCardStarted() {}

func (d *dumper) OnVCardEnded() {
	fmt.Fprintf(d.w, "%d entries\n", d.entries)
}

func (d *dumper) OnEntryStarted() {
	d.entries++
	fmt.Fprintf(d.w, "entry %d\n", d.entries)
}

func (d *dumper) OnEntryEnded() {}

func (d *dumper) OnPropertyCreated(p *vcard.Property) {
	var b strings.Builder
	if g := p.Group(); g != "" {
		b.WriteString(g)
		b.WriteByte('.')
	}
	b.WriteString(p.Name)
	for name, values := range p.Params.All() {
		fmt.Fprintf(&b, ";%s=%s", name, strings.Join(values, ","))
	}

	var value string
	switch {
	case p.DecodeErr != nil:
		value = fmt.Sprintf("%q (undecoded: %v)", p.RawValue, p.DecodeErr)
	case p.Bytes != nil:
		value = fmt.Sprintf("<%d bytes>", len(p.Bytes))
	default:
		value = fmt.Sprintf("%q", p.RawValue)
	}
	fmt.Fprintf(d.w, "  %4d  %s = %s\n", p.Line, b.String(), value)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
