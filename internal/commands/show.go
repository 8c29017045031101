package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/vcard"
)

// entryView is the printable form of an entry.
type entryView struct {
	DisplayName   string          `json:"display_name" yaml:"display_name"`
	Version       string          `json:"version" yaml:"version"`
	UID           string          `json:"uid,omitempty" yaml:"uid,omitempty"`
	Name          *nameView       `json:"name,omitempty" yaml:"name,omitempty"`
	Nicknames     []string        `json:"nicknames,omitempty" yaml:"nicknames,omitempty"`
	Birthday      string          `json:"birthday,omitempty" yaml:"birthday,omitempty"`
	Phones        []itemView      `json:"phones,omitempty" yaml:"phones,omitempty"`
	Emails        []itemView      `json:"emails,omitempty" yaml:"emails,omitempty"`
	Addresses     []itemView      `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Organizations []orgView       `json:"organizations,omitempty" yaml:"organizations,omitempty"`
	IMs           []itemView      `json:"ims,omitempty" yaml:"ims,omitempty"`
	Websites      []itemView      `json:"websites,omitempty" yaml:"websites,omitempty"`
	Notes         []string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	Photos        []string        `json:"photos,omitempty" yaml:"photos,omitempty"`
	Agents        int             `json:"agents,omitempty" yaml:"agents,omitempty"`
	Extensions    []extensionView `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Warnings      []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type nameView struct {
	Family   string `json:"family,omitempty" yaml:"family,omitempty"`
	Given    string `json:"given,omitempty" yaml:"given,omitempty"`
	Middle   string `json:"middle,omitempty" yaml:"middle,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix   string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Phonetic string `json:"phonetic,omitempty" yaml:"phonetic,omitempty"`
}

type itemView struct {
	Value   string `json:"value" yaml:"value"`
	Label   string `json:"label" yaml:"label"`
	Primary bool   `json:"primary,omitempty" yaml:"primary,omitempty"`
}

type orgView struct {
	Company    string `json:"company,omitempty" yaml:"company,omitempty"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Role       string `json:"role,omitempty" yaml:"role,omitempty"`
}

type extensionView struct {
	Name   string              `json:"name" yaml:"name"`
	Group  string              `json:"group,omitempty" yaml:"group,omitempty"`
	Params map[string][]string `json:"params,omitempty" yaml:"params,omitempty"`
	Value  string              `json:"value" yaml:"value"`
}

func newEntryView(e *vcard.Entry) entryView {
	v := entryView{
		DisplayName: e.DisplayName,
		Version:     e.Dialect.String(),
		UID:         e.UID,
		Nicknames:   e.Nicknames,
		Birthday:    e.Birthday,
		Notes:       e.Notes,
		Agents:      len(e.Agents),
	}

	n := e.Name
	phonetic := vcard.Name{Family: n.PhoneticFamily, Given: n.PhoneticGiven, Middle: n.PhoneticMiddle}.Join()
	if !n.IsEmpty() || phonetic != "" {
		v.Name = &nameView{
			Family:   n.Family,
			Given:    n.Given,
			Middle:   n.Middle,
			Prefix:   n.Prefix,
			Suffix:   n.Suffix,
			Phonetic: phonetic,
		}
	}

	for _, p := range e.Phones {
		v.Phones = append(v.Phones, itemView{Value: p.Number, Label: p.Label.String(), Primary: p.Primary})
	}
	for _, m := range e.Emails {
		v.Emails = append(v.Emails, itemView{Value: m.Address, Label: m.Label.String(), Primary: m.Primary})
	}
	for _, ad := range e.Addresses {
		v.Addresses = append(v.Addresses, itemView{Value: ad.Formatted(), Label: ad.Label.String(), Primary: ad.Primary})
	}
	for _, o := range e.Organizations {
		v.Organizations = append(v.Organizations, orgView{
			Company:    o.Company,
			Department: o.Department,
			Title:      o.Title,
			Role:       o.Role,
		})
	}
	for _, im := range e.IMs {
		v.IMs = append(v.IMs, itemView{Value: im.Protocol + ":" + im.Handle, Label: im.Label.String(), Primary: im.Primary})
	}
	for _, w := range e.Websites {
		v.Websites = append(v.Websites, itemView{Value: w.URL, Label: w.Label.String()})
	}
	for _, p := range e.Photos {
		v.Photos = append(v.Photos, p.String())
	}
	for p := range e.AllExtensions() {
		ext := extensionView{Name: p.Name, Group: p.Group(), Value: p.RawValue}
		if p.Params.Len() > 0 {
			ext.Params = make(map[string][]string, p.Params.Len())
			for name, values := range p.Params.All() {
				ext.Params[name] = values
			}
		}
		v.Extensions = append(v.Extensions, ext)
	}
	for _, w := range e.Warnings {
		v.Warnings = append(v.Warnings, w.String())
	}
	return v
}

func (a *App) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file...]",
		Short: "Print contacts as YAML or JSON",
		Long:  `Print every contact with its typed fields, extensions and decoding warnings. Output is YAML unless --json is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var views []entryView
			for _, name := range inputs(args) {
				entries, err := a.readEntries(cmd.Context(), name)
				if err != nil {
					return err
				}
				for _, e := range entries {
					views = append(views, newEntryView(e))
				}
			}
			if views == nil {
				views = []entryView{}
			}

			if a.jsonOutput {
				return writeJSON(a.stdout, views)
			}

			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(views); err != nil {
				return fmt.Errorf("encode yaml: %w", err)
			}
			return enc.Close()
		},
	}
}
