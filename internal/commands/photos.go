package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/simonhull/vcard"
	"github.com/simonhull/vcard/internal/types"
)

func (a *App) newPhotosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos [file]",
		Short: "Extract embedded photos and logos",
		Long: `Write every embedded PHOTO and LOGO image to the output directory.
Photos that only reference a URL are listed but not downloaded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.readEntries(cmd.Context(), inputs(args)[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(a.photosDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			written := 0
			for i, e := range entries {
				for j, p := range e.Photos {
					if len(p.Data) == 0 {
						a.logger.Info("photo not embedded", "entry", e.DisplayName, "url", p.URL)
						continue
					}
					path := filepath.Join(a.photosDir, photoFileName(i, j, e, p))
					if err := os.WriteFile(path, p.Data, 0o644); err != nil { //nolint:gosec // Images are not secret
						return fmt.Errorf("write photo: %w", err)
					}
					fmt.Fprintf(a.stdout, "%s\t%s\n", path, p)
					written++
				}
			}
			a.logger.Debug("photos extracted", "count", written, "dir", a.photosDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&a.photosDir, "dir", "d", ".", "output directory")
	return cmd
}

// photoFileName builds "<entry>-<name>-<photo>.<ext>", e.g. "001-john-doe-1.jpg".
func photoFileName(entry, photo int, e *vcard.Entry, p vcard.Photo) string {
	ext := strings.ToLower(types.FormatToken(p.MIMEType))
	switch ext {
	case "":
		ext = "bin"
	case "jpeg":
		ext = "jpg"
	}
	return fmt.Sprintf("%03d-%s-%d.%s", entry+1, slug(e.DisplayName), photo+1, ext)
}

// slug reduces s to lower-case letters and digits separated by '-'.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "contact"
	}
	return b.String()
}
