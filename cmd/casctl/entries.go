package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"io.winapps.casportfolio/internal/media"
	createmodels "io.winapps.casportfolio/internal/models/create_entry"
	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

func newEntriesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List, create and delete journal entries",
	}
	cmd.AddCommand(
		newEntriesListCmd(opts),
		newEntriesCreateCmd(opts),
		newEntriesDeleteCmd(opts),
	)
	return cmd
}

func parseKindFlag(raw string) (*entrymodels.Kind, error) {
	if raw == "" {
		return nil, nil
	}
	k, err := entrymodels.ParseKind(raw)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func newEntriesListCmd(opts *rootOptions) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKindFlag(kindFlag)
			if err != nil {
				return err
			}
			s, err := opts.open()
			if err != nil {
				return err
			}

			entries, err := s.client.ListEntries(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return printJSON(cmd, entrymodels.ToDTOs(entries))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tDATE\tTITLE\tMEDIA")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					e.ID, e.Kind, e.EffectiveDate().Local().Format(entrymodels.DateLayout), e.Title, len(e.Media))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Only list one strand (creativity, activity, service, conversation)")
	return cmd
}

type createFlags struct {
	kind        string
	title       string
	description string
	week        int
	date        string
	files       []string
}

func newEntriesCreateCmd(opts *rootOptions) *cobra.Command {
	f := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Upload media and create an entry",
		Long: `Create uploads every --file first, as the strand's media kind (images for
creativity, activity and service, audio for conversation). If any upload
fails nothing is created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entrymodels.ParseKind(f.kind)
			if err != nil {
				return err
			}
			weekSet := cmd.Flags().Changed("week")
			if weekSet && !kind.UsesWeek() {
				return fmt.Errorf("--week does not apply to %s entries", kind)
			}
			if weekSet && f.week < 0 {
				return errors.New("--week must not be negative")
			}
			if strings.TrimSpace(f.title) == "" || strings.TrimSpace(f.description) == "" {
				return errors.New("--title and --description are required")
			}

			s, err := opts.open()
			if err != nil {
				return err
			}
			return s.admin(func() error {
				req := createmodels.CreateEntryRequest{
					Kind:        string(kind),
					Title:       f.title,
					Description: f.description,
					EntryDate:   f.date,
				}
				if weekSet {
					week := f.week
					req.Week = &week
				}

				if len(f.files) > 0 {
					items, err := uploadFiles(cmd, s, kind.ExpectedMedia(), f.files)
					if err != nil {
						return err
					}
					for _, it := range items {
						req.Media = append(req.Media, createmodels.MediaItemRequest{Kind: string(it.Kind), Name: it.Name, URL: it.URL})
					}
				}

				created, err := s.client.CreateEntry(cmd.Context(), req)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return printJSON(cmd, entrymodels.ToDTO(*created))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s entry %s\n", created.Kind, created.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.kind, "kind", "", "Strand of the entry (required)")
	cmd.Flags().StringVar(&f.title, "title", "", "Entry title (required)")
	cmd.Flags().StringVar(&f.description, "description", "", "Reflection text (required)")
	cmd.Flags().IntVar(&f.week, "week", 0, "Week number (not for conversations)")
	cmd.Flags().StringVar(&f.date, "date", "", "Date of the activity, YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&f.files, "file", nil, "Media file to upload (repeatable)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func uploadFiles(cmd *cobra.Command, s *session, kind entrymodels.MediaKind, paths []string) ([]entrymodels.MediaItem, error) {
	files := make([]media.File, 0, len(paths))
	for _, p := range paths {
		fh, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		defer fh.Close()
		files = append(files, media.File{Name: filepath.Base(p), Body: fh})
	}

	items, err := s.client.UploadMedia(cmd.Context(), kind, files)
	if err != nil {
		return nil, fmt.Errorf("media upload failed, entry not created: %w", err)
	}
	return items, nil
}

func newEntriesDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			s, err := opts.open()
			if err != nil {
				return err
			}
			return s.admin(func() error {
				if err := s.client.DeleteEntry(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Entry deleted: %s\n", id)
				return nil
			})
		},
	}
}
