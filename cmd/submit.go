package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lensfolio/lensfolio/internal/config"
	"github.com/lensfolio/lensfolio/internal/log"
	"github.com/lensfolio/lensfolio/internal/photo"
	"github.com/lensfolio/lensfolio/internal/registration"
	"github.com/lensfolio/lensfolio/internal/ui/markdown"
)

// summaryWidth is the word wrap width of the dry-run summary.
const summaryWidth = 80

type submitOptions struct {
	file   string
	photo  string
	dryRun bool
	plain  bool
}

var submitOpts submitOptions

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Register from a YAML draft without opening the form",
	Long: `Register from a YAML draft without opening the form.

The draft mirrors the form:

  creator_type: photographer
  profile:
    full_name: Asha Rao
    email: asha@example.com
    phone: "+91 98450 00000"
    location: Bengaluru
    availability: weekends
  services:                      # service id: price per session
    portrait_photography: 150
  portfolio:
    - https://asha.example.com
  payment_methods: [upi, cash]

Examples:
  # Check what would be sent
  lensfolio submit --file draft.yaml --dry-run

  # Register and upload a profile photo
  lensfolio submit -f draft.yaml --photo me.png`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitOpts.file, "file", "f", "", "draft YAML file (required)")
	submitCmd.Flags().StringVarP(&submitOpts.photo, "photo", "p", "", "profile photo to upload (png, jpg, jpeg or gif)")
	submitCmd.Flags().BoolVar(&submitOpts.dryRun, "dry-run", false, "validate and print a summary without sending")
	submitCmd.Flags().BoolVar(&submitOpts.plain, "plain", false, "print the summary without styling")
	_ = submitCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	cleanup, err := setupLogging("lensfolio-submit")
	if err != nil {
		return err
	}
	defer cleanup()

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	return submitDraft(cmd.Context(), cmd.OutOrStdout(), cfg, submitOpts, svc.submitter)
}

// submitDraft fills a controller from the draft and either prints the
// validated payload or sends it with s.
func submitDraft(
	ctx context.Context,
	out io.Writer,
	c config.Config,
	opts submitOptions,
	s *registration.Submitter,
) error {
	f, err := os.Open(opts.file) //nolint:gosec // G304: user-supplied draft path
	if err != nil {
		return fmt.Errorf("opening draft: %w", err)
	}
	d, err := registration.ReadDraft(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	ctrl := registration.New(c.Catalog, registration.WithCreatorType(c.CreatorType()))
	if err := ctrl.ApplyDraft(d); err != nil {
		return fmt.Errorf("applying draft: %w", err)
	}

	if opts.photo != "" {
		if _, err := photo.Check(opts.photo); err != nil {
			return fmt.Errorf("profile photo: %w", err)
		}
		ctrl.StagePhoto(opts.photo)
	}

	if opts.dryRun {
		sub, err := ctrl.BeginSubmit()
		if err != nil {
			return userError(err)
		}
		return printSummary(out, c, opts, registration.Summary(sub.Payload, c.Catalog, opts.photo))
	}

	res, err := ctrl.Submit(ctx, s)
	if err != nil {
		return userError(err)
	}

	log.Info(log.CatForm, "headless registration complete", "creator_id", res.CreatorID)
	_, _ = fmt.Fprintf(out, "Registration successful! Creator ID: %s\n", res.CreatorID)
	switch {
	case res.PhotoWarning != nil:
		_, _ = fmt.Fprintf(out, "Warning: the profile photo could not be uploaded: %v\n", res.PhotoWarning)
	case res.PhotoUploaded:
		_, _ = fmt.Fprintln(out, "Profile photo uploaded.")
	}
	return nil
}

func printSummary(out io.Writer, c config.Config, opts submitOptions, md string) error {
	style := c.UI.MarkdownStyle
	if opts.plain {
		style = "notty"
	}
	r, err := markdown.New(summaryWidth, style)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// userError swaps a submission failure for the text the form would show.
func userError(err error) error {
	var serr *registration.SubmitError
	if errors.As(err, &serr) {
		return errors.New(serr.UserMessage())
	}
	return err
}
