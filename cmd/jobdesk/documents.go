package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdesk/internal/ai"
	"github.com/amishk599/jobdesk/internal/model"
	"github.com/amishk599/jobdesk/internal/tracker"
)

var (
	tailorJDFile   string
	tailorAppID    int64
	tailorDraft    string
	tailorFeedback string
	tailorOut      string

	coverJDFile  string
	coverAppID   int64
	coverRole    string
	coverCompany string
	coverTone    string
	coverOut     string
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor the CV to a job description",
	Long: "Generates a CV tailored to a job description plus notes on what was changed. " +
		"Pass --refine-draft and --feedback to revise an earlier draft.",
	RunE: runTailor,
}

var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "Write a cover letter for a job description",
	Long:  "Generates a cover letter in the chosen tone (confident, warm or strategic).",
	RunE:  runCover,
}

func init() {
	tailorCmd.Flags().StringVar(&tailorJDFile, "jd-file", "", "file holding the job description (- for stdin)")
	tailorCmd.Flags().Int64Var(&tailorAppID, "app", 0, "use the description of this tracked application")
	tailorCmd.Flags().StringVar(&tailorDraft, "refine-draft", "", "file holding a previous CV draft to refine")
	tailorCmd.Flags().StringVar(&tailorFeedback, "feedback", "", "what to change in the previous draft")
	tailorCmd.Flags().StringVarP(&tailorOut, "out", "o", "", "also write the CV to this file")
	rootCmd.AddCommand(tailorCmd)

	coverCmd.Flags().StringVar(&coverJDFile, "jd-file", "", "file holding the job description (- for stdin)")
	coverCmd.Flags().Int64Var(&coverAppID, "app", 0, "prefill role, company and description from this tracked application")
	coverCmd.Flags().StringVar(&coverRole, "role", "", "role title")
	coverCmd.Flags().StringVar(&coverCompany, "company", "", "company name")
	coverCmd.Flags().StringVar(&coverTone, "tone", "", "tone: confident, warm or strategic (default confident)")
	coverCmd.Flags().StringVarP(&coverOut, "out", "o", "", "also write the letter to this file")
	rootCmd.AddCommand(coverCmd)
}

func runTailor(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	if (tailorDraft == "") != (tailorFeedback == "") {
		return errors.New("--refine-draft and --feedback must be given together")
	}

	sess, closeFn, err := bootstrap(logger)
	if err != nil {
		return err
	}
	defer closeFn()

	jd, _, err := jobDescription(sess.Tracker(), tailorJDFile, tailorAppID)
	if err != nil {
		return err
	}

	req := ai.CVRequest{JobDescription: jd, Feedback: tailorFeedback}
	if tailorDraft != "" {
		draft, err := readText(tailorDraft)
		if err != nil {
			return err
		}
		req.PreviousDraft = draft
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := sess.TailorCV(ctx, req)
	if err != nil {
		return err
	}

	if result.Notes != "" {
		fmt.Println(tableHeaderStyle.Render("Tailoring notes"))
		fmt.Println(result.Notes)
		fmt.Println()
	}
	fmt.Println(tableHeaderStyle.Render("Tailored CV"))
	fmt.Println(result.CV)

	return export(tailorOut, result.CV)
}

func runCover(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	tone, err := ai.ParseTone(coverTone)
	if err != nil {
		return err
	}

	sess, closeFn, err := bootstrap(logger)
	if err != nil {
		return err
	}
	defer closeFn()

	jd, app, err := jobDescription(sess.Tracker(), coverJDFile, coverAppID)
	if err != nil {
		return err
	}

	req := ai.CoverLetterRequest{
		Role:           coverRole,
		Company:        coverCompany,
		JobDescription: jd,
		Tone:           tone,
	}
	if req.Role == "" {
		req.Role = app.Title
	}
	if req.Company == "" {
		req.Company = app.Company
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	letter, err := sess.WriteCoverLetter(ctx, req)
	if err != nil {
		return err
	}

	fmt.Println(tableHeaderStyle.Render(fmt.Sprintf("Cover letter (%s)", tone)))
	fmt.Println(letter)

	return export(coverOut, letter)
}

// jobDescription reads the description from a file, or from a tracked
// application when appID is set. A file wins when both are given. The
// application is returned for prefilling; it is zero when none was used.
func jobDescription(tr *tracker.Tracker, path string, appID int64) (string, model.Application, error) {
	var app model.Application
	if appID != 0 {
		var err error
		app, err = tr.Get(appID)
		if err != nil {
			return "", model.Application{}, fmt.Errorf("application %d: %w", appID, err)
		}
	}

	if path != "" {
		jd, err := readText(path)
		return jd, app, err
	}

	if appID != 0 {
		jd := app.Description
		if strings.TrimSpace(jd) == "" {
			jd = app.Summary
		}
		if strings.TrimSpace(jd) == "" {
			return "", app, fmt.Errorf("application %d has no description; pass --jd-file", appID)
		}
		return jd, app, nil
	}

	return "", app, errors.New("pass --jd-file or --app")
}

func readText(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// export writes the document to path with typographic punctuation replaced.
// An empty path is a no-op.
func export(path, doc string) error {
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, []byte(ai.CleanSpecialChars(doc)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("\nSaved to %s\n", path)
	return nil
}
