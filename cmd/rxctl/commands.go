package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/giygas/hospital-api/logging"
	"github.com/giygas/hospital-api/matcher"
	"github.com/giygas/hospital-api/protocols"
	"github.com/giygas/hospital-api/protocols/entities"
	"github.com/giygas/hospital-api/validation"
	"github.com/spf13/cobra"
)

// errCatalogIssues makes validate exit non-zero without repeating the report
var errCatalogIssues = errors.New("catalog has quality issues")

// loadCatalog reads --catalog, or the embedded catalog when the flag is empty
func loadCatalog(cmd *cobra.Command) ([]entities.SymptomProtocol, string, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		catalog, err := protocols.Default()
		return catalog, "embedded", err
	}

	catalog, err := protocols.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	logging.Debug("Loaded catalog from file", "path", path, "protocols", len(catalog))
	return catalog, path, nil
}

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <symptoms>",
		Short: "Build a prescription draft from comma separated symptoms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			symptoms := strings.Join(args, ",")

			if err := validation.NewCatalogValidator().ValidateSymptoms(symptoms); err != nil {
				return err
			}

			catalog, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			draft, err := matcher.Generate(symptoms, catalog)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(draft)
			}
			printDraft(cmd.OutOrStdout(), draft)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the draft as JSON")
	return cmd
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect a protocol catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List protocols with their keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, _, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMPTOM\tKEYWORDS\tMEDICINES")
			for _, p := range catalog {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", p.Symptom, strings.Join(p.Keywords, ", "), len(p.Medicine))
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Report catalog quality issues; exits non-zero when any are found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, source, err := loadCatalog(cmd)
			if err != nil {
				return err
			}

			report := validation.NewCatalogValidator().ReportCatalogQuality(catalog)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d protocols\n", source, report.TotalProtocols)
			printIssues(out, "duplicate symptoms", report.DuplicateSymptoms)
			printIssues(out, "without medicine", report.ProtocolsWithoutMedicine)
			printIssues(out, "empty keywords", report.ProtocolsWithEmptyKeyword)
			printIssues(out, "unparseable medicine", report.UnparseableMedicine)

			if report.HasIssues() {
				return errCatalogIssues
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	})

	return cmd
}

func printIssues(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d):\n", label, len(items))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func printDraft(w io.Writer, draft *entities.PrescriptionDraft) {
	fmt.Fprintf(w, "Diagnosis: %s\n\n", strings.Join(draft.Diagnosis, ", "))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDOSAGE\tFREQ\tDURATION\tQTY\tPRICE")
	for _, m := range draft.Medicines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", m.Name, m.Dosage, m.Freq, m.Duration, m.Quantity, m.Price)
	}
	tw.Flush()

	printSection(w, "Diet advice", draft.DietAdvice)
	printSection(w, "Suggested tests", draft.SuggestedTests)
	printSection(w, "Avoid", draft.Avoid)
	if draft.FollowUp != "" {
		fmt.Fprintf(w, "\nFollow up: %s\n", draft.FollowUp)
	}
}

func printSection(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
