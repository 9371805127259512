package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wolfman30/caretaker-ai/internal/content"
	"github.com/wolfman30/caretaker-ai/internal/llm"
	"github.com/wolfman30/caretaker-ai/internal/mediation"
	"github.com/wolfman30/caretaker-ai/internal/safety"
)

func newPingCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured model answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, closeGW, err := d.gateway(cmd.Context())
			if err != nil {
				return err
			}
			defer closeGW()

			res := llm.Ping(cmd.Context(), gw)
			if !res.OK {
				return fmt.Errorf("ping failed: %s", res.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Response)
			return nil
		},
	}
}

func newChatCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Run one message through the full mediation pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, closeGW, err := d.gateway(cmd.Context())
			if err != nil {
				return err
			}
			defer closeGW()
			trail, closeTrail, err := d.auditTrail(cmd.Context())
			if err != nil {
				return err
			}
			defer closeTrail()

			p := mediation.New(mediation.Config{Gateway: gw, Audit: trail, Logger: d.logger})
			res := p.Chat(cmd.Context(), strings.Join(args, " "), nil)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Response)
			fmt.Fprintf(out, "\noutcome=%s substituted=%t emergency=%t\n", res.Outcome, res.WasSubstituted, res.HadEmergency)
			return nil
		},
	}
}

// check runs the offline checks only; no model is called.
func newCheckCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file|->",
		Short: "Validate a model response and report PII and emergency signals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(d, args[0])
			if err != nil {
				return err
			}
			verdict := safety.Validate(text)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "severity\t%s\n", verdict.Severity)
			fmt.Fprintf(w, "flags\t%s\n", joinOrDash(verdict.Flags))
			fmt.Fprintf(w, "emergency\t%t\n", safety.IsEmergency(text))
			pii := make([]string, 0)
			for _, c := range safety.DetectPII(text) {
				pii = append(pii, string(c))
			}
			fmt.Fprintf(w, "pii\t%s\n", joinOrDash(pii))
			return w.Flush()
		},
	}
}

func newClassifyCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file|->",
		Short: "Detect the content type of a file or of stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detected, err := detect(d, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s supported=%t ai=%t\n",
				detected.Type, content.IsSupported(detected.Type), content.RequiresAIExtraction(detected.Type))
			return nil
		},
	}
}

func newExtractCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file|->",
		Short: "Extract appointments from a calendar file, email or note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detected, err := detect(d, args[0])
			if err != nil {
				return err
			}

			var result any
			switch detected.Type {
			case content.TypeICS:
				events := content.ParseICS(detected.Content, d.logger)
				appts := make([]content.CalendarAppointment, 0, len(events))
				for _, ev := range events {
					appts = append(appts, content.EventToAppointment(ev))
				}
				result = appts
			case content.TypeText, content.TypeEmail:
				gw, closeGW, err := d.gateway(cmd.Context())
				if err != nil {
					return err
				}
				defer closeGW()
				result = content.NewExtractor(gw, d.logger, nil).ExtractAppointment(cmd.Context(), detected.Content)
			default:
				return fmt.Errorf("cannot extract appointments from %s content", detected.Type)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

func newAuditCmd(d *deps) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the AI audit trail",
	}
	auditCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show entry counts by severity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trail, closeTrail, err := d.auditTrail(cmd.Context())
			if err != nil {
				return err
			}
			defer closeTrail()

			stats := trail.Stats(cmd.Context())
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TOTAL\tBLOCKED\tWARNINGS\tCLEAN")
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", stats.Total, stats.Blocked, stats.Warnings, stats.Clean)
			return w.Flush()
		},
	})
	return auditCmd
}

// readInput reads a path, or stdin when path is "-".
func readInput(d *deps, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(io.LimitReader(d.stdin, content.MaxFileBytes))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func detect(d *deps, path string) (content.DetectedContent, error) {
	if path == "-" {
		text, err := readInput(d, path)
		if err != nil {
			return content.DetectedContent{}, err
		}
		return content.DetectFromText(text), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return content.DetectedContent{}, err
	}
	defer f.Close()
	detected, err := content.DetectFromFile(filepath.Base(path), "", f)
	if err != nil || detected.Type != content.TypeText {
		return detected, err
	}
	// Plain text files may still hold a pasted calendar or email.
	refined := content.DetectFromText(detected.Content)
	refined.FileName = detected.FileName
	return refined, nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
