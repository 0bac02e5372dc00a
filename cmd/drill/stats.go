package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show success rate per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		rows, err := c.Stats(cmd.Context())
		if err != nil {
			return loginHint(err)
		}
		if len(rows) == 0 {
			fmt.Println("Pas encore de résultats.")
			return nil
		}
		for _, r := range rows {
			bar := strings.Repeat("█", r.Rate/5) + strings.Repeat("░", 20-r.Rate/5)
			fmt.Printf("%-34s %s %3d%% (%d/%d)\n", r.Label, bar, r.Rate, r.Correct, r.Total)
		}
		return nil
	},
}

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the \"Rapport de révision\" (pdf or xlsx)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		file, err := c.ExportStats(cmd.Context(), exportFormat)
		if err != nil {
			return loginHint(err)
		}

		path := filepath.Join(exportDir, filepath.Base(file.Name))
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			return err
		}
		fmt.Printf("Rapport enregistré : %s\n", path)
		return nil
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback [message]",
	Short: "Send a message to the exercise authors",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		message := strings.Join(args, " ")
		if message == "" {
			if message, err = prompt("Votre message : "); err != nil {
				return err
			}
		}
		if err := c.SendFeedback(cmd.Context(), message); err != nil {
			return loginHint(err)
		}
		fmt.Println("Merci pour votre retour !")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "Report format: pdf or xlsx")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Output directory")
}
