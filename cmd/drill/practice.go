package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/automatismes-api/internal/handler/dto"
	"github.com/yourusername/automatismes-api/pkg/client"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List automatismes by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		catalog, err := c.Automatisms(cmd.Context())
		if err != nil {
			return loginHint(err)
		}

		labels := make([]string, 0, len(catalog))
		for label := range catalog {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Println(label)
			for _, a := range catalog[label] {
				fmt.Printf("  - %s\n", a)
			}
		}
		return nil
	},
}

var methodsCmd = &cobra.Command{
	Use:   "methods <automatisme>",
	Short: "Show the method sheets of an automatisme",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		methods, err := c.Methods(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return loginHint(err)
		}
		for _, m := range methods {
			fmt.Printf("== %s ==\n%s\n", m.Titre, m.Contenu)
			if m.Exemple != "" {
				fmt.Printf("Exemple : %s\n", m.Exemple)
			}
			fmt.Println()
		}
		return nil
	},
}

var practiceCount int

var practiceCmd = &cobra.Command{
	Use:   "practice [automatisme]",
	Short: "Answer exercises (recommended automatisme by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		req := dto.StartPracticeRequest{Automatisme: strings.Join(args, " ")}

		if req.Automatisme == "" {
			rec, err := c.Recommendation(ctx)
			if err != nil {
				if client.IsType(err, "no_data") {
					fmt.Println("Aucun exercice disponible pour le moment.")
					return nil
				}
				return loginHint(err)
			}
			fmt.Printf("À revoir en priorité : %s\n", rec.Automatism)
		}

		correct := 0
		for i := 1; i <= practiceCount; i++ {
			attempt, err := c.StartPractice(ctx, req)
			if err != nil {
				return loginHint(err)
			}

			fmt.Printf("\nExercice %d/%d (n°%d, %s)\n%s\n", i, practiceCount, attempt.Numero, attempt.Automatisme, attempt.Enonce)
			answer, err := prompt("> ")
			if err != nil {
				return err
			}

			verdict, err := c.Answer(ctx, attempt.AttemptID, answer)
			if err != nil {
				if client.IsType(err, "correction_unavailable") {
					fmt.Fprintln(os.Stderr, "Cet exercice ne peut pas être corrigé, il n'est pas compté.")
					continue
				}
				return loginHint(err)
			}

			switch {
			case verdict.Correct:
				correct++
				fmt.Println("✅ Bonne réponse !")
			case !verdict.Recognized:
				fmt.Printf("❌ Réponse non reconnue. Réponse attendue : %s\n", formatExpected(verdict))
			default:
				fmt.Printf("❌ Faux. Réponse attendue : %s\n", formatExpected(verdict))
			}
			if verdict.Correction != "" {
				fmt.Printf("Correction : %s\n", verdict.Correction)
			}
		}

		fmt.Printf("\nScore : %d/%d\n", correct, practiceCount)
		return nil
	},
}

func init() {
	practiceCmd.Flags().IntVarP(&practiceCount, "count", "n", 5, "Number of exercises")
}

func formatExpected(v *dto.AnswerResponse) string {
	if v.Kind == "boolean" {
		if v.Expected != 0 {
			return "vrai"
		}
		return "faux"
	}
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v.Expected), "0"), ".")
	return strings.ReplaceAll(s, ".", ",")
}
