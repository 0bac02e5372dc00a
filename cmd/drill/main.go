// Команда drill - консольный тренажер: вход, тренировка по automatismes, статистика.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yourusername/automatismes-api/pkg/client"
)

const defaultAPIURL = "http://localhost:8080/api"

var rootCmd = &cobra.Command{
	Use:   "drill",
	Short: "Practise the math automatismes from the terminal",
	Long: `drill connects to the automatismes API: log in, get exercises picked
for your weakest category, answer them and follow your progress.`,
	SilenceUsage: true,
}

var stdin = bufio.NewReader(os.Stdin)

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("api", "", "API base URL (overrides AUTOMATISMES_API_URL)")
	rootCmd.PersistentFlags().String("session", "", "Session file (default: user config dir)")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(catalogCmd, methodsCmd, practiceCmd)
	rootCmd.AddCommand(statsCmd, exportCmd, feedbackCmd)
}

// newClient собирает клиента из флагов и окружения
func newClient(cmd *cobra.Command) (*client.Client, error) {
	apiURL, _ := cmd.Flags().GetString("api")
	if apiURL == "" {
		apiURL = os.Getenv("AUTOMATISMES_API_URL")
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	sessionPath, _ := cmd.Flags().GetString("session")
	if sessionPath == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return nil, fmt.Errorf("resolve session path: %w", err)
		}
		sessionPath = p
	}
	return client.New(apiURL, client.NewFileSessionStore(sessionPath)), nil
}

// prompt читает строку со стандартного ввода
func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Erreur:", err)
		os.Exit(1)
	}
}
