package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/automatismes-api/pkg/client"
)

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account and log in",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		username, password, err := readCredentials(args)
		if err != nil {
			return err
		}

		if _, err := c.Register(cmd.Context(), username, password); err != nil {
			return err
		}
		s, err := c.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		fmt.Printf("Compte créé. Bienvenue %s !\n", s.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and store the session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		username, password, err := readCredentials(args)
		if err != nil {
			return err
		}

		s, err := c.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		fmt.Printf("Connecté en tant que %s (session valable jusqu'au %s)\n", s.Username, s.ExpiresAt.Local().Format("02/01/2006 15:04"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and forget it locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := c.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Déconnecté.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		user, err := c.VerifyToken(cmd.Context())
		if err != nil {
			return loginHint(err)
		}
		fmt.Printf("%s (score %d)\n", user.Username, user.Score)
		return nil
	},
}

func readCredentials(args []string) (string, string, error) {
	var username string
	if len(args) == 1 {
		username = args[0]
	} else {
		u, err := prompt("Nom d'utilisateur : ")
		if err != nil {
			return "", "", err
		}
		username = u
	}
	password, err := prompt("Mot de passe : ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

// loginHint подсказывает войти заново, если сессия сброшена
func loginHint(err error) error {
	var apiErr *client.APIError
	if errors.Is(err, client.ErrNoSession) || (errors.As(err, &apiErr) && apiErr.Status == 401) {
		return fmt.Errorf("session expirée ou absente, lancez `drill login`")
	}
	return err
}
