package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccarocean/copernicus-sync/internal/auth"
	"github.com/ccarocean/copernicus-sync/internal/dataset"
)

var (
	authUser     string
	authPassword string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored FTP credentials",
}

var authLoginCmd = &cobra.Command{
	Use:   "login <dataset>",
	Short: "Store credentials for a dataset host in the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout <dataset>",
	Short: "Remove stored credentials for a dataset host",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthLogout,
}

func init() {
	authLoginCmd.Flags().StringVarP(&authUser, "user", "u", "", "FTP username")
	authLoginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "FTP password (prompted when omitted)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

// AuthStatus is the result envelope for auth commands.
type AuthStatus struct {
	Host     string `json:"host"`
	Username string `json:"username,omitempty"`
	Stored   bool   `json:"stored"`
}

func (s AuthStatus) Headers() []string {
	return []string{"Host", "Username", "Stored"}
}

func (s AuthStatus) Rows() [][]string {
	user := s.Username
	if user == "" {
		user = "-"
	}
	return [][]string{{s.Host, user, fmt.Sprintf("%v", s.Stored)}}
}

func (s AuthStatus) EmptyMessage() string {
	return "No credentials."
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	writer := NewOutputWriter(flags.OutputFormat, flags.Quiet)

	profile, err := dataset.Lookup(args[0])
	if err != nil {
		return handleError(writer, "auth.login", err)
	}

	user := authUser
	if user == "" {
		user, err = promptLine(fmt.Sprintf("Username for %s: ", profile.Host))
		if err != nil {
			return handleError(writer, "auth.login", err)
		}
	}

	password := authPassword
	if password == "" {
		password, err = promptPassword(fmt.Sprintf("Password for %s@%s: ", user, profile.Host))
		if err != nil {
			return handleError(writer, "auth.login", err)
		}
	}

	if err := auth.Save(profile.Host, auth.Credentials{Username: user, Password: password}); err != nil {
		return handleError(writer, "auth.login", err)
	}

	return writer.WriteSuccess("auth.login", AuthStatus{
		Host:     profile.Host,
		Username: user,
		Stored:   true,
	})
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	writer := NewOutputWriter(flags.OutputFormat, flags.Quiet)

	profile, err := dataset.Lookup(args[0])
	if err != nil {
		return handleError(writer, "auth.logout", err)
	}

	if err := auth.Delete(profile.Host); err != nil {
		return handleError(writer, "auth.logout", err)
	}

	return writer.WriteSuccess("auth.logout", AuthStatus{
		Host:   profile.Host,
		Stored: false,
	})
}
