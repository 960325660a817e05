package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanizio/escortde/internal/auth"
)

var hashpwCmd = &cobra.Command{
	Use:   "hashpw [password]",
	Short: "Print a bcrypt hash for admin.password_hash",
	Long: `Hash a password for the admin account.  The password is taken from the
first argument or, when absent, from the first line of stdin, which keeps it
out of shell history:

  echo -n 'secret' | escortd hashpw`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pw string
		if len(args) == 1 {
			pw = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("hashpw: no password given")
			}
			pw = strings.TrimRight(line, "\r\n")
		}

		hash, err := auth.HashPassword(pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
