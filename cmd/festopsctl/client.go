package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"festops/internal/apiclient"
)

// loginFromFlags builds an API client from the persistent flags and logs in.
func loginFromFlags(cmd *cobra.Command) (*apiclient.Client, error) {
	serverURL, err := cmd.Flags().GetString(FlagServerURL)
	if err != nil {
		return nil, fmt.Errorf("%s flag: %w", FlagServerURL, err)
	}
	email, err := cmd.Flags().GetString(FlagEmail)
	if err != nil {
		return nil, fmt.Errorf("%s flag: %w", FlagEmail, err)
	}
	password, err := cmd.Flags().GetString(FlagPassword)
	if err != nil {
		return nil, fmt.Errorf("%s flag: %w", FlagPassword, err)
	}
	if password == "" {
		password = os.Getenv("FESTOPS_PASSWORD")
	}
	if password == "" {
		return nil, fmt.Errorf("no password: pass --%s or set FESTOPS_PASSWORD", FlagPassword)
	}

	c, err := apiclient.New(serverURL, apiclient.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	if _, err := c.Login(context.Background(), email, password); err != nil {
		return nil, fmt.Errorf("login as %s: %w", email, err)
	}
	return c, nil
}
