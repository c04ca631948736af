// Package main is the entry point for the rsa-cli application.
// It registers the key generation, encryption and decryption commands on the root command
// and executes the command-line interface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/AastromSecurity/Crypto/cmd/rsa-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "rsa-cli",
		Short: "Textbook RSA on integers",
		Long: `rsa-cli generates an RSA key pair from two random primes of a chosen decimal
length and encrypts or decrypts integer messages with the stored keys.

Keys are kept below ~/.rsa unless --key-dir, --storage or a configuration file
(rsa-cli.yaml in the working directory or the key directory) say otherwise.
Every setting can also be given as an RSA_CLI_* environment variable.

No padding is applied: messages must be integers in [0, n).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := commands.InitRSACommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}
