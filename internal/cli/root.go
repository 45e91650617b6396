package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const passwordEnvVar = "RESQRYPT_PASSWORD"

// NewRootCommand creates the root CLI command.
func NewRootCommand(version, buildTime, gitCommit string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "resqrypt",
		Short: "Authenticated, password-based encryption for files and directories",
		Long: `ResQrypt encrypts and decrypts files or whole directories with a
password. It derives a key with Argon2id, authenticates and encrypts the
payload with AES-256-GCM, and smart-compresses with zstd before sealing.`,
		Version:       fmt.Sprintf("%s (built: %s, commit: %s)", version, buildTime, gitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newEncryptCommand())
	rootCmd.AddCommand(newDecryptCommand())

	return rootCmd
}

// readPassword returns the password from -p/--password if set, else from
// RESQRYPT_PASSWORD, else prompts interactively on the terminal.
func readPassword(flagValue, prompt string) ([]byte, error) {
	if flagValue != "" {
		return []byte(flagValue), nil
	}
	if fromEnv := os.Getenv(passwordEnvVar); fromEnv != "" {
		return []byte(fromEnv), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("password cannot be empty")
	}
	return password, nil
}