package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CXPhoenix/ResQrypt/internal/crypto"
	"github.com/CXPhoenix/ResQrypt/internal/pipeline"
)

type decryptFlags struct {
	input    string
	output   string
	password string
	verbose  bool
}

func newDecryptCommand() *cobra.Command {
	flags := &decryptFlags{}

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a container produced by encrypt",
		Long: `Decrypt reads a ResQrypt container, authenticates and decrypts it with
AES-256-GCM, reverses any zstd compression, and unpacks the tar archive
if the original input was a directory.`,
		Example: `  resqrypt decrypt -i report.pdf.resqrypt -o report.pdf
  resqrypt decrypt -i project.resqrypt -o ./restored
  RESQRYPT_PASSWORD=secret resqrypt decrypt -i notes.resqrypt -o notes.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecrypt(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Path to the encrypted container (required)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Path for the decrypted output (required)")
	cmd.Flags().StringVarP(&flags.password, "password", "p", "", "Password (prefer RESQRYPT_PASSWORD to avoid shell history)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Print pipeline stage progress to stderr")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runDecrypt(flags *decryptFlags) error {
	password, err := readPassword(flags.password, "Enter password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	var sink pipeline.Sink
	if flags.verbose {
		sink = func(stage string) { fmt.Fprintln(os.Stderr, verbose(stage)) }
	}

	result, err := pipeline.Decrypt(pipeline.DecryptRequest{
		InputPath:  flags.input,
		OutputPath: flags.output,
		Password:   pipeline.StaticPassword(password),
		Verbose:    sink,
	})
	if err != nil {
		return err
	}

	absPath, _ := filepath.Abs(flags.output)
	fmt.Println(success(fmt.Sprintf("decrypted %s -> %s", flags.input, absPath)))
	fmt.Printf("  %d bytes out", result.OutputSize)
	if result.Archive {
		fmt.Printf(" (directory restored)")
	}
	fmt.Println()

	return nil
}
