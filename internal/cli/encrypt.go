package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CXPhoenix/ResQrypt/internal/container"
	"github.com/CXPhoenix/ResQrypt/internal/crypto"
	"github.com/CXPhoenix/ResQrypt/internal/pipeline"
)

type encryptFlags struct {
	input       string
	output      string
	password    string
	memory      uint32
	iterations  uint32
	parallelism uint32
	verbose     bool
}

func newEncryptCommand() *cobra.Command {
	flags := &encryptFlags{}

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file or directory",
		Long: `Encrypt derives a key from a password with Argon2id, smart-compresses
the payload with zstd, and seals it with AES-256-GCM into a single
self-describing container file.`,
		Example: `  resqrypt encrypt -i report.pdf -o report.pdf.resqrypt
  resqrypt encrypt -i ./project -o project.resqrypt --argon2-memory 128
  RESQRYPT_PASSWORD=secret resqrypt encrypt -i notes.txt -o notes.resqrypt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncrypt(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Path to the file or directory to encrypt (required)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Path for the encrypted container (required)")
	cmd.Flags().StringVarP(&flags.password, "password", "p", "", "Password (prefer RESQRYPT_PASSWORD to avoid shell history)")
	cmd.Flags().Uint32Var(&flags.memory, "argon2-memory", container.DefaultKdfParams.MemoryMiB, "Argon2id memory cost in MiB")
	cmd.Flags().Uint32Var(&flags.iterations, "argon2-iterations", container.DefaultKdfParams.Iterations, "Argon2id iteration count")
	cmd.Flags().Uint32Var(&flags.parallelism, "argon2-parallelism", container.DefaultKdfParams.Parallelism, "Argon2id parallelism")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Print pipeline stage progress to stderr")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runEncrypt(flags *encryptFlags) error {
	password, err := readPassword(flags.password, "Enter password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	kdfParams := container.KdfParams{
		MemoryMiB:   flags.memory,
		Iterations:  flags.iterations,
		Parallelism: flags.parallelism,
	}

	var sink pipeline.Sink
	if flags.verbose {
		sink = func(stage string) { fmt.Fprintln(os.Stderr, verbose(stage)) }
	}

	result, err := pipeline.Encrypt(pipeline.EncryptRequest{
		InputPath:  flags.input,
		OutputPath: flags.output,
		Password:   pipeline.StaticPassword(password),
		KdfParams:  &kdfParams,
		Verbose:    sink,
	})
	if err != nil {
		return err
	}

	absPath, _ := filepath.Abs(flags.output)
	fmt.Println(success(fmt.Sprintf("encrypted %s -> %s", flags.input, absPath)))
	fmt.Printf("  %d bytes in, %d bytes out", result.InputSize, result.OutputSize)
	if result.Compressed {
		fmt.Printf(" (compressed)")
	}
	if result.Archive {
		fmt.Printf(" (archive)")
	}
	fmt.Println()

	return nil
}
