// Command jsondict decodes a JSON object into a small vecmap and reports how
// it was stored: which strings were borrowed from the input, whether the map
// outgrew its inline slots, and its content digest.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jrhy/vecmap"
	plog "github.com/phuslu/log"
	"github.com/spf13/cobra"
)

const defaultData = `{"owo": "uwu", "one": "two"}`

type options struct {
	data    string
	file    string
	copy    bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "jsondict",
		Short: "Decode a JSON object of strings into a vecmap",
		Long: `jsondict decodes a JSON object whose values are strings into a map with
two inline slots and prints the result in key order.

Strings without escape sequences are borrowed from the input unless --copy
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cmd.InOrStdin(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&opts.data, "data", "d", defaultData, "JSON object to decode")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the JSON object from a file instead, - for stdin")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy strings instead of borrowing them")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every entry")
	return cmd
}

func run(w io.Writer, stdin io.Reader, opts options) error {
	log := plog.Logger{
		Level:      plog.InfoLevel,
		TimeField:  "time",
		TimeFormat: "15:04:05",
		Writer:     &plog.IOWriter{Writer: os.Stderr},
	}
	if opts.verbose {
		log.Level = plog.DebugLevel
	}

	data := []byte(opts.data)
	switch opts.file {
	case "":
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		data = b
	default:
		b, err := os.ReadFile(opts.file)
		if err != nil {
			return err
		}
		data = b
	}

	d := vecmap.Delegate[vecmap.Str, vecmap.Str, vecmap.Inline2]{
		Keys:   vecmap.BorrowStr{},
		Values: vecmap.BorrowStr{},
	}
	if opts.copy {
		d.Keys, d.Values = vecmap.CopyStr{}, vecmap.CopyStr{}
	}
	m, err := d.DecodeBytes(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	m.Range(func(k, v vecmap.Str) bool {
		log.Debug().
			Str("key", k.String()).
			Bool("key_borrowed", k.IsBorrowed()).
			Str("value", v.String()).
			Bool("value_borrowed", v.IsBorrowed()).
			Msg("entry")
		return true
	})
	digest, err := m.DigestString()
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	log.Info().
		Int("len", m.Len()).
		Bool("spilled", m.Spilled()).
		Str("digest", digest).
		Msg("decoded")

	_, err = fmt.Fprintln(w, m)
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
