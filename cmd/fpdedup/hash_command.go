package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fpdedup/internal/fingerprint"
)

type hashEntry struct {
	File        string `json:"file"`
	Key         string `json:"key,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newHashCommand() *cobra.Command {
	var jsonOutput bool
	var verbose bool

	cmd := &cobra.Command{
		Use:         "hash FILE...",
		Short:       "Print the fingerprint key of each file",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := make([]hashEntry, 0, len(args))
			failed := 0
			for _, path := range args {
				entry := hashFile(path)
				if entry.Error != "" {
					failed++
				}
				entries = append(entries, entry)
			}

			if jsonOutput {
				if err := writeJSON(cmd, entries); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				errOut := cmd.ErrOrStderr()
				for _, entry := range entries {
					if entry.Error != "" {
						fmt.Fprintf(errOut, "%s: %s\n", entry.File, entry.Error)
						continue
					}
					fmt.Fprintf(out, "%s  %s\n", entry.Key, entry.File)
					if verbose {
						fmt.Fprintf(out, "  %s\n", entry.Fingerprint)
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) could not be hashed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the canonical fingerprint string")
	return cmd
}

func hashFile(path string) hashEntry {
	entry := hashEntry{File: path}
	data, err := os.ReadFile(path)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	rec, err := fingerprint.Parse(data)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	fp := fingerprint.Extract(rec)
	entry.Key = fp.Key()
	entry.Fingerprint = fp.String()
	return entry
}
