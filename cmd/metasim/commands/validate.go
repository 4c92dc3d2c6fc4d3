package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"metasim/internal/model"
)

var validateModelPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a model document's wire schema and structural invariants without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(validateModelPath)
		if err != nil {
			return fmt.Errorf("reading model file: %w", err)
		}
		m, err := model.ParseAndMap(data)
		if err != nil {
			return err
		}
		fmt.Printf("OK: Nn=%d Nc=%d Nt=%d Nd=%d Nld=%d tlen=%d events=%d\n",
			m.Nn, m.Nc, m.Nt, m.Nd, m.Nld, m.Tlen(), m.Events.Len())
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateModelPath, "model", "m", "", "path to the model JSON document (required)")
	validateCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(validateCmd)
}
