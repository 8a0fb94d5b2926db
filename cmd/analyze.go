package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze food from text or a photo",
}

var analyzeTextCmd = &cobra.Command{
	Use:   "text <description>",
	Short: "Analyze a free-text meal description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		items, err := env.Pipeline.AnalyzeFoodText(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

var analyzePhotoCmd = &cobra.Command{
	Use:   "photo <path>",
	Short: "Analyze a meal photo from a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		items, err := env.Pipeline.AnalyzeFoodPhoto(cmd.Context(), data, http.DetectContentType(data))
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

func init() {
	analyzeCmd.AddCommand(analyzeTextCmd, analyzePhotoCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
