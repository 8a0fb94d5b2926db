package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var moderateContext string

var moderateCmd = &cobra.Command{
	Use:   "moderate",
	Short: "Run user content through the moderation check",
}

var moderateTextCmd = &cobra.Command{
	Use:   "text <content>",
	Short: "Moderate user-submitted text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		verdict, err := env.Pipeline.ModerateText(cmd.Context(), strings.Join(args, " "), moderateContext)
		if err != nil {
			return err
		}
		return printJSON(verdict)
	},
}

var moderatePhotoCmd = &cobra.Command{
	Use:   "photo <url>",
	Short: "Moderate a photo by public URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		verdict, err := env.Pipeline.ModeratePhotoURL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(verdict)
	},
}

func init() {
	moderateCmd.PersistentFlags().StringVar(&moderateContext, "context", "", "where the content appears (profile photo, post, comment)")
	moderateCmd.AddCommand(moderateTextCmd, moderatePhotoCmd)
	rootCmd.AddCommand(moderateCmd)
}
