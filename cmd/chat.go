package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatContext string

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the fitness coach a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		reply, err := env.Pipeline.Chat(cmd.Context(), strings.Join(args, " "), chatContext)
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatContext, "context", "", "user context to ground the answer (goals, recent meals)")
	rootCmd.AddCommand(chatCmd)
}
