package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/macrofuel/macrofuel-api/internal/model"
)

var planProfilePath string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate workout or diet plans for a user profile",
}

var planWorkoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Generate a multi-week workout plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := loadProfile(planProfilePath)
		if err != nil {
			return err
		}

		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		plan, err := env.Pipeline.GenerateWorkoutPlan(cmd.Context(), profile)
		if err != nil {
			return err
		}
		return printJSON(plan)
	},
}

var planDietCmd = &cobra.Command{
	Use:   "diet",
	Short: "Generate a multi-week diet plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := loadProfile(planProfilePath)
		if err != nil {
			return err
		}

		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		plan, err := env.Pipeline.GenerateDietPlan(cmd.Context(), profile)
		if err != nil {
			return err
		}
		return printJSON(plan)
	},
}

func init() {
	planCmd.PersistentFlags().StringVar(&planProfilePath, "profile", "", "path to a JSON user profile (required)")
	_ = planCmd.MarkPersistentFlagRequired("profile")
	planCmd.AddCommand(planWorkoutCmd, planDietCmd)
	rootCmd.AddCommand(planCmd)
}

func loadProfile(path string) (model.UserProfile, error) {
	var profile model.UserProfile
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, err
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, eris.Wrap(err, "parse profile")
	}
	return profile, nil
}
