package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"insurance-workers/internal/models"
	"insurance-workers/internal/policy"
)

func recommendCmd() *cobra.Command {
	var (
		criteria   models.FilterCriteria
		category   string
		conditions []string
		slack      string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show the recommended policies for a set of wizard answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria.Category = models.Category(category)
			criteria.MedicalHistory = policy.NormalizeHistory(conditions)

			slackValue, err := decimal.NewFromString(slack)
			if err != nil {
				return fmt.Errorf("--slack: %w", err)
			}

			repo, err := loadCatalog()
			if err != nil {
				return err
			}
			policies, err := repo.ListPolicies(cmd.Context())
			if err != nil {
				return err
			}

			recs := policy.RecommendWith(policies, criteria, policy.Options{Limit: limit, BudgetSlack: slackValue})
			fmt.Fprint(cmd.OutOrStdout(), renderRecommendations(recs, policy.AppliedFilters(criteria)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Policy category (Individual, Family, Senior, Critical, Maternity)")
	cmd.Flags().StringVar(&criteria.AgeRange, "age", "", "Age range bucket (18-25, 26-35, 18-35, 36-50, 51-65, 65+)")
	cmd.Flags().StringVar(&criteria.Gender, "gender", "", "Gender (Male, Female, Other)")
	cmd.Flags().StringVar(&criteria.Budget, "budget", "", `Yearly premium budget, e.g. "₹20,000"`)
	cmd.Flags().StringSliceVar(&conditions, "condition", nil, "Medical history entry (repeatable)")
	cmd.Flags().StringVar(&slack, "slack", policy.DefaultBudgetSlack.String(), "Budget multiplier")
	cmd.Flags().IntVar(&limit, "limit", policy.MaxRecommendations, "Maximum number of recommendations")
	return cmd
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <policy> <policy> [policy] [policy]",
		Short: "Compare two to four policies feature by feature",
		Args:  cobra.RangeArgs(policy.MinComparePolicies, policy.MaxComparePolicies),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := policy.ValidateSelection(args); err != nil {
				return err
			}

			repo, err := loadCatalog()
			if err != nil {
				return err
			}
			data, err := repo.FeatureSets(cmd.Context(), args)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderComparison(policy.BuildComparison(args, data)))
			return nil
		},
	}
}

func featuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the comparison features and how the best value is picked",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), renderFeatures())
		},
	}
}
