package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/hireability/internal/analysis"
	"github.com/spigell/hireability/internal/enrichment"
	"github.com/spigell/hireability/internal/logger"
	"github.com/spigell/hireability/internal/scoring"
	"go.uber.org/zap"
)

var difficultyPrompt = promptui.Select{
	Label: "Market difficulty",
	Items: []string{string(scoring.DifficultyNormal), string(scoring.DifficultyLow), string(scoring.DifficultyHigh)},
}

var strictnessPrompt = promptui.Select{
	Label: "Role fit strictness",
	Items: []string{string(enrichment.StrictnessNormal), string(enrichment.StrictnessLenient), string(enrichment.StrictnessStrict)},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <login>",
	Short: "Analyze a GitHub account and print the JSON report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("difficulty", "", "market difficulty: low, normal or high")
	analyzeCmd.Flags().String("strictness", "", "role fit strictness: lenient, normal or strict")
	analyzeCmd.Flags().StringSliceP("kind", "k", nil, "enrichment kinds to request (default swot,profileAudit)")
	analyzeCmd.Flags().StringP("repo", "r", "", "repository to audit, required for the repoAudit kind")
	analyzeCmd.Flags().String("resume-file", "", "plain text resume, required for the resumeComparison kind")
	analyzeCmd.Flags().String("company", "", "company for the roleFit kind")
	analyzeCmd.Flags().String("role", "", "job role, required for the roleFit kind")
	analyzeCmd.Flags().String("experience", "", "expected experience for the roleFit kind")
	analyzeCmd.Flags().String("stack", "", "tech stack for the roleFit kind")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "choose difficulty and strictness interactively")
}

func analyze(cmd *cobra.Command, login string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout carries the report.
	logger, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug"), Output: "stderr"})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	req, err := requestFromFlags(cmd, login)
	if err != nil {
		logger.Fatal("reading flags", zap.Error(err))
	}

	p, err := newPipeline(ctx, config, logger, nil)
	if err != nil {
		logger.Fatal("preparing the analysis pipeline", zap.Error(err))
	}

	out, err := p.service.Analyze(ctx, req)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		logger.Fatal("writing the report", zap.Error(err))
	}
}

func requestFromFlags(cmd *cobra.Command, login string) (analysis.Request, error) {
	flags := cmd.Flags()

	req := analysis.Request{Login: login}
	req.Difficulty, _ = flags.GetString("difficulty")
	req.Strictness, _ = flags.GetString("strictness")
	req.Kinds, _ = flags.GetStringSlice("kind")
	req.RepoName, _ = flags.GetString("repo")
	req.Job.Company, _ = flags.GetString("company")
	req.Job.Role, _ = flags.GetString("role")
	req.Job.Experience, _ = flags.GetString("experience")
	req.Job.Stack, _ = flags.GetString("stack")

	if path, _ := flags.GetString("resume-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return analysis.Request{}, fmt.Errorf("reading resume file: %w", err)
		}
		req.ResumeText = string(data)
	}

	if interactive, _ := flags.GetBool("interactive"); interactive {
		var err error
		if _, req.Difficulty, err = difficultyPrompt.Run(); err != nil {
			return analysis.Request{}, err
		}
		if _, req.Strictness, err = strictnessPrompt.Run(); err != nil {
			return analysis.Request{}, err
		}
	}

	return req, nil
}
