package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

var (
	aiConfigName  string
	aiConfigDesc  string
	aiProvider    string
	aiAgentType   string
	aiModelName   string
	aiAPIKey      string
	aiTemperature float64
	aiMaxTokens   int

	aiConfigID string
	aiPrompt   string
	aiBlockID  string
	aiPathID   string
	aiWait     bool

	metricsAddr string
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Drive AI content agents (needs use_ai_agents)",
}

var aiConfigsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Manage agent configurations",
}

var aiConfigsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agent configurations",
	RunE:  runAIConfigsList,
}

var aiConfigsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register an agent configuration",
	RunE:  runAIConfigsCreate,
}

var aiConfigsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an agent configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIConfigsDelete,
}

var aiSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a content generation job",
	Long: `Submit a content generation job. The backend accepts it immediately and
runs it in the background; poll with "nttl ai job <id>", block on it with
"nttl ai wait <id>", or pass --wait here.`,
	RunE: runAISubmit,
}

var aiJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List submitted jobs",
	RunE:  runAIJobs,
}

var aiJobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Show one job",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIJob,
}

var aiCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a job that has not finished",
	Args:  cobra.ExactArgs(1),
	RunE:  runAICancel,
}

var aiWaitCmd = &cobra.Command{
	Use:   "wait <id>",
	Short: "Block until a job reaches a terminal state",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIWait,
}

var aiDraftsCmd = &cobra.Command{
	Use:   "drafts <job-id>",
	Short: "List the blocks a job drafted, pending review",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIDrafts,
}

var aiApproveCmd = &cobra.Command{
	Use:   "approve <job-id> <draft-id>",
	Short: "Approve a drafted block, publishing it",
	Args:  cobra.ExactArgs(2),
	RunE:  runAIApprove,
}

var aiRejectCmd = &cobra.Command{
	Use:   "reject <job-id> <draft-id>",
	Short: "Reject a drafted block",
	Args:  cobra.ExactArgs(2),
	RunE:  runAIReject,
}

var aiWatchCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Follow a job until it finishes, optionally exposing metrics",
	Long: `Follow a job until it finishes. With --metrics-addr a Prometheus
endpoint is served at /metrics for the duration, exposing request and
poll counters.`,
	Args: cobra.ExactArgs(1),
	RunE: runAIWatch,
}

func init() {
	aiConfigsCreateCmd.Flags().StringVar(&aiConfigName, "name", "", "Configuration name (required)")
	aiConfigsCreateCmd.Flags().StringVar(&aiConfigDesc, "description", "", "What this agent is for")
	aiConfigsCreateCmd.Flags().StringVar(&aiProvider, "provider", "openai", "Provider: openai, anthropic or custom")
	aiConfigsCreateCmd.Flags().StringVar(&aiAgentType, "agent", "content_creator", "Agent type")
	aiConfigsCreateCmd.Flags().StringVar(&aiModelName, "model", "", "Model name (required)")
	aiConfigsCreateCmd.Flags().StringVar(&aiAPIKey, "api-key", "", "Provider API key, stored server side (required)")
	aiConfigsCreateCmd.Flags().Float64Var(&aiTemperature, "temperature", 0.2, "Sampling temperature")
	aiConfigsCreateCmd.Flags().IntVar(&aiMaxTokens, "max-tokens", 2048, "Maximum tokens in the response")
	_ = aiConfigsCreateCmd.MarkFlagRequired("name")
	_ = aiConfigsCreateCmd.MarkFlagRequired("model")
	_ = aiConfigsCreateCmd.MarkFlagRequired("api-key")

	aiSubmitCmd.Flags().StringVar(&aiConfigID, "config", "", "Configuration id (required)")
	aiSubmitCmd.Flags().StringVar(&aiAgentType, "type", "content_creator", "Job type")
	aiSubmitCmd.Flags().StringVar(&aiPrompt, "prompt", "", "What to generate (required)")
	aiSubmitCmd.Flags().StringVar(&aiBlockID, "block", "", "Block to work on, for editor agents")
	aiSubmitCmd.Flags().StringVar(&aiPathID, "path", "", "Path to work on, for course design agents")
	aiSubmitCmd.Flags().BoolVar(&aiWait, "wait", false, "Block until the job finishes")
	_ = aiSubmitCmd.MarkFlagRequired("config")
	_ = aiSubmitCmd.MarkFlagRequired("prompt")

	aiJobsCmd.Flags().IntVar(&pageSkip, "skip", 0, "Entries to skip")
	aiJobsCmd.Flags().IntVar(&pageLimit, "limit", 0, "Page size (backend default when 0)")

	aiWatchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while watching")

	aiConfigsCmd.AddCommand(aiConfigsListCmd)
	aiConfigsCmd.AddCommand(aiConfigsCreateCmd)
	aiConfigsCmd.AddCommand(aiConfigsDeleteCmd)

	aiCmd.AddCommand(aiConfigsCmd)
	aiCmd.AddCommand(aiSubmitCmd)
	aiCmd.AddCommand(aiJobsCmd)
	aiCmd.AddCommand(aiJobCmd)
	aiCmd.AddCommand(aiCancelCmd)
	aiCmd.AddCommand(aiWaitCmd)
	aiCmd.AddCommand(aiDraftsCmd)
	aiCmd.AddCommand(aiApproveCmd)
	aiCmd.AddCommand(aiRejectCmd)
	aiCmd.AddCommand(aiWatchCmd)
}

func runAIConfigsList(cmd *cobra.Command, args []string) error {
	configs, err := agents.Configurations(cmd.Context())
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		fmt.Println("No configurations")
		return nil
	}
	for _, c := range configs {
		fmt.Printf("%s  %-10s %-18s %s (%s)\n", c.ID, c.Provider, c.AgentType, c.Name, c.ModelName)
	}
	return nil
}

func runAIConfigsCreate(cmd *cobra.Command, args []string) error {
	created, err := agents.Configure(cmd.Context(), ports.CreateAIConfigInput{
		Name:        aiConfigName,
		Description: aiConfigDesc,
		Provider:    domain.AIProvider(aiProvider),
		AgentType:   domain.AIAgentType(aiAgentType),
		ModelName:   aiModelName,
		APIKey:      aiAPIKey,
		Temperature: aiTemperature,
		MaxTokens:   aiMaxTokens,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created configuration %s\n", created.ID)
	return nil
}

func runAIConfigsDelete(cmd *cobra.Command, args []string) error {
	if err := agents.RemoveConfiguration(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted configuration %s\n", args[0])
	return nil
}

func runAISubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	job, err := agents.Submit(ctx, ports.SubmitAIJobInput{
		ConfigurationID: aiConfigID,
		JobType:         domain.AIAgentType(aiAgentType),
		Prompt:          aiPrompt,
		BlockID:         aiBlockID,
		PathID:          aiPathID,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Submitted job %s\n", job.ID)

	if !aiWait {
		return nil
	}
	job, err = agents.AwaitJob(ctx, job.ID)
	if err != nil {
		return err
	}
	printJob(job)
	return nil
}

func runAIJobs(cmd *cobra.Command, args []string) error {
	jobs, err := agents.Jobs(cmd.Context(), pageSkip, pageLimit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs")
		return nil
	}
	for _, j := range jobs {
		fmt.Printf("%s  %-9s  %-18s  %s\n", j.ID, j.Status, j.JobType, j.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runAIJob(cmd *cobra.Command, args []string) error {
	job, err := agents.Job(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printJob(job)
	return nil
}

func runAICancel(cmd *cobra.Command, args []string) error {
	job, err := agents.Cancel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Cancelled job %s\n", job.ID)
	return nil
}

func runAIWait(cmd *cobra.Command, args []string) error {
	return awaitAndReport(cmd.Context(), args[0])
}

func runAIDrafts(cmd *cobra.Command, args []string) error {
	if err := agents.LoadReview(cmd.Context(), args[0]); err != nil {
		return err
	}
	drafts := agents.Drafts()
	if len(drafts) == 0 {
		fmt.Println("No drafts pending review")
		return nil
	}
	for _, d := range drafts {
		fmt.Printf("%s  %.2f  %s\n", d.ID, d.ConfidenceScore, d.Title)
	}
	return nil
}

func runAIApprove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := agents.LoadReview(ctx, args[0]); err != nil {
		return err
	}
	if err := agents.ApproveDraft(ctx, args[1]); err != nil {
		return err
	}
	fmt.Printf("Approved draft %s, block published\n", args[1])
	return nil
}

func runAIReject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := agents.LoadReview(ctx, args[0]); err != nil {
		return err
	}
	if err := agents.RejectDraft(ctx, args[1]); err != nil {
		return err
	}
	fmt.Printf("Rejected draft %s\n", args[1])
	return nil
}

func runAIWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info().Str("addr", metricsAddr).Msg("serving metrics at /metrics")
	}

	return awaitAndReport(ctx, args[0])
}

func awaitAndReport(ctx context.Context, id string) error {
	job, err := agents.AwaitJob(ctx, id)
	if errors.Is(err, context.Canceled) {
		fmt.Println("Interrupted; the job keeps running server side")
		printJob(job)
		return nil
	}
	if err != nil {
		return err
	}
	printJob(job)
	return nil
}

func printJob(j domain.AIJob) {
	fmt.Printf("Job %s\n", j.ID)
	fmt.Printf("  status: %s\n", j.Status)
	fmt.Printf("  type:   %s\n", j.JobType)
	if j.StartedAt != nil && j.CompletedAt != nil {
		fmt.Printf("  took:   %s\n", j.CompletedAt.Sub(*j.StartedAt))
	}
	if j.ErrorMessage != "" {
		fmt.Printf("  error:  %s\n", j.ErrorMessage)
	}
	if j.Status == domain.AIJobCompleted {
		fmt.Printf("  review drafts with: nttl ai drafts %s\n", j.ID)
	}
}
