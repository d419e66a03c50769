package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainward/devkit/internal/config"
	"github.com/chainward/devkit/internal/docker"
	"github.com/chainward/devkit/internal/history"
	"github.com/chainward/devkit/internal/pipeline"
)

var (
	secureDockerfile  string
	secureContext     string
	secureName        string
	secureRegistry    string
	secureBuildArgs   string
	securePolicies    []string
	secureK8sManifest string
	secureSigningKey  string
	securePush        bool
	secureJSON        bool
	secureNoLatest    bool
	secureChainguard  bool
)

var secureCmd = &cobra.Command{
	Use:   "secure",
	Short: "Run the complete secure delivery pipeline",
	Long: `Run the secure delivery pipeline: build, test, vulnerability scan,
SBOM generation, policy check, tag, sign and push.

Build, test and scan failures stop the pipeline. SBOM and signing
failures are warnings. A failed policy check is recorded and reflected
in the exit code but does not stop tagging, signing or pushing.

Examples:
  devkit secure --registry ghcr.io/org/app --push
  devkit secure --policy policies/pod-security.yml --k8s-manifest deploy.yml
  devkit secure --json`,
	RunE: runSecure,
}

func runSecure(cmd *cobra.Command, args []string) error {
	buildArgsMap, err := parseBuildArgs(secureBuildArgs)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	run := runner()

	if !docker.NewClient(run).Installed() {
		return docker.ErrEngineUnavailable
	}

	name := secureName
	if name == "" {
		name = docker.DefaultImageName()
	}

	p := pipeline.New(run, cfg)
	if secureJSON {
		// Status lines would corrupt the JSON document.
		p.Logf = func(string, ...any) {}
	} else {
		fmt.Println("🔒 Running secure delivery pipeline...")
	}

	started := time.Now()
	results := p.Run(pipeline.Request{
		Dockerfile:    secureDockerfile,
		Context:       secureContext,
		Name:          name,
		Registry:      secureRegistry,
		BuildArgs:     buildArgsMap,
		TestCmd:       nil,
		SBOMFormat:    cfg.SBOM.Format,
		PolicyFiles:   securePolicies,
		K8sManifest:   secureK8sManifest,
		SigningKey:    secureSigningKey,
		Push:          securePush,
		IncludeLatest: !secureNoLatest && cfg.Image.IncludeLatest,
		Chainguard:    secureChainguard || cfg.Image.ChainguardTags,
	})
	finished := time.Now()

	recordRun(cfg, name, results, started, finished)

	if secureJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	}

	if code := results.ExitCode(); code != 0 {
		os.Exit(code)
	}

	if !secureJSON {
		fmt.Println("✅ Secure delivery pipeline completed!")
	}
	return nil
}

// recordRun saves the pipeline run to the local history database. Any
// failure here degrades to a warning; history must never block delivery.
func recordRun(cfg *config.Config, image string, results *pipeline.Results, started, finished time.Time) {
	if cfg.History.Disabled {
		return
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		VerbosePrintf("⚠️  Run history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	status := "success"
	if results.ExitCode() != 0 {
		status = "failed"
	}

	run := history.Run{
		ID:         history.NewRunID(),
		Image:      image,
		Status:     status,
		StartedAt:  started,
		FinishedAt: finished,
		Duration:   finished.Sub(started),
	}
	for position, stage := range results.Stages() {
		res, _ := results.Get(stage)
		run.Stages = append(run.Stages, history.StageRecord{
			Name:     stage,
			Success:  res.Success,
			Output:   history.StageOutput(res.Output),
			Position: position,
		})
	}

	if err := store.SaveRun(run); err != nil {
		VerbosePrintf("⚠️  Failed to record run: %v\n", err)
	}
}

func init() {
	secureCmd.Flags().StringVar(&secureDockerfile, "dockerfile", "Dockerfile", "Path to Dockerfile")
	secureCmd.Flags().StringVar(&secureContext, "context", ".", "Path to build context")
	secureCmd.Flags().StringVar(&secureName, "name", "", "Name for the image (default: <directory>:<version>)")
	secureCmd.Flags().StringVar(&secureRegistry, "registry", "", "Container registry path (e.g. ghcr.io/org/app)")
	secureCmd.Flags().StringVar(&secureBuildArgs, "build-args", "", "Build arguments (key=value,key2=value2)")
	secureCmd.Flags().StringArrayVarP(&securePolicies, "policy", "p", nil, "Path(s) to Kyverno policy file(s)")
	secureCmd.Flags().StringVar(&secureK8sManifest, "k8s-manifest", "", "Path to Kubernetes manifest to check")
	secureCmd.Flags().StringVar(&secureSigningKey, "signing-key", "", "Path to the cosign signing key")
	secureCmd.Flags().BoolVar(&securePush, "push", false, "Push to the registry")
	secureCmd.Flags().BoolVar(&secureJSON, "json", false, "Output results as JSON")
	secureCmd.Flags().BoolVar(&secureNoLatest, "no-latest", false, "Don't include the latest tag")
	secureCmd.Flags().BoolVar(&secureChainguard, "chainguard", false, "Include Chainguard-specific tags")
	rootCmd.AddCommand(secureCmd)
}
