package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/drone/drone-test-collector/internal/archive"
	"github.com/drone/drone-test-collector/internal/collector"
	"github.com/drone/drone-test-collector/internal/docker"
	"github.com/drone/drone-test-collector/internal/report"
)

// Args provides plugin execution arguments.
type Args struct {
	// Level defines the plugin log level.
	Level                      string `envconfig:"PLUGIN_LOG_LEVEL"`
	PluginLanguage             string `envconfig:"PLUGIN_LANGUAGE"`
	PluginContainer            string `envconfig:"PLUGIN_CONTAINER"`
	PluginInstanceID           string `envconfig:"PLUGIN_INSTANCE_ID"`
	PluginDockerBinary         string `envconfig:"PLUGIN_DOCKER_BINARY" default:"docker"`
	PluginOutputPath           string `envconfig:"PLUGIN_OUTPUT_PATH"`
	PluginFailIfNoResults      bool   `envconfig:"PLUGIN_FAIL_IF_NO_RESULTS"`
	PluginFailedTestsFailBuild bool   `envconfig:"PLUGIN_FAILED_TESTS_FAIL_BUILD"`
}

// Exec executes the plugin.
func Exec(ctx context.Context, args Args) error {
	if err := validateArgs(args); err != nil {
		logrus.WithError(err).Error("Invalid plugin arguments")
		return err
	}
	container := docker.NewContainer(args.PluginContainer, args.PluginDockerBinary)
	return run(ctx, args, container)
}

func run(ctx context.Context, args Args, container archive.Container) error {
	instanceID := args.PluginInstanceID
	if instanceID == "" {
		instanceID = args.PluginContainer
	}

	logger := logrus.
		WithField("PLUGIN_LANGUAGE", args.PluginLanguage).
		WithField("PLUGIN_CONTAINER", args.PluginContainer).
		WithField("PLUGIN_INSTANCE_ID", instanceID).
		WithField("PLUGIN_FAIL_IF_NO_RESULTS", args.PluginFailIfNoResults).
		WithField("PLUGIN_FAILED_TESTS_FAIL_BUILD", args.PluginFailedTestsFailBuild)

	logger.Info("Starting plugin execution")

	c, err := collector.New(args.PluginLanguage)
	if err != nil {
		logger.
			WithError(err).
			WithField("supported", strings.Join(collector.Languages(), ", ")).
			Error("No test result collector for language")
		return err
	}

	result, err := c.Collect(ctx, instanceID, container)
	if err != nil {
		logger.WithError(err).Error("Failed to collect test results")
		return errors.New("failed to collect test results")
	}

	sum := result.Summary()
	logger.
		WithField("total", sum.Total).
		WithField("passed", sum.Passed).
		WithField("failed", sum.Failed).
		WithField("errored", sum.Errored).
		WithField("skipped", sum.Skipped).
		WithField("duration", sum.Duration).
		Info("Collected test results")

	if sum.Total == 0 {
		if args.PluginFailIfNoResults {
			errMsg := "no test results found, failing the build as PLUGIN_FAIL_IF_NO_RESULTS is set to true"
			logger.Error(errMsg)
			return errors.New(errMsg)
		}
		logger.Warn("No test results found, but failing the build is not configured.")
	}

	for _, tc := range result.Cases {
		if tc.Outcome == report.Failed || tc.Outcome == report.Errored {
			logger.
				WithField("suite", tc.Suite).
				WithField("test", tc.Name).
				Warnf("Test %s: %s", tc.Outcome, tc.Message)
		}
	}

	if args.PluginOutputPath != "" {
		if err := writeReport(args.PluginOutputPath, result); err != nil {
			logger.WithError(err).Errorf("Failed to write normalized report to %s", args.PluginOutputPath)
			return errors.New("failed to write normalized report")
		}
		logger.Debugf("Successfully wrote normalized report to: %s", args.PluginOutputPath)
	}

	if result.Failed() && args.PluginFailedTestsFailBuild {
		errMsg := "tests failed, failing the build as PLUGIN_FAILED_TESTS_FAIL_BUILD is set to true"
		logger.Error(errMsg)
		return errors.New(errMsg)
	}

	logger.Info("Plugin execution completed successfully")
	return nil
}

// validateArgs checks the arguments that have no usable default.
func validateArgs(args Args) error {
	if strings.TrimSpace(args.PluginLanguage) == "" {
		return errors.New("Language should not be empty")
	}
	if err := docker.NewContainer(args.PluginContainer, "").Validate(); err != nil {
		return err
	}
	return nil
}

// writeReport writes the normalized result as JUnit XML.
func writeReport(path string, result *report.Result) error {
	out, err := report.Encode(result)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, out, 0644)
}
