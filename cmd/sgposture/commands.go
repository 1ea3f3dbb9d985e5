package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pankaj-dahiya-devops/sg-posture/internal/input"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/logging"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/message"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/models"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/output"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/policy"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/posture"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/rules"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/template"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/version"
)

const (
	envPrefix       = "SGPOSTURE"
	settingsName    = ".sgposture"
	usageMessage    = "Missing arguments. Expected <security_level> <file_name>."
	defaultLogLevel = "warn"
)

// execute runs the CLI and returns the process exit code. Any error is
// reported as a single Error: line on errOut.
func execute(args []string, in io.Reader, out, errOut io.Writer) int {
	message.SetOutput(errOut)
	message.SetNoColor(!logging.IsTerminal(errOut))

	// cobra falls back to os.Args for a nil slice.
	if args == nil {
		args = []string{}
	}

	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.Execute(); err != nil {
		message.Error("%s", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	root := &cobra.Command{
		Use:   "sgposture <security_level> <file_name>",
		Short: "Rewrite CloudFormation security group ingress rules to a security level",
		Long: `sgposture reads a CloudFormation template from stdin, terminated by a line
containing ---END-YAML---, followed by a JSON rules document, and writes the
template to stdout with its AWS::EC2::SecurityGroupIngress resources rewritten
for the requested security level.

  low     every configured security group is opened to all traffic
  medium  each rule is added open to 0.0.0.0/0
  high    each rule is added restricted to its source CIDR

The rules document is not read at the low level.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return posture.Usagef(usageMessage)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			return runPosture(cmd, v, args[0], args[1])
		},
	}

	flags := root.Flags()
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default is $HOME/.sgposture.yaml)")
	flags.String("policy", "", "posture policy file (YAML)")
	flags.StringSlice("component", nil, "security group opened by the low level (repeatable; replaces the policy list)")
	flags.String("reference-style", "", "GroupId reference matching: text or structural (default text)")
	flags.Int("indent", 0, "spaces per indentation level in the output (default 2)")
	flags.String("log-level", defaultLogLevel, "log level on stderr: debug, info, warn or error")
	flags.Bool("no-color", false, "disable coloured diagnostics")
	flags.Bool("summary", false, "print a table of changed resources to stderr")

	for _, name := range []string{"policy", "component", "reference-style", "indent", "log-level", "no-color", "summary"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), version.Info())
			return err
		},
	}
}

// initConfig reads the settings file and SGPOSTURE_* environment variables.
// An explicit --config file must exist; the default one is optional.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read settings %s: %w", cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.SetConfigFile(filepath.Join(home, settingsName+".yaml"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}
	return nil
}

// resolvePolicy loads the policy file, if any, and layers the command-line
// overrides on top.
func resolvePolicy(v *viper.Viper) (*policy.PolicyConfig, error) {
	cfg := policy.Default()
	if path := v.GetString("policy"); path != "" {
		loaded, err := policy.LoadPolicy(path)
		if err != nil {
			return nil, fmt.Errorf("load policy %s: %w", path, err)
		}
		cfg = loaded
	}

	cfg = policy.ApplyOverrides(cfg, policy.Overrides{
		LowComponents:  v.GetStringSlice("component"),
		ReferenceStyle: v.GetString("reference-style"),
		Indent:         v.GetInt("indent"),
	})

	if errs := policy.Validate(cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return nil, fmt.Errorf("invalid policy: %s", strings.Join(msgs, "; "))
	}
	return cfg, nil
}

// runPosture reads the template and, above the low level, the rules from
// stdin, applies the level and writes the template to stdout. Nothing reaches
// stdout unless every step succeeds.
func runPosture(cmd *cobra.Command, v *viper.Viper, level, fileName string) error {
	stderr := cmd.ErrOrStderr()
	noColor := v.GetBool("no-color") || !logging.IsTerminal(stderr)
	message.SetNoColor(noColor)

	logLevel, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return posture.Usagef("%v", err)
	}
	logger := logging.New(stderr, logging.Options{Level: logLevel, NoColor: noColor})

	cfg, err := resolvePolicy(v)
	if err != nil {
		return err
	}
	refs, err := posture.ParseReferenceStyle(cfg.ReferenceStyle)
	if err != nil {
		return err
	}
	logger.Info("processing template",
		"file", fileName,
		"level", level,
		"reference_style", refs.String(),
		"low_components", cfg.LowComponents,
	)

	r := input.NewReader(cmd.InOrStdin())
	data, err := r.ReadTemplate()
	if err != nil {
		return posture.InputFormat("", err)
	}
	store, err := template.Load(data)
	if err != nil {
		return posture.InputFormat("parse template", err)
	}
	logger.Debug("template loaded", "resources", store.Len())

	var ruleList []models.Rule
	if models.SecurityLevel(level).ReadsRules() {
		rs, err := r.ReadRules()
		if err != nil {
			return posture.InputFormat("", err)
		}
		ruleList = rs.Rules
		logger.Debug("rules loaded", "count", len(ruleList))
	}

	engine := posture.NewEngine(posture.Options{
		LowComponents: cfg.LowComponents,
		References:    refs,
		Logger:        logger,
	})
	changes, err := engine.Run(store, level, ruleList)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := store.Save(&buf, template.FormatOptions{Indent: cfg.Format.Indent}); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	exposures := rules.OpenAdminAccess(changes)
	for _, e := range exposures {
		logger.Info("security group open to remote admin access",
			"component", e.Component, "key", e.Key, "port", e.Port, "cidr", e.CIDR)
	}

	if v.GetBool("summary") {
		opts := output.TableOptions{Colored: !noColor, Level: level}
		output.RenderChanges(stderr, changes, opts)
		output.RenderExposures(stderr, exposures, opts)
	}
	logger.Info("template written", "changes", len(changes))
	return nil
}
