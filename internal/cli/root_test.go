package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/danieljhkim/pod/internal/config"
)

// execute runs the root command against root with MODE set to mode.
func execute(t *testing.T, root, mode string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvRoot, root)
	t.Setenv(config.EnvMode, mode)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between executions of the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestRootCommand_Help(t *testing.T) {
	output, err := execute(t, t.TempDir(), "", "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(output, "pod") {
		t.Error("expected help to contain 'pod'")
	}
	if !strings.Contains(output, "MODE=COMMIT") {
		t.Error("expected help to describe MODE dispatch")
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("dev")

	output, err := execute(t, t.TempDir(), "", "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(output, "1.2.3") {
		t.Errorf("expected version output to contain version, got %q", output)
	}
}

func TestRootCommand_HelpGroups(t *testing.T) {
	output, err := execute(t, t.TempDir(), "", "help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"Recording History:", "Inspecting History:", "CLI & Tooling:", "export", "version"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
	if strings.Contains(output, "completion") {
		t.Error("expected no completion command in help")
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("4.5.6")
	defer SetVersion("dev")

	output, err := execute(t, t.TempDir(), "", "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(output) != "4.5.6" {
		t.Errorf("version = %q, want %q", output, "4.5.6")
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	if _, err := execute(t, t.TempDir(), "", "invalid-command"); err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestRootCommand_Mode(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		wantErr error
	}{
		{"unset", "", config.ErrUnknownMode},
		{"unknown", "PUSH", config.ErrUnknownMode},
		{"lowercase", "init", config.ErrUnknownMode},
		{"init", "INIT", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, t.TempDir(), tt.mode)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Execute() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"normal version", "1.2.3"},
		{"empty version", ""}, // Should not change if empty
		{"dev version", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := rootCmd.Version
			SetVersion(tt.version)
			want := tt.version
			if want == "" {
				want = before
			}
			if rootCmd.Version != want {
				t.Errorf("SetVersion(%q) = %q, want %q", tt.version, rootCmd.Version, want)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	subcommands := []string{"init", "commit", "status", "log", "verify", "export", "version"}

	for _, name := range subcommands {
		t.Run(name, func(t *testing.T) {
			found := false
			for _, c := range rootCmd.Commands() {
				if c.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected subcommand %q to be registered", name)
			}
		})
	}
}
