package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// mcpServerName is the key the server is registered under in agent configs.
const mcpServerName = "importsorter"

// agent describes how one MCP client is detected and configured.
type agent struct {
	ID   string
	Name string

	// Binary is set for agents configured via "<binary> mcp add".
	Binary string

	// Markers are directories whose presence reveals a file configured agent.
	Markers    []string
	ConfigPath func() string
	ServersKey string
	Extra      map[string]string
}

func (ag agent) usesCLI() bool { return ag.Binary != "" }

// foundAgent is an agent present on this machine.
type foundAgent struct {
	agent
	ConfigFile string
	Registered bool
}

// Replaceable in tests.
var (
	lookPath = exec.LookPath
	statPath = os.Stat
)

var knownAgents = []agent{
	{ID: "claude_code", Name: "Claude Code", Binary: "claude"},
	{ID: "codex", Name: "OpenAI Codex", Binary: "codex"},
	{
		ID: "vscode", Name: "VS Code",
		Markers:    []string{".vscode"},
		ConfigPath: func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey: "servers",
		Extra:      map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", Name: "Cursor",
		Markers:    []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{ID: "claude_desktop", Name: "Claude Desktop", ConfigPath: desktopConfigPath, ServersKey: "mcpServers"},
}

func desktopConfigPath() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// findAgents returns the known agents present on this machine.
func findAgents() []foundAgent {
	var found []foundAgent
	for _, ag := range knownAgents {
		if ag.usesCLI() {
			if _, err := lookPath(ag.Binary); err == nil {
				found = append(found, foundAgent{agent: ag, Registered: registeredIn(".mcp.json", "mcpServers")})
			}
			continue
		}

		present := false
		for _, marker := range ag.Markers {
			if _, err := statPath(marker); err == nil {
				present = true
				break
			}
		}
		configFile := ag.ConfigPath()
		if len(ag.Markers) == 0 {
			// user level agents are present when their config directory is
			if _, err := statPath(filepath.Dir(configFile)); err == nil {
				present = true
			}
		}
		if present {
			found = append(found, foundAgent{agent: ag, ConfigFile: configFile, Registered: registeredIn(configFile, ag.ServersKey)})
		}
	}
	return found
}

// registeredIn reports whether the JSON file at path already lists the server.
func registeredIn(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	servers, _ := doc[serversKey].(map[string]any)
	_, ok := servers[mcpServerName]
	return ok
}

func serverEntry(extra map[string]string) map[string]any {
	entry := map[string]any{
		"command": mcpServerName,
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// addServerEntry returns existing with the server added under serversKey.
// added is false when it was already there.
func addServerEntry(existing []byte, serversKey string, extra map[string]string) (out []byte, added bool, err error) {
	doc := make(map[string]any)
	if len(strings.TrimSpace(string(existing))) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, false, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := doc[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[mcpServerName]; exists {
		return existing, false, nil
	}
	servers[mcpServerName] = serverEntry(extra)
	doc[serversKey] = servers

	out, err = json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, false, err
	}
	return append(out, '\n'), true, nil
}

func registerWithCLI(ag agent, scope string, stdout, stderr io.Writer) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, mcpServerName, "--", mcpServerName, "serve")

	cmd := exec.Command(ag.Binary, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

func registerInFile(ag agent, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	out, added, err := addServerEntry(existing, ag.ServersKey, ag.Extra)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !added {
		return nil
	}
	return os.WriteFile(path, out, 0o644)
}

// confirm asks a yes/no question; an empty answer or EOF means yes.
func confirm(r *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [Y/n] ", question)
	if !r.Scan() {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(r.Text())) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// chooseScope returns "project", "user", or "" to skip.
func chooseScope(r *bufio.Scanner, w io.Writer, agentName string) string {
	fmt.Fprintf(w, "\n%s: register the importsorter MCP server?\n", agentName)
	fmt.Fprintln(w, "  [1] project scope")
	fmt.Fprintln(w, "  [2] user scope")
	fmt.Fprintln(w, "  [3] skip")
	fmt.Fprint(w, "  > ")
	if !r.Scan() {
		return "project"
	}
	switch strings.TrimSpace(r.Text()) {
	case "", "1":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

func runSetup(in io.Reader, out, errOut io.Writer, yes bool) {
	found := findAgents()
	if len(found) == 0 {
		fmt.Fprintln(out, "No supported MCP clients found.")
		return
	}

	fmt.Fprintln(out, "MCP clients found:")
	for _, f := range found {
		suffix := ""
		if f.Registered {
			suffix = " (already registered)"
		}
		fmt.Fprintf(out, "  * %s%s\n", f.Name, suffix)
	}

	answers := bufio.NewScanner(in)
	if !yes && !confirm(answers, out, "\nRegister importsorter with them?") {
		return
	}

	for _, f := range found {
		if f.Registered {
			continue
		}
		if err := setupOne(answers, out, errOut, f, yes); err != nil {
			fmt.Fprintf(out, "  ! %s: %v\n", f.Name, err)
		}
	}
}

func setupOne(answers *bufio.Scanner, out, errOut io.Writer, f foundAgent, yes bool) error {
	if f.usesCLI() {
		scope := "project"
		if !yes {
			if scope = chooseScope(answers, out, f.Name); scope == "" {
				fmt.Fprintln(out, "  skipped")
				return nil
			}
		}
		if err := registerWithCLI(f.agent, scope, out, errOut); err != nil {
			return err
		}
		fmt.Fprintf(out, "  + %s registered (%s scope)\n", f.Name, scope)
		return nil
	}

	if !yes && !confirm(answers, out, fmt.Sprintf("\n%s: add to %s?", f.Name, f.ConfigFile)) {
		fmt.Fprintln(out, "  skipped")
		return nil
	}
	if err := registerInFile(f.agent, f.ConfigFile); err != nil {
		return err
	}
	fmt.Fprintf(out, "  + %s registered (%s)\n", f.Name, f.ConfigFile)
	return nil
}

func newSetupCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with installed AI coding agents",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			runSetup(a.stdin, a.stdout, a.stderr, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Register with every client found without asking")
	return cmd
}
