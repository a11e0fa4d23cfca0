package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"envrepo/internal/environment"
	pkgstrings "envrepo/pkg/strings"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

var (
	listOutputFormat string
	listQuiet        bool
)

// listCmd fetches once and prints the reconciled environments.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch the environment source once and list the environments",
	Long: `Runs a single refresh against the configured source and prints the
resulting environments.

Output formats:
  table - Human-readable table (default)
  json  - One JSON array of environments`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// listEntry is the JSON shape of one listed environment.
type listEntry struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	State        string            `json:"state"`
	Description  string            `json:"description,omitempty"`
	Host         string            `json:"host,omitempty"`
	Port         int               `json:"port,omitempty"`
	Username     string            `json:"username,omitempty"`
	ProductCodes []string          `json:"productCodes,omitempty"`
	ProjectPaths []string          `json:"projectPaths,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
}

func newListEntry(snap environment.Snapshot) listEntry {
	return listEntry{
		ID:           snap.ID,
		Name:         snap.Config.Name,
		State:        snap.State.String(),
		Description:  snap.Description.String(),
		Host:         snap.Config.Host,
		Port:         snap.Config.Port,
		Username:     snap.Config.Username,
		ProductCodes: snap.Config.ProductCodes,
		ProjectPaths: snap.Config.ProjectPaths,
		Tags:         snap.Config.Tags,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	if listOutputFormat != outputTable && listOutputFormat != outputJSON {
		return fmt.Errorf("unsupported output format %q (use %s or %s)", listOutputFormat, outputTable, outputJSON)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := newRepository(cfg, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var s *spinner.Spinner
	if !listQuiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = " Fetching environments..."
		s.Start()
	}

	st, err := repo.Refresh(ctx)

	if s != nil {
		s.Stop()
	}
	if err != nil {
		return fmt.Errorf("failed to fetch environments: %w", err)
	}

	snaps := make([]environment.Snapshot, len(st.Environments))
	for i, env := range st.Environments {
		snaps[i] = env.Snapshot()
	}
	return renderEnvironments(cmd.OutOrStdout(), snaps, listOutputFormat)
}

// renderEnvironments writes snaps to w in the given format.
func renderEnvironments(w io.Writer, snaps []environment.Snapshot, format string) error {
	if format == outputJSON {
		entries := make([]listEntry, len(snaps))
		for i, snap := range snaps {
			entries[i] = newListEntry(snap)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(snaps) == 0 {
		_, err := fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("📋"), text.FgYellow.Sprint("No environments found"))
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("ID"),
		text.FgHiCyan.Sprint("NAME"),
		text.FgHiCyan.Sprint("STATE"),
		text.FgHiCyan.Sprint("ADDRESS"),
		text.FgHiCyan.Sprint("IDES"),
		text.FgHiCyan.Sprint("PROJECTS"),
		text.FgHiCyan.Sprint("DESCRIPTION"),
	})

	for _, snap := range snaps {
		t.AppendRow(table.Row{
			snap.ID,
			snap.Config.Name,
			colorState(snap.State),
			address(snap.Config),
			strings.Join(snap.Config.ProductCodes, ", "),
			len(snap.Config.ProjectPaths),
			pkgstrings.TruncateDescription(snap.Description.String(), pkgstrings.DefaultDescriptionMaxLen),
		})
	}

	t.Render()
	_, err := fmt.Fprintf(w, "%s %s %s\n",
		text.FgHiBlue.Sprint("Total:"),
		text.FgHiWhite.Sprint(len(snaps)),
		text.FgHiBlue.Sprint("environments"))
	return err
}

func colorState(s environment.RuntimeState) string {
	switch s {
	case environment.StateActive:
		return text.FgGreen.Sprint(s.String())
	case environment.StateError, environment.StateDisconnected:
		return text.FgRed.Sprint(s.String())
	case environment.StateConnecting:
		return text.FgYellow.Sprint(s.String())
	default:
		return s.String()
	}
}

func address(cfg environment.Config) string {
	if cfg.Host == "" {
		return "-"
	}
	addr := cfg.Host + ":" + strconv.Itoa(cfg.SSHPort())
	if cfg.Username != "" {
		addr = cfg.Username + "@" + addr
	}
	return addr
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", outputTable, "Output format (table, json)")
	listCmd.Flags().BoolVarP(&listQuiet, "quiet", "q", false, "Suppress the progress spinner")
}
