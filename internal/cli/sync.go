package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccarocean/copernicus-sync/internal/auth"
	"github.com/ccarocean/copernicus-sync/internal/config"
	"github.com/ccarocean/copernicus-sync/internal/dataset"
	"github.com/ccarocean/copernicus-sync/internal/remote"
	isync "github.com/ccarocean/copernicus-sync/internal/sync"
	"github.com/ccarocean/copernicus-sync/internal/sync/diff"
	"github.com/ccarocean/copernicus-sync/internal/sync/executor"
	"github.com/ccarocean/copernicus-sync/internal/sync/journal"
	"github.com/ccarocean/copernicus-sync/internal/utils"
)

var (
	syncUser     string
	syncPassword string
	syncDest     string
	syncDelay    int
	syncDryRun   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync <dataset>",
	Short: "Reconcile the local mirror with the remote archive",
	Long: `Reconcile the local destination tree with the remote archive for a
dataset. Missing dates are fetched, stale files are refreshed and files no
longer present remotely are deleted. Dates are processed in ascending order.

Datasets: nrt (near real time), dt (delayed time).`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

var planCmd = &cobra.Command{
	Use:   "plan <dataset>",
	Short: "Show what a sync would do without changing anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	for _, cmd := range []*cobra.Command{syncCmd, planCmd} {
		cmd.Flags().StringVarP(&syncUser, "user", "u", "", "FTP username")
		cmd.Flags().StringVarP(&syncPassword, "password", "p", "", "FTP password (prompted when omitted)")
		cmd.Flags().StringVarP(&syncDest, "dest", "d", "", "Mirror root directory (default: current directory)")
	}
	syncCmd.Flags().IntVar(&syncDelay, "delay", 0, "Seconds to wait before each download")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Show what would be done without making changes")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(planCmd)
}

// SyncReport is the result envelope for the sync command.
type SyncReport struct {
	RunID       string           `json:"runId"`
	Dataset     string           `json:"dataset"`
	Destination string           `json:"destination"`
	DryRun      bool             `json:"dryRun"`
	Summary     executor.Summary `json:"summary"`
}

func (r SyncReport) Headers() []string {
	return []string{"Dataset", "Fetched", "Updated", "Deleted", "Skipped", "Transferred"}
}

func (r SyncReport) Rows() [][]string {
	return [][]string{{
		r.Dataset,
		fmt.Sprintf("%d", r.Summary.Fetched),
		fmt.Sprintf("%d", r.Summary.Updated),
		fmt.Sprintf("%d", r.Summary.Deleted),
		fmt.Sprintf("%d", r.Summary.Skipped),
		formatSize(r.Summary.Bytes),
	}}
}

func (r SyncReport) EmptyMessage() string {
	return "Nothing to do."
}

// PlanReport is the result envelope for the plan command.
type PlanReport struct {
	Dataset     string        `json:"dataset"`
	Destination string        `json:"destination"`
	Actions     []diff.Action `json:"actions"`
}

func (r PlanReport) Headers() []string {
	return []string{"Date", "Action", "Reason", "Size"}
}

func (r PlanReport) Rows() [][]string {
	var rows [][]string
	for _, action := range r.Actions {
		if action.Type == diff.ActionSkip {
			continue
		}
		reason := string(action.Reason)
		if reason == "" {
			reason = "-"
		}
		size := "-"
		if action.Remote != nil {
			size = formatSize(action.Remote.Size)
		}
		rows = append(rows, []string{
			action.Date.String(),
			string(action.Type),
			reason,
			size,
		})
	}
	return rows
}

func (r PlanReport) EmptyMessage() string {
	return "Mirror is up to date."
}

func runSync(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	writer := NewOutputWriter(flags.OutputFormat, flags.Quiet)

	profile, err := dataset.Lookup(args[0])
	if err != nil {
		return handleError(writer, "sync", err)
	}

	sess, dest, err := openSession(cmd, profile)
	if err != nil {
		return handleError(writer, "sync", err)
	}
	defer sess.Close()

	db := openJournal(writer)
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	delay := time.Duration(syncDelay) * time.Second
	if !cmd.Flags().Changed("delay") {
		delay = GetConfig().GetDelay()
	}

	engine := isync.NewEngine(sess, db, GetLogger())
	result, err := engine.Run(ctx, profile, dest, isync.Options{
		DryRun: syncDryRun,
		Delay:  delay,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			writer.Log("Interrupted, stopping cleanly.")
			return nil
		}
		return handleError(writer, "sync", err)
	}

	return writer.WriteSuccess("sync", SyncReport{
		RunID:       result.RunID,
		Dataset:     profile.Selector,
		Destination: dest,
		DryRun:      syncDryRun,
		Summary:     result.Summary,
	})
}

func runPlan(cmd *cobra.Command, args []string) error {
	flags := GetGlobalFlags()
	writer := NewOutputWriter(flags.OutputFormat, flags.Quiet)

	profile, err := dataset.Lookup(args[0])
	if err != nil {
		return handleError(writer, "plan", err)
	}

	sess, dest, err := openSession(cmd, profile)
	if err != nil {
		return handleError(writer, "plan", err)
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := isync.NewEngine(sess, nil, GetLogger())
	plan, err := engine.Plan(ctx, profile, dest)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			writer.Log("Interrupted, stopping cleanly.")
			return nil
		}
		return handleError(writer, "plan", err)
	}

	return writer.WriteSuccess("plan", PlanReport{
		Dataset:     profile.Selector,
		Destination: dest,
		Actions:     plan.Actions,
	})
}

// openSession resolves credentials and destination, then connects to the
// dataset host. Credential precedence: flags, keyring, prompt.
func openSession(cmd *cobra.Command, profile dataset.Profile) (remote.Session, string, error) {
	creds, err := resolveCredentials(profile.Host)
	if err != nil {
		return nil, "", err
	}

	dest, err := resolveDestination()
	if err != nil {
		return nil, "", err
	}

	sess, err := remote.Connect(profile.Host, creds.Username, creds.Password, profile.RemoteBase,
		GetConfig().GetDialTimeout(), GetLogger())
	if err != nil {
		return nil, "", err
	}
	return sess, dest, nil
}

func resolveCredentials(host string) (auth.Credentials, error) {
	user := syncUser
	if user == "" {
		user = GetConfig().DefaultUser
	}

	if user != "" && syncPassword != "" {
		return auth.Credentials{Username: user, Password: syncPassword}, nil
	}

	if stored, err := auth.Load(host); err == nil {
		if user == "" || user == stored.Username {
			creds := stored
			if syncPassword != "" {
				creds.Password = syncPassword
			}
			return creds, nil
		}
	} else if !errors.Is(err, auth.ErrNotFound) {
		return auth.Credentials{}, err
	}

	if user == "" {
		return auth.Credentials{}, utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument,
			"no username given; use --user or run 'copsync auth login'").Build())
	}

	password := syncPassword
	if password == "" {
		password, err := promptPassword(fmt.Sprintf("Password for %s@%s: ", user, host))
		if err != nil {
			return auth.Credentials{}, err
		}
		return auth.Credentials{Username: user, Password: password}, nil
	}
	return auth.Credentials{Username: user, Password: password}, nil
}

func resolveDestination() (string, error) {
	if syncDest != "" {
		return syncDest, nil
	}
	if dest := GetConfig().DefaultDestination; dest != "" {
		return dest, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", utils.WrapError(utils.ErrCodeFilesystemError, "cannot determine working directory", err)
	}
	return cwd, nil
}

// openJournal opens the run journal. Journal problems degrade to a warning
// so a broken state file never blocks a sync.
func openJournal(writer *OutputWriter) *journal.DB {
	path, err := config.GetJournalPath()
	if err != nil {
		writer.AddWarning(utils.ErrCodeJournalError, "cannot locate journal: "+err.Error(), "warning")
		return nil
	}
	db, err := journal.Open(path)
	if err != nil {
		writer.AddWarning(utils.ErrCodeJournalError, "cannot open journal: "+err.Error(), "warning")
		return nil
	}
	return db
}

func handleError(writer *OutputWriter, command string, err error) error {
	if appErr, ok := err.(*utils.AppError); ok {
		_ = writer.WriteError(command, appErr.CLIError)
		return appErr
	}
	_ = writer.WriteError(command, utils.NewCLIError(utils.ErrCodeUnknown, err.Error()).Build())
	return err
}
