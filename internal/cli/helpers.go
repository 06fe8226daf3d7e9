package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
	"github.com/thenoetrevino/plazo/internal/workday"
)

// EnvProject holds the project set by `plazo use project`
const EnvProject = "PLAZO_PROJECT"

// ErrInvalidDate is returned for dates that are not YYYY-MM-DD or "today"
var ErrInvalidDate = errors.New("invalid date")

// AddOutputFlags registers the agent-friendly flags every command carries
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

// FormatterFor reads the output flags of cmd
func FormatterFor(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
}

// ChangedFlags returns the flags among names that were set on the command
// line, as "--name", in flag-set order
func ChangedFlags(fs *pflag.FlagSet, names ...string) []string {
	var set []string
	fs.Visit(func(f *pflag.Flag) {
		if slices.Contains(names, f.Name) {
			set = append(set, "--"+f.Name)
		}
	})
	return set
}

// GetProjectID returns the --project flag, falling back to PLAZO_PROJECT
func GetProjectID(cmd *cobra.Command) (types.ProjectID, error) {
	if flag := cmd.Flags().Lookup("project"); flag != nil && flag.Changed {
		id, err := cmd.Flags().GetInt("project")
		if err != nil {
			return 0, err
		}
		return types.ProjectID(id), nil
	}

	if env := os.Getenv(EnvProject); env != "" {
		id, err := strconv.Atoi(env)
		if err != nil {
			return 0, UsageError("invalid %s value %q", EnvProject, env)
		}
		return types.ProjectID(id), nil
	}

	return 0, UsageError("no project specified: use --project or set %s", EnvProject)
}

// ParseDate accepts YYYY-MM-DD or "today". The result is UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "today") {
		return workday.Truncate(time.Now()), nil
	}
	d, err := time.ParseInLocation(models.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: use YYYY-MM-DD or today", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseIDArg parses a positional numeric id
func ParseIDArg(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, UsageError("invalid %s ID: %s", what, arg)
	}
	return id, nil
}

// Confirm asks a yes/no question on stdin; anything but y/yes is a no
func Confirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes"
}
