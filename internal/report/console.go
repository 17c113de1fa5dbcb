// Package report prints per-resource status lines for a run.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/yairfalse/awsres/pkg/resource"
)

// Console writes colored status lines. Benign outcomes (already exists,
// not found) are only shown when Verbose is set.
type Console struct {
	Out     io.Writer
	Verbose bool

	info *color.Color
	ok   *color.Color
	fail *color.Color
	warn *color.Color
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer, verbose bool) *Console {
	return &Console{
		Out:     out,
		Verbose: verbose,
		info:    color.New(color.FgBlue),
		ok:      color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
	}
}

// Label is the human name for a resource type.
func Label(t resource.Type) string {
	switch t {
	case resource.TypeBucket:
		return "Bucket"
	case resource.TypeECR:
		return "ECR Repository"
	case resource.TypeRDSPostgres:
		return "RDS Postgres Instance"
	default:
		return string(t)
	}
}

// Inventory dumps the loaded inventory in verbose mode.
func (c *Console) Inventory(rendered string) {
	if !c.Verbose {
		return
	}
	fmt.Fprintln(c.Out, strings.TrimRight(rendered, "\n"))
}

// Outcome prints the status line for one resource.
func (c *Console) Outcome(o resource.Outcome) {
	label := Label(o.Type)

	if o.Status.Benign() {
		if !c.Verbose {
			return
		}
		format := "    %s %s already exists\n"
		if o.Status == resource.StatusNotFound {
			format = "    %s: %s not found\n"
		}
		c.info.Fprintf(c.Out, format, label, o.Name)
		return
	}

	switch o.Status {
	case resource.StatusCreated, resource.StatusDeleted:
		c.ok.Fprintf(c.Out, "%s: %s %s\n", label, o.Name, o.Status)
	case resource.StatusUnknownType:
		c.warn.Fprintf(c.Out, "Error %s: type %q UNKNOWN\n", o.Name, string(o.Type))
	default:
		fmt.Fprintf(c.Out, "%s: %s\n", label, o.Name)
		c.fail.Fprintf(c.Out, "Unexpected error: %v\n", o.Err)
	}
}

// DeleteBanner shows what a delete run is about to remove.
func (c *Console) DeleteBanner(rendered string) {
	fmt.Fprintln(c.Out)
	c.fail.Fprintln(c.Out, "*** PREPARING TO DELETE ***")
	fmt.Fprintln(c.Out, strings.TrimRight(rendered, "\n"))
}

// DeleteConfirmed announces that deletion is starting.
func (c *Console) DeleteConfirmed() {
	c.fail.Fprintln(c.Out, "*** DELETING AWS RESOURCES ***")
	fmt.Fprintln(c.Out)
}

// DeleteCancelled announces a declined confirmation.
func (c *Console) DeleteCancelled() {
	c.ok.Fprintln(c.Out, "Delete canceled, exiting...")
}

// Empty reports an inventory with no resources.
func (c *Console) Empty(path string) {
	c.fail.Fprintf(c.Out, "AWS Resources not found in %s\n", path)
}

// Summary prints run totals in verbose mode.
func (c *Console) Summary(r resource.RunResult) {
	if !c.Verbose || r.Cancelled {
		return
	}
	line := fmt.Sprintf("%d resources, %d failed, %d unknown type (%s)",
		r.Attempted(), r.Failures(), r.Unknown(), r.Duration.Round(time.Millisecond))
	if r.Failures() > 0 {
		c.fail.Fprintln(c.Out, line)
		return
	}
	c.ok.Fprintln(c.Out, line)
}
