package main

import (
	"context"
	"io"
	"time"

	"github.com/noteandcode/sitelinks"
	"github.com/noteandcode/sitelinks/scan"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Scans    sitelinks.ScanService
	Batch    *scan.Batch
	Exporter sitelinks.ResultExporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug bool `help:"Log operations to stderr"`

	Scan    ScanCmd    `cmd:"" help:"Find the foreign sites linked from pages"`
	History HistoryCmd `cmd:"" help:"List saved scans"`
	Show    ShowCmd    `cmd:"" help:"Print the sites found by a saved scan"`
	Export  ExportCmd  `cmd:"" help:"Write a saved scan to an xlsx file"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a saved scan"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	URLs        []string      `arg:"" name:"url" help:"Page URLs to scan"`
	Engine      string        `short:"e" enum:"rod,http" default:"rod" help:"Page engine: rod renders JavaScript, http does not"`
	LoadTimeout time.Duration `default:"60s" help:"Page load timeout"`
	WaitTimeout time.Duration `default:"15s" help:"How long to wait for links to appear"`
	PassTimeout time.Duration `default:"15s" help:"Time limit for one link extraction attempt"`
	Attempts    int           `default:"3" help:"Link extraction attempts per page"`
	RetryDelay  time.Duration `default:"1s" help:"Pause between extraction attempts"`
	Concurrency int           `short:"c" default:"2" help:"Pages scanned at once"`
	Rate        float64       `default:"1" help:"Requests per second per host (0 disables)"`
	Save        bool          `short:"s" help:"Save results to the database"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `help:"Only show scans of this URL"`
	Limit int    `short:"n" default:"20" help:"Maximum number of scans to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Scan ID"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	ID  string `arg:"" help:"Scan ID"`
	Out string `short:"o" required:"" type:"path" help:"Output xlsx file"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID string `arg:"" help:"Scan ID"`
}
