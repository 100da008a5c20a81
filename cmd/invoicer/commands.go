package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/application/invoice"
	"github.com/garage/invoicer/internal/infrastructure/config"
	infra "github.com/garage/invoicer/internal/infrastructure/printing"
)

var errMissingListing = errors.New("a listing URL or id is required")

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Generate the invoice PDF of a listing",
		ArgsUsage: "LISTING_URL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory the PDF is written to (implies --storage filesystem)",
			},
			&cli.StringFlag{
				Name:  "storage",
				Usage: "Document sink: filesystem, s3 or none (none writes the PDF to stdout)",
			},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	text := strings.TrimSpace(c.Args().First())
	if text == "" {
		return errMissingListing
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if out := c.String("out"); out != "" {
		cfg.Storage.BasePath = out
		cfg.Storage.Driver = config.StorageFileSystem
	}
	if c.IsSet("storage") {
		cfg.Storage.Driver = c.String("storage")
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	comp, err := buildComponents(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer comp.Close()

	result, err := comp.service.GenerateFromText(ctx, text)
	if err != nil {
		return err
	}

	if result.IsDegraded() {
		fmt.Fprintf(c.App.ErrWriter, "warning: invoice generated without %s\n",
			strings.Join(result.DegradedSteps(), ", "))
	}
	if comp.storage == nil {
		_, err := c.App.Writer.Write(result.Document.Data)
		return err
	}

	log.Debug("Invoice generated",
		zap.String("listing_id", result.Listing.ID),
		zap.Int("pages", result.Document.PageCount))
	fmt.Fprintf(c.App.Writer, "Invoice saved to %s\n", result.Location)
	return nil
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Print the summary of a listing without rendering",
		ArgsUsage: "LISTING_URL",
		Action:    runPreview,
	}
}

func runPreview(c *cli.Context) error {
	text := strings.TrimSpace(c.Args().First())
	if text == "" {
		return errMissingListing
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.Storage.Driver = config.StorageNone
	cfg.Renderer.SVGRasterizer = config.RasterizerNone

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	comp, err := buildComponents(c.Context, cfg, nil, log)
	if err != nil {
		return err
	}
	defer comp.Close()

	summary, err := comp.service.Preview(c.Context, text)
	if err != nil {
		return err
	}
	return printSummary(c.App.Writer, summary)
}

func printSummary(w io.Writer, s *invoice.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", s.Title)
	fmt.Fprintf(tw, "Price:\t%s\n", s.Price)
	for _, row := range s.Details {
		fmt.Fprintf(tw, "%s:\t%s\n", row.Label, row.Value)
	}
	if s.Description != "" {
		fmt.Fprintf(tw, "\n%s\n", s.Description)
	}
	fmt.Fprintf(tw, "\nInvoice file:\t%s\n", s.Filename)
	return tw.Flush()
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the text layer of a generated invoice",
		ArgsUsage: "FILE.pdf",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("a PDF file is required")
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			text, err := infra.NewInspector().Extract(data)
			if err != nil {
				return err
			}
			for _, page := range text.Pages {
				fmt.Fprintf(c.App.Writer, "--- Page %d ---\n", page.Number)
				for _, line := range page.Lines {
					fmt.Fprintln(c.App.Writer, line)
				}
			}
			return nil
		},
	}
}
