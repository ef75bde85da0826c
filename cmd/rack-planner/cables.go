package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kubev2v/rack-planner/internal/events"
	"github.com/kubev2v/rack-planner/internal/service"
	"github.com/kubev2v/rack-planner/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type importCablesOptions struct {
	dryRun bool
}

func (o *importCablesOptions) Bind(fs *pflag.FlagSet) {
	fs.BoolVar(&o.dryRun, "dry-run", false, "Parse the workbook and print the cables without creating them")
}

func newImportCablesCmd() *cobra.Command {
	o := &importCablesOptions{}
	cmd := &cobra.Command{
		Use:   "import-cables FILE",
		Short: "Create the cables listed in an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args[0])
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *importCablesOptions) Run(ctx context.Context, path string) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	forms, err := sheets.ParseCables(content)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if o.dryRun {
		for _, f := range forms {
			fmt.Printf("%s/%s -> %s/%s\n", f.SourceDeviceID, f.SourcePort, f.TargetDeviceID, f.TargetPort)
		}
		return nil
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	producer := events.NewEventProducer(&events.StdoutWriter{}, events.WithOutputTopic(cfg.Service.AuditTopic))
	defer producer.Close()

	opts := []service.InventoryOption{}
	if cfg.Service.AuditEventsEnabled {
		opts = append(opts, service.WithAuditProducer(producer))
	}
	inv := service.NewInventory(s, opts...)

	if ctx == nil {
		ctx = context.Background()
	}
	result := inv.Cables.CreateCablesBatch(ctx, forms)
	for _, e := range result.Errors {
		zap.S().Warnw("cable rejected", "row", e.Index+1, "id", e.ID, "kind", e.Kind, "error", e.Error)
	}
	fmt.Printf("imported %d of %d cables, %d failed\n", result.Success, result.Total, result.Failed)

	return nil
}

type exportCablesOptions struct {
	deviceID string
	status   string
}

func (o *exportCablesOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.deviceID, "device", "", "Only export the cables of this device")
	fs.StringVar(&o.status, "status", "", "Only export the cables with this status")
}

func newExportCablesCmd() *cobra.Command {
	o := &exportCablesOptions{}
	cmd := &cobra.Command{
		Use:   "export-cables FILE",
		Short: "Write the cables to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args[0])
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *exportCablesOptions) Run(ctx context.Context, path string) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	inv := service.NewInventory(s)
	cables, _, err := inv.Cables.ListCables(ctx, service.CableFilter{DeviceID: o.deviceID, Status: o.status})
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := sheets.WriteCables(f, cables); err != nil {
		return err
	}
	fmt.Printf("exported %d cables to %s\n", len(cables), path)
	return nil
}
