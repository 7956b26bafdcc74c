package app

import (
	"errors"
	"fmt"
	"time"

	"go-hris-admin/internal/audit"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
)

func newAuditCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}

	var (
		group         string
		fromBeginning bool
	)
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Follow audit entries until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if a.Config.Audit.KafkaBroker == "" {
				return errors.New("ADMIN_AUDIT_KAFKA_BROKER is not set")
			}

			cfg := kafka.ReaderConfig{
				Brokers:     []string{a.Config.Audit.KafkaBroker},
				Topic:       a.Config.Audit.Topic,
				GroupID:     group,
				StartOffset: kafka.LastOffset,
			}
			if fromBeginning {
				cfg.StartOffset = kafka.FirstOffset
			}
			reader := kafka.NewReader(cfg)
			defer reader.Close()

			tw := newTable(cmd.OutOrStdout())
			audit.Consume(cmd.Context(), reader, func(e audit.Entry) error {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					e.OccurredAt.Format(time.RFC3339), e.EventType, e.EntityID, e.Operator, e.Message)
				return tw.Flush()
			}, a.Logger)
			return nil
		},
	}
	tail.Flags().StringVar(&group, "group", "go-hris-admin-audit-tail", "consumer group id")
	tail.Flags().BoolVar(&fromBeginning, "from-beginning", false, "start at the oldest retained entry")

	cmd.AddCommand(tail)
	return cmd
}
