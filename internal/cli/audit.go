package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

var ErrAuditUnavailable = errors.New("audit trail is only kept with the sqlite store driver")

func newAuditCommand(r *runner) *cobra.Command {
	var (
		limit     int
		eventType string
		bookRef   string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent changes to the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(app *entrypoint.App) error {
				if app.Audit == nil {
					return ErrAuditUnavailable
				}

				var (
					events []entities.AuditEvent
					err    error
				)
				switch {
				case bookRef != "":
					book, resolveErr := resolveBook(app.Books, bookRef)
					if resolveErr != nil {
						return resolveErr
					}
					events, err = app.Audit.GetBookHistory(book.ID.String(), limit)
				case eventType != "":
					events, _, err = app.Audit.GetEventsByType(entities.AuditEventType(eventType), limit, 0)
				default:
					events, _, err = app.Audit.GetEvents(limit, 0)
				}
				if err != nil {
					return fmt.Errorf("failed to load audit events: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(events) == 0 {
					fmt.Fprintln(out, styles.Muted.Render("No audit events."))
					return nil
				}
				for _, event := range events {
					fmt.Fprintln(out, renderAuditEvent(event))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of events")
	cmd.Flags().StringVar(&eventType, "type", "", "only this event type (create, update, delete, favourite, status, backup)")
	cmd.Flags().StringVar(&bookRef, "book", "", "only events for this book id")
	return cmd
}

func renderAuditEvent(e entities.AuditEvent) string {
	status := string(e.Status)
	switch e.Status {
	case entities.AuditStatusFailed:
		status = styles.Error.Render(status)
	case entities.AuditStatusSkipped:
		status = styles.Warning.Render(status)
	default:
		status = styles.Success.Render(status)
	}
	line := fmt.Sprintf("%s  %-9s %-8s %s",
		styles.Muted.Render(e.CreatedAt.Local().Format("2006-01-02 15:04:05")),
		e.EventType, status, e.Description)
	if e.ErrorMsg != "" {
		line += styles.Error.Render(" (" + e.ErrorMsg + ")")
	}
	return line
}
