// Package digest composes the daily summary email of overdue and
// due-today tasks. Delivery is an external concern; the builder writes
// a complete MIME message to the given writer.
package digest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/store"
)

const fromAddress = "digest@planhub.local"

// Summary holds the task sets going into one digest.
type Summary struct {
	Overdue  []model.Task
	DueToday []model.Task
}

// Collect gathers the digest content for the current user as of now.
func Collect(ctx context.Context, c *client.Client, now time.Time) (*Summary, error) {
	overdue, err := c.ListTasks(ctx, store.TaskFilter{
		Overdue: true,
		SortBy:  "due_date",
	})
	if err != nil {
		return nil, fmt.Errorf("collecting overdue tasks: %w", err)
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	dueToday, err := c.ListTasks(ctx, store.TaskFilter{
		Statuses: []string{model.TaskStatusPending, model.TaskStatusInProgress},
		DueFrom:  &dayStart,
		DueTo:    &dayEnd,
		SortBy:   "priority",
	})
	if err != nil {
		return nil, fmt.Errorf("collecting due-today tasks: %w", err)
	}

	return &Summary{Overdue: overdue, DueToday: dueToday}, nil
}

// Write renders the summary as a MIME mail message addressed per the
// given settings.
func Write(w io.Writer, settings model.DigestSettings, summary *Summary, now time.Time) error {
	var header mail.Header
	header.SetDate(now)
	header.SetAddressList("From", []*mail.Address{{Name: "planhub digest", Address: fromAddress}})
	header.SetAddressList("To", []*mail.Address{{Address: settings.Recipient}})
	header.SetSubject(fmt.Sprintf(
		"Daily digest for %s: %d overdue, %d due today",
		now.Format("Mon Jan 2"), len(summary.Overdue), len(summary.DueToday),
	))

	mw, err := mail.CreateWriter(w, header)
	if err != nil {
		return fmt.Errorf("creating mail writer: %w", err)
	}
	defer mw.Close()

	tw, err := mw.CreateInline()
	if err != nil {
		return fmt.Errorf("creating inline part: %w", err)
	}
	defer tw.Close()

	var th mail.InlineHeader
	th.Set("Content-Type", "text/plain; charset=utf-8")
	part, err := tw.CreatePart(th)
	if err != nil {
		return fmt.Errorf("creating text part: %w", err)
	}
	defer part.Close()

	if _, err := io.WriteString(part, renderBody(summary)); err != nil {
		return fmt.Errorf("writing digest body: %w", err)
	}
	return nil
}

// renderBody formats the plain-text digest.
func renderBody(summary *Summary) string {
	var sb strings.Builder

	if len(summary.Overdue) == 0 && len(summary.DueToday) == 0 {
		sb.WriteString("Nothing overdue and nothing due today. Enjoy the slack.\n")
		return sb.String()
	}

	if len(summary.Overdue) > 0 {
		sb.WriteString(fmt.Sprintf("Overdue (%d):\n", len(summary.Overdue)))
		for _, t := range summary.Overdue {
			sb.WriteString("  - ")
			sb.WriteString(taskLine(t))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(summary.DueToday) > 0 {
		sb.WriteString(fmt.Sprintf("Due today (%d):\n", len(summary.DueToday)))
		for _, t := range summary.DueToday {
			sb.WriteString("  - ")
			sb.WriteString(taskLine(t))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func taskLine(t model.Task) string {
	line := fmt.Sprintf("%s [%s]", t.Title, t.Priority)
	if t.DueDate != nil {
		line += " due " + t.DueDate.Format("2006-01-02")
	}
	return line
}
