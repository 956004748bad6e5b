package client

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/sirupsen/logrus"
)

// MessageGeneric replaces the failure details of the lists.
const MessageGeneric = "Something went wrong, please try again."

// A printer renders resources on a terminal.
type printer struct {
	w      io.Writer
	logger logrus.FieldLogger
	now    func() time.Time
}

func newPrinter(w io.Writer, logger logrus.FieldLogger) *printer {
	return &printer{
		w:      w,
		logger: logger,
		now:    time.Now,
	}
}

// lane renders the items of a status.
// Failures are logged and displayed as a generic message.
func (p *printer) lane(status libfi.Status, r libfi.Resource[[]libfi.Item]) {
	fmt.Fprintf(p.w, "== %s ==\n", status.Label())

	switch r.State() {
	case libfi.StateIdle:
		fmt.Fprintln(p.w, "Not loaded yet.")
	case libfi.StateLoading:
		fmt.Fprintln(p.w, "Loading...")
	case libfi.StateError:
		p.logger.WithField("status", status).Error(r.Message())
		fmt.Fprintln(p.w, MessageGeneric)
	case libfi.StateSuccess:
		p.list(r.Data())
	}
}

// list renders a table of items.
func (p *printer) list(items []libfi.Item) {
	if len(items) == 0 {
		fmt.Fprintln(p.w, "No items.")
		return
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	for _, item := range items {
		claimed := ""
		if item.Claimed() {
			claimed = "claimed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Title,
			item.Category,
			item.LastSeenLocation.Address,
			p.ago(item.CreatedAt),
			claimed,
		)
	}
	tw.Flush()
}

// item renders the details of an item.
func (p *printer) item(item libfi.Item) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", item.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", item.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", item.Status.Label())
	fmt.Fprintf(tw, "Category:\t%s\n", item.Category)
	fmt.Fprintf(tw, "Description:\t%s\n", item.Description)
	if item.LastSeenLocation.Captured() {
		fmt.Fprintf(tw, "Last seen:\t%s (%.5f, %.5f)\n",
			item.LastSeenLocation.Address,
			item.LastSeenLocation.Latitude,
			item.LastSeenLocation.Longitude,
		)
	}
	fmt.Fprintf(tw, "Posted:\t%s\n", p.ago(item.CreatedAt))
	if item.PosterEmail != "" {
		fmt.Fprintf(tw, "Email:\t%s\n", item.PosterEmail)
	}
	if item.PosterPhone != "" {
		fmt.Fprintf(tw, "Phone:\t%s\n", item.PosterPhone)
	}
	if item.Claimed() {
		fmt.Fprintf(tw, "Claimed:\t%s\n", p.ago(item.ClaimedAt))
	}
	tw.Flush()
}

// profile renders a user profile.
func (p *printer) profile(user libfi.User) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", user.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", user.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", placeholder(user.Phone))
	picture := "none"
	if user.ProfilePictureURL != "" {
		picture = "yes"
	}
	fmt.Fprintf(tw, "Picture:\t%s\n", picture)
	tw.Flush()
}

// filters renders the active filters.
func (p *printer) filters(query string, f libfi.FilterState) {
	var parts []string
	if query != "" {
		parts = append(parts, fmt.Sprintf("search=%q", query))
	}
	if f.Category != nil {
		parts = append(parts, fmt.Sprintf("category=%q", *f.Category))
	}
	if f.Location != nil {
		parts = append(parts, fmt.Sprintf("location=%q", *f.Location))
	}
	if f.DaysAgo != nil {
		parts = append(parts, fmt.Sprintf("days=%d", *f.DaysAgo))
	}
	if len(parts) == 0 {
		return
	}

	fmt.Fprintf(p.w, "Filters: %s\n", strings.Join(parts, " "))
}

// fail logs and displays the message of a failed operation.
func (p *printer) fail(message string) {
	p.logger.Error(message)
	fmt.Fprintln(p.w, "Error:", message)
}

// ago returns a human readable duration since the given unix milliseconds.
func (p *printer) ago(ms int64) string {
	if ms == 0 {
		return "-"
	}

	d := p.now().Sub(libfi.FromUnixMillisecond(ms))
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func placeholder(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
