package client

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/chzyer/readline"
	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/pkg/errors"
)

var filterPattern = regexp.MustCompile(`(\w+)=("[^"]*"|\S+)`)

const browseHelp = `Type some text to search, or one of:
  /lost /found              switch lane
  /filter k=v...            category, location, days (replaces all the filters)
  /clear                    clear the search and the filters
  /refresh                  fetch the items again
  /quit                     leave`

// Browse runs the interactive feed.
func (a *App) Browse() error {
	repo, err := a.repository()
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "findit> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "/quit",
	})
	if err != nil {
		return errors.Wrap(err, "could not initialize prompt")
	}
	defer rl.Close()

	b := newBrowser(libfi.NewFeed(repo), newPrinter(rl.Stdout(), a.Logger), a.Env.Timeout)
	stop := b.watch()
	defer stop()

	fmt.Fprintln(rl.Stdout(), browseHelp)
	b.refresh()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "could not read input")
		}

		if b.handle(line) {
			return nil
		}
	}
}

// A browser holds the state of the interactive feed.
type browser struct {
	feed    *libfi.Feed
	p       *printer
	timeout time.Duration
	render  func()

	mu     sync.Mutex
	status libfi.Status
	query  string
	cancel context.CancelFunc
}

func newBrowser(feed *libfi.Feed, p *printer, timeout time.Duration) *browser {
	b := &browser{
		feed:    feed,
		p:       p,
		timeout: timeout,
		status:  libfi.StatusLost,
		cancel:  func() {},
	}

	debounced := debounce.New(100 * time.Millisecond)
	b.render = func() {
		debounced(b.draw)
	}
	return b
}

// watch renders the view on every lane change until stop is called.
func (b *browser) watch() (stop func()) {
	var unsubscribes []func()
	for _, status := range libfi.Statuses {
		changes, unsubscribe := b.feed.Lane(status).Subscribe()
		unsubscribes = append(unsubscribes, unsubscribe)

		go func() {
			for range changes {
				b.render()
			}
		}()
	}

	return func() {
		b.mu.Lock()
		b.cancel()
		b.mu.Unlock()

		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}
}

// refresh fetches both lanes again, abandoning the previous fetch.
func (b *browser) refresh() <-chan struct{} {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)

	b.mu.Lock()
	b.cancel()
	b.cancel = cancel
	b.mu.Unlock()

	done := b.feed.FetchItems(ctx)
	go func() {
		<-done
		cancel()
	}()
	return done
}

// handle runs the given input line and returns true when the user wants to leave.
func (b *browser) handle(line string) bool {
	line = strings.TrimSpace(line)

	switch {
	case line == "/quit":
		return true
	case line == "/help":
		fmt.Fprintln(b.p.w, browseHelp)
		return false
	case line == "/lost":
		b.setStatus(libfi.StatusLost)
	case line == "/found":
		b.setStatus(libfi.StatusFound)
	case line == "/refresh":
		b.refresh()
		return false // Rendered on lane changes.
	case line == "/clear":
		b.setQuery("")
		b.feed.ApplyFilters(nil, nil, nil)
	case strings.HasPrefix(line, "/filter"):
		filters, err := parseFilters(strings.TrimPrefix(line, "/filter"))
		if err != nil {
			b.p.fail(err.Error())
			return false
		}
		b.feed.ApplyFilters(filters.Category, filters.Location, filters.DaysAgo)
	case strings.HasPrefix(line, "/"):
		b.p.fail("unknown command " + line + ", type /help")
		return false
	default:
		b.setQuery(line)
	}

	b.draw()
	return false
}

func (b *browser) setStatus(status libfi.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

func (b *browser) setQuery(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.query = query
}

// draw renders the current lane with the search query and the filters.
func (b *browser) draw() {
	b.mu.Lock()
	status, query := b.status, b.query
	b.mu.Unlock()

	b.p.filters(query, b.feed.Filters())
	b.p.lane(status, b.feed.View(status, query, b.p.now()))
}

// parseFilters reads `category=keys location="city library" days=7`.
func parseFilters(s string) (libfi.FilterState, error) {
	var f libfi.FilterState

	s = strings.TrimSpace(s)
	for _, match := range filterPattern.FindAllStringSubmatch(s, -1) {
		value := strings.Trim(match[2], `"`)

		switch match[1] {
		case "category":
			f.Category = &value
		case "location":
			f.Location = &value
		case "days":
			days, err := strconv.Atoi(value)
			if err != nil || days < 0 {
				return f, errors.Errorf("invalid days: %s", value)
			}
			f.DaysAgo = &days
		default:
			return f, errors.Errorf("unknown filter: %s", match[1])
		}
	}

	if s != "" && !f.Active() {
		return f, errors.Errorf("invalid filters: %s", s)
	}
	return f, nil
}
