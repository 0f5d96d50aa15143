package review

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"subclean/internal/cleaning"
	"subclean/internal/srt"
)

// EditLineSeparator splits a single-line manual edit into cue lines.
const EditLineSeparator = " | "

// Console prompts a human on a terminal.
type Console struct {
	lines    <-chan string
	out      io.Writer
	colorize bool
}

// NewConsole reads answers from in and writes prompts to out. Input is read
// by one background goroutine so a pending read never blocks cancellation.
func NewConsole(in io.Reader, out io.Writer, colorize bool) *Console {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 4096), 1<<20)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return &Console{lines: lines, out: out, colorize: colorize}
}

// ShouldColorize reports whether w is a terminal that can render colours.
// NO_COLOR disables colours regardless.
func ShouldColorize(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (c *Console) Decide(ctx context.Context, p Prompt) (Action, error) {
	c.render(p)
	for {
		c.printf("%s ", c.paint("Choose (1/2/3/4/5/0):", text.Bold))
		answer, err := c.readLine(ctx)
		if err != nil {
			return Action{}, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "1", "a", "accept":
			return Accept(), nil
		case "2", "k", "keep", "s", "skip":
			return Skip(), nil
		case "3", "r", "remove", "d", "delete":
			return Remove(), nil
		case "4", "e", "edit":
			return c.readEdit(ctx)
		case "5", "p", "partial":
			action, ok, err := c.readPartial(ctx, p.Result)
			if err != nil {
				return Action{}, err
			}
			if ok {
				return action, nil
			}
		case "0", "q", "quit":
			return Quit(), nil
		default:
			c.printf("%s\n", c.paint(fmt.Sprintf("Unrecognized choice %q", answer), text.FgYellow))
		}
	}
}

func (c *Console) render(p Prompt) {
	header := fmt.Sprintf("-- %s  cue %d (%d of %d)  %s --> %s --",
		p.File, p.Cue.Index, p.Position, p.Pending,
		srt.FormatTimestamp(p.Cue.Start), srt.FormatTimestamp(p.Cue.End))
	c.printf("\n%s\n", c.paint(header, text.Bold))
	c.printf("Original:\n")
	for _, line := range p.Result.Original {
		c.printf("  %s\n", c.paint(line, text.FgRed))
	}
	if p.Result.Remove {
		c.printf("Proposed: %s\n", c.paint("remove cue", text.FgYellow, text.Bold))
	} else {
		c.printf("Proposed:\n")
		for _, line := range p.Result.Proposed {
			c.printf("  %s\n", c.paint(line, text.FgGreen))
		}
	}
	if len(p.Result.Edits) > 0 {
		labels := make([]string, 0, len(p.Result.Edits))
		for i, edit := range p.Result.Edits {
			labels = append(labels, fmt.Sprintf("%d) %s", i+1, edit.Category))
		}
		c.printf("Edits: %s\n", strings.Join(labels, "  "))
	}
	c.printf("[1] accept  [2] keep original  [3] remove  [4] edit  [5] accept some edits  [0] quit\n")
}

func (c *Console) readEdit(ctx context.Context) (Action, error) {
	c.printf("New text (%q between lines, empty keeps original): ", strings.TrimSpace(EditLineSeparator))
	answer, err := c.readLine(ctx)
	if err != nil {
		return Action{}, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Skip(), nil
	}
	parts := strings.Split(answer, EditLineSeparator)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			lines = append(lines, part)
		}
	}
	return Edit(lines...), nil
}

func (c *Console) readPartial(ctx context.Context, result cleaning.Result) (Action, bool, error) {
	c.printf("Edits to accept (numbers, comma separated): ")
	answer, err := c.readLine(ctx)
	if err != nil {
		return Action{}, false, err
	}
	categories, err := parseSelection(answer, result.Edits)
	if err != nil {
		c.printf("%s\n", c.paint(err.Error(), text.FgYellow))
		return Action{}, false, nil
	}
	return Partial(categories...), true, nil
}

func parseSelection(answer string, edits []cleaning.CandidateEdit) ([]cleaning.Category, error) {
	fields := strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("no edits selected")
	}
	var categories []cleaning.Category
	seen := make(map[int]bool)
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(edits) {
			return nil, fmt.Errorf("invalid edit number %q", field)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		categories = append(categories, edits[n-1].Category)
	}
	return categories, nil
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

func (c *Console) paint(s string, colors ...text.Color) string {
	if !c.colorize || len(colors) == 0 {
		return s
	}
	return text.Colors(colors).Sprint(s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
