// FILE: internal/cli/cli.go
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"draughts/internal/board"
	"draughts/internal/core"
	"draughts/internal/game"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdMove
	CmdMoves
	CmdUndo
	CmdReset
	CmdColor
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	light   string
	dark    string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		light:   "\033[97m",
		dark:    "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		light:   "\033[97m",
		dark:    "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		light:   "\033[97m",
		dark:    "\033[30m",
		reset:   "\033[0m",
	},
}

// lineReader is satisfied by *readline.Instance
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// scanReader reads plain lines, used when input is not a terminal
type scanReader struct {
	sc     *bufio.Scanner
	out    io.Writer
	prompt string
}

func (r *scanReader) Readline() (string, error) {
	fmt.Fprint(r.out, r.prompt)
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

func (r *scanReader) SetPrompt(prompt string) { r.prompt = prompt }
func (r *scanReader) Close() error            { return nil }

type CLI struct {
	input   lineReader
	output  io.Writer
	theme   ColorTheme
	colors  bool // false when output is not a terminal
	verbose bool
}

// New builds a CLI over plain streams
func New(input io.Reader, output io.Writer) *CLI {
	return &CLI{
		input:  &scanReader{sc: bufio.NewScanner(input), out: output},
		output: output,
		theme:  ThemeOff,
	}
}

// NewTerminal builds a CLI on stdin/stdout with line editing, history and
// command completion. Colour themes are only honoured on a terminal.
func NewTerminal(historyFile string) (*CLI, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("new"),
			readline.PcItem("moves"),
			readline.PcItem("undo"),
			readline.PcItem("reset"),
			readline.PcItem("history"),
			readline.PcItem("color",
				readline.PcItem(string(ThemeOff)),
				readline.PcItem(string(ThemeBrown)),
				readline.PcItem(string(ThemeGreen)),
				readline.PcItem(string(ThemeGray)),
			),
			readline.PcItem("verbose"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize line editor: %w", err)
	}

	return &CLI{
		input:  rl,
		output: rl.Stdout(),
		theme:  ThemeOff,
		colors: term.IsTerminal(int(os.Stdout.Fd())),
	}, nil
}

func (c *CLI) Close() error {
	return c.input.Close()
}

// GetCommand reads a command synchronously. EOF and interrupt mean quit.
func (c *CLI) GetCommand() (*Command, error) {
	line, err := c.input.Readline()
	if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
		return &Command{Type: CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}
	return ParseCommand(input), nil
}

// ParseCommand maps a line to a command; anything unknown is taken as a move
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "moves":
		return &Command{Type: CmdMoves}
	case "undo":
		return &Command{Type: CmdUndo}
	case "reset":
		return &Command{Type: CmdReset}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		// a path may be typed with spaces: "c3 c4"
		return &Command{Type: CmdMove, Args: []string{strings.Join(parts, "-")}, Raw: input}
	}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

func (c *CLI) ShowPrompt(prompt string) {
	c.input.SetPrompt(prompt)
}

func (c *CLI) DisplayBoard(v board.View) {
	if c.theme == ThemeOff || !c.colors {
		c.ShowMessage("\n" + board.ToASCII(v) + "\n")
		return
	}

	theme := themes[c.theme]
	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")

	for y := 0; y < core.CellsPerSide; y++ {
		sb.WriteString(fmt.Sprintf("%d ", core.CellsPerSide-y))
		for x := 0; x < core.CellsPerSide; x++ {
			bg := theme.darkBg
			if (x+y)%2 == 0 {
				bg = theme.lightBg
			}

			cell := v.Cell(core.Vector{X: x, Y: y})
			if cell.Kind != board.CellOccupied {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				continue
			}
			color := theme.dark
			if cell.Piece.Side == core.SideLight {
				color = theme.light
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, color, cell.Piece.Symbol(), theme.reset))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", core.CellsPerSide-y))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

// ShowMoves lists the legal moves of the side to move
func (c *CLI) ShowMoves(moves []game.PieceMoves) {
	if len(moves) == 0 {
		c.ShowMessage("No legal moves.")
		return
	}
	for _, pm := range moves {
		paths := make([]string, len(pm.Moves))
		for i, m := range pm.Moves {
			paths[i] = m.String()
		}
		c.ShowMessage(fmt.Sprintf("%s: %s", pm.Piece.Pos, strings.Join(paths, ", ")))
	}
}

func (c *CLI) ShowMove(side core.Side, move string, captured int) {
	if !c.verbose {
		return
	}
	if captured > 0 {
		c.ShowMessage(fmt.Sprintf("%s plays %s, capturing %d", side, move, captured))
		return
	}
	c.ShowMessage(fmt.Sprintf("%s plays %s", side, move))
}

// ShowHistory prints the undo stack as numbered turns starting with first
func (c *CLI) ShowHistory(first core.Side, history []game.RecordState) {
	if len(history) == 0 {
		c.ShowMessage("No moves yet.")
		return
	}
	side := first
	for i, rec := range history {
		c.ShowMessage(fmt.Sprintf("%d. %s %s", i+1, side, core.FormatPath([]core.Vector{rec.From, rec.To}, len(rec.Removed) > 0)))
		side = side.Opposite()
	}
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game
  <path>           - Make a move (e.g., c3-c4, d4xd6xb6)
  moves            - List the legal moves
  undo             - Take back the last move
  reset            - Restart the current game
  color <theme>    - Set board color theme (off|brown|green|gray)
  verbose          - Toggle move announcements
  history          - Show the moves played
  quit/exit        - Exit the program
  help/?           - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Draughts!")
	c.ShowMessage("Light moves first. Captures are orthogonal and mandatory; the longest capture must be taken.")
	c.ShowMessage("Commands: new, <path>, moves, undo, reset, history, color, verbose, help/?, quit/exit")
	c.ShowMessage("")
}

func (c *CLI) ShowGameOver(state core.State) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s\n", state))
	c.ShowMessage("Start again with 'reset' or 'new'.")
}
