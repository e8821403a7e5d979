package cli

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"draughts/internal/board"
	"draughts/internal/core"
	"draughts/internal/game"
	"draughts/internal/movecalc"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		typ   CommandType
		args  []string
	}{
		{"new", CmdNew, []string{}},
		{"NEW", CmdNew, []string{}},
		{"moves", CmdMoves, nil},
		{"undo", CmdUndo, nil},
		{"reset", CmdReset, nil},
		{"color green", CmdColor, []string{"green"}},
		{"verbose", CmdVerbose, nil},
		{"history", CmdHistory, nil},
		{"?", CmdHelp, nil},
		{"exit", CmdQuit, nil},
		{"c3-c4", CmdMove, []string{"c3-c4"}},
		{"c3 c4", CmdMove, []string{"c3-c4"}},
		{"   ", CmdNone, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := ParseCommand(tt.input)
			if cmd.Type != tt.typ {
				t.Fatalf("type = %d, want %d", cmd.Type, tt.typ)
			}
			if len(tt.args) == 0 && len(cmd.Args) == 0 {
				return
			}
			if !reflect.DeepEqual(cmd.Args, tt.args) {
				t.Errorf("args = %q, want %q", cmd.Args, tt.args)
			}
		})
	}
}

func TestGetCommandEOFQuits(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("moves\n\n"), &out)

	want := []CommandType{CmdMoves, CmdNone, CmdQuit}
	for i, typ := range want {
		cmd, err := c.GetCommand()
		if err != nil {
			t.Fatalf("command %d: %v", i, err)
		}
		if cmd.Type != typ {
			t.Errorf("command %d type = %d, want %d", i, cmd.Type, typ)
		}
	}
}

func TestPromptIsWritten(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("new\n"), &out)
	c.ShowPrompt("[light]> ")
	if _, err := c.GetCommand(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "[light]> " {
		t.Errorf("output = %q", out.String())
	}
}

func TestSetTheme(t *testing.T) {
	c := New(strings.NewReader(""), &bytes.Buffer{})
	if err := c.SetTheme(ThemeGreen); err != nil {
		t.Fatalf("green: %v", err)
	}
	if err := c.SetTheme("purple"); err == nil {
		t.Error("unknown theme accepted")
	}
}

func TestDisplayBoardWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)
	if err := c.SetTheme(ThemeBrown); err != nil {
		t.Fatal(err)
	}

	b := board.New()
	if err := b.FillStandardBoard(); err != nil {
		t.Fatal(err)
	}
	c.DisplayBoard(b)

	if strings.Contains(out.String(), "\033[") {
		t.Error("escape codes written to a plain stream")
	}
	if !strings.Contains(out.String(), board.ToASCII(b)) {
		t.Errorf("board missing from output:\n%s", out.String())
	}
}

func TestShowMoves(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	m, err := movecalc.NewMove([]core.Vector{{X: 2, Y: 5}, {X: 2, Y: 4}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.ShowMoves([]game.PieceMoves{{
		Piece: board.Piece{ID: 1, Side: core.SideLight, Pos: core.Vector{X: 2, Y: 5}},
		Moves: []movecalc.Move{m},
	}})
	if got, want := out.String(), "c3: c3-c4\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	out.Reset()
	c.ShowMoves(nil)
	if got := out.String(); got != "No legal moves.\n" {
		t.Errorf("empty output = %q", got)
	}
}

func TestShowMoveRespectsVerbose(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	c.ShowMove(core.SideLight, "c3-c4", 0)
	if out.Len() != 0 {
		t.Fatalf("quiet mode wrote %q", out.String())
	}

	c.ToggleVerbose()
	c.ShowMove(core.SideDark, "c6xc4", 1)
	if got, want := out.String(), "dark plays c6xc4, capturing 1\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestShowHistory(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out)

	history := []game.RecordState{
		{From: core.Vector{X: 2, Y: 5}, To: core.Vector{X: 2, Y: 4}},
		{From: core.Vector{X: 2, Y: 2}, To: core.Vector{X: 2, Y: 3}},
		{
			From:    core.Vector{X: 2, Y: 4},
			To:      core.Vector{X: 2, Y: 2},
			Removed: []game.PieceState{{Side: core.SideDark, Position: core.Vector{X: 2, Y: 3}}},
		},
	}
	c.ShowHistory(core.SideLight, history)

	want := "1. light c3-c4\n2. dark c6-c5\n3. light c4xc6\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
