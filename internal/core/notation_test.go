package core

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		want Vector
		ok   bool
	}{
		{"a8", Vector{X: 0, Y: 0}, true},
		{"h1", Vector{X: 7, Y: 7}, true},
		{"c3", Vector{X: 2, Y: 5}, true},
		{" C6 ", Vector{X: 2, Y: 2}, true},
		{"i1", Vector{}, false},
		{"a0", Vector{}, false},
		{"a9", Vector{}, false},
		{"c", Vector{}, false},
		{"c33", Vector{}, false},
		{"", Vector{}, false},
	}

	for _, tt := range tests {
		got, err := ParseSquare(tt.in)
		if !tt.ok {
			if !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("%q: err = %v, want ErrInvalidCoordinate", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: got %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if tt.in == "c3" && got.String() != "c3" {
			t.Errorf("String() = %s", got)
		}
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want []Vector
	}{
		{"c3-c4", []Vector{{X: 2, Y: 5}, {X: 2, Y: 4}}},
		{"c4xc6xe6", []Vector{{X: 2, Y: 4}, {X: 2, Y: 2}, {X: 4, Y: 2}}},
		{"a1 a2", []Vector{{X: 0, Y: 7}, {X: 0, Y: 6}}},
		{"a1,a2", []Vector{{X: 0, Y: 7}, {X: 0, Y: 6}}},
	}
	for _, tt := range tests {
		got, err := ParsePath(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: got %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "c3", "c3-", "c3-z9", "c3--c44"} {
		if _, err := ParsePath(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestFormatPath(t *testing.T) {
	path := []Vector{{X: 2, Y: 4}, {X: 2, Y: 2}, {X: 4, Y: 2}}
	if got := FormatPath(path, true); got != "c4xc6xe6" {
		t.Errorf("capture = %s", got)
	}
	if got := FormatPath(path[:2], false); got != "c4-c6" {
		t.Errorf("simple = %s", got)
	}
}

func TestVectorJSON(t *testing.T) {
	data, err := json.Marshal(Vector{X: 3, Y: 6})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"x":3,"y":6}` {
		t.Errorf("marshal = %s", data)
	}

	var v Vector
	if err := json.Unmarshal([]byte(`{"x":7,"y":0}`), &v); err != nil || v != (Vector{X: 7, Y: 0}) {
		t.Errorf("unmarshal = %v, %v", v, err)
	}
	if err := json.Unmarshal([]byte(`{"x":2.0,"y":1}`), &v); err != nil || v != (Vector{X: 2, Y: 1}) {
		t.Errorf("integral float = %v, %v", v, err)
	}

	for _, bad := range []string{
		`{"x":1.5,"y":0}`,
		`{"x":0,"y":0.25}`,
		`{"x":8,"y":0}`,
		`{"x":0,"y":-1}`,
		`{"x":"a","y":0}`,
		`[1,2]`,
	} {
		v := Vector{X: 4, Y: 4}
		if err := json.Unmarshal([]byte(bad), &v); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("%s: err = %v, want ErrInvalidCoordinate", bad, err)
		}
		if v != (Vector{X: 4, Y: 4}) {
			t.Errorf("%s: target overwritten with %v", bad, v)
		}
	}
}

func TestWinState(t *testing.T) {
	if WinState(SideLight) != StateLightWins || WinState(SideDark) != StateDarkWins {
		t.Error("wrong winner state")
	}
}
