package main

import (
	"errors"
	"testing"

	sidebar "github.com/derekross/obsidian-opencode-sidebar"
)

func TestParseDims(t *testing.T) {
	cols, rows, err := parseDims("132", "43")
	if err != nil {
		t.Fatalf("parseDims: %v", err)
	}
	if cols != 132 || rows != 43 {
		t.Fatalf("parseDims = %d x %d, want 132 x 43", cols, rows)
	}
}

func TestParseDimsZeroMeansDetect(t *testing.T) {
	cols, rows, err := parseDims("0", "0")
	if err != nil {
		t.Fatalf("parseDims: %v", err)
	}
	if cols != 0 || rows != 0 {
		t.Fatalf("parseDims = %d x %d, want 0 x 0", cols, rows)
	}
}

func TestParseDimsRejectsGarbage(t *testing.T) {
	for _, args := range [][2]string{
		{"eighty", "24"},
		{"80", "twenty"},
		{"", "24"},
		{"80", ""},
	} {
		_, _, err := parseDims(args[0], args[1])
		if err == nil {
			t.Fatalf("parseDims(%q, %q) accepted garbage", args[0], args[1])
		}
		var uerr usageError
		if !errors.As(err, &uerr) {
			t.Fatalf("parseDims(%q, %q) error %v is not a usage error", args[0], args[1], err)
		}
	}
}

func TestParseDimsRejectsNegative(t *testing.T) {
	_, _, err := parseDims("-1", "24")
	if err == nil {
		t.Fatal("parseDims accepted negative columns")
	}
	var uerr usageError
	if !errors.As(err, &uerr) {
		t.Fatalf("error %v is not a usage error", err)
	}
}

func TestRootArgsRequireCommand(t *testing.T) {
	cmd := NewRootCommand(sidebar.NewLoader())
	err := cmd.Args(cmd, []string{"80", "24"})
	if err == nil {
		t.Fatal("Args accepted two arguments")
	}
	var uerr usageError
	if !errors.As(err, &uerr) {
		t.Fatalf("error %v is not a usage error", err)
	}
	if err := cmd.Args(cmd, []string{"80", "24", "sh"}); err != nil {
		t.Fatalf("Args rejected a full argument list: %v", err)
	}
}
