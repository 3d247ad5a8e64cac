package control

import (
	"bytes"
	"io"
	"testing"

	"pkt.systems/pslog"
)

func testDecoder() (*Decoder, *[][2]int) {
	var resizes [][2]int
	logger := pslog.NewWithOptions(io.Discard, pslog.Options{
		Mode:             pslog.ModeStructured,
		DisableTimestamp: true,
		NoColor:          true,
	})
	d := NewDecoder(func(cols, rows int) {
		resizes = append(resizes, [2]int{cols, rows})
	}, logger)
	return d, &resizes
}

func TestFilterPassesPlainDataThrough(t *testing.T) {
	inputs := []string{
		"",
		"hello world",
		"line one\r\nline two\r\n",
		"\x1b[31mred\x1b[0m",
		"\x1b]0;window title\x07",
		"\x00\x01\x02\xff\xfe",
	}
	for _, input := range inputs {
		d, resizes := testDecoder()
		got := string(d.Filter([]byte(input))) + string(d.Flush())
		if got != input {
			t.Fatalf("Filter(%q) = %q, want input unchanged", input, got)
		}
		if len(*resizes) != 0 {
			t.Fatalf("Filter(%q) produced %d resizes, want 0", input, len(*resizes))
		}
	}
}

func TestFilterExtractsDirective(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"\x1b]RESIZE;120;40\x07", ""},
		{"before\x1b]RESIZE;120;40\x07", "before"},
		{"\x1b]RESIZE;120;40\x07after", "after"},
		{"before\x1b]RESIZE;120;40\x07after", "beforeafter"},
	}
	for _, tc := range cases {
		d, resizes := testDecoder()
		got := string(d.Filter([]byte(tc.input)))
		if got != tc.want {
			t.Fatalf("Filter(%q) = %q, want %q", tc.input, got, tc.want)
		}
		if len(*resizes) != 1 || (*resizes)[0] != [2]int{120, 40} {
			t.Fatalf("Filter(%q) resizes = %v, want [[120 40]]", tc.input, *resizes)
		}
		if tail := d.Flush(); len(tail) != 0 {
			t.Fatalf("Flush after %q = %q, want empty", tc.input, tail)
		}
	}
}

func TestFilterAppliesDirectivesInOrder(t *testing.T) {
	d, resizes := testDecoder()
	input := "ab\x1b]RESIZE;80;24\x07cd\x1b]RESIZE;100;30\x07ef"
	got := string(d.Filter([]byte(input)))
	if got != "abcdef" {
		t.Fatalf("Filter = %q, want %q", got, "abcdef")
	}
	want := [][2]int{{80, 24}, {100, 30}}
	if len(*resizes) != 2 || (*resizes)[0] != want[0] || (*resizes)[1] != want[1] {
		t.Fatalf("resizes = %v, want %v", *resizes, want)
	}
}

func TestFilterDropsMalformedDirective(t *testing.T) {
	inputs := []string{
		"\x1b]RESIZE;abc;10\x07",
		"\x1b]RESIZE;10;abc\x07",
		"\x1b]RESIZE;10\x07",
		"\x1b]RESIZE;10;20;30\x07",
		"\x1b]RESIZE;\x07",
		"\x1b]RESIZE;;\x07",
	}
	for _, input := range inputs {
		d, resizes := testDecoder()
		got := string(d.Filter([]byte("x" + input + "y")))
		if got != "xy" {
			t.Fatalf("Filter(%q) = %q, want %q", input, got, "xy")
		}
		if len(*resizes) != 0 {
			t.Fatalf("Filter(%q) resizes = %v, want none", input, *resizes)
		}
	}
}

func TestFilterHoldsPartialDirectiveAcrossChunks(t *testing.T) {
	full := []byte("one\x1b]RESIZE;132;43\x07two")
	for split := 1; split < len(full); split++ {
		d, resizes := testDecoder()
		var clean bytes.Buffer
		clean.Write(d.Filter(full[:split]))
		clean.Write(d.Filter(full[split:]))
		clean.Write(d.Flush())
		if got := clean.String(); got != "onetwo" {
			t.Fatalf("split %d: clean = %q, want %q", split, got, "onetwo")
		}
		if len(*resizes) != 1 || (*resizes)[0] != [2]int{132, 43} {
			t.Fatalf("split %d: resizes = %v, want [[132 43]]", split, *resizes)
		}
	}
}

func TestFilterByteAtATime(t *testing.T) {
	full := []byte("a\x1b]RESIZE;90;25\x07b\x1b]RESIZE;bad\x07c")
	d, resizes := testDecoder()
	var clean bytes.Buffer
	for _, b := range full {
		clean.Write(d.Filter([]byte{b}))
	}
	clean.Write(d.Flush())
	if got := clean.String(); got != "abc" {
		t.Fatalf("clean = %q, want %q", got, "abc")
	}
	if len(*resizes) != 1 || (*resizes)[0] != [2]int{90, 25} {
		t.Fatalf("resizes = %v, want [[90 25]]", *resizes)
	}
}

func TestFilterFlushReturnsHeldPrefix(t *testing.T) {
	d, resizes := testDecoder()
	if got := d.Filter([]byte("\x1b]RES")); len(got) != 0 {
		t.Fatalf("Filter = %q, want empty while holding", got)
	}
	if got := string(d.Flush()); got != "\x1b]RES" {
		t.Fatalf("Flush = %q, want %q", got, "\x1b]RES")
	}
	if got := d.Flush(); len(got) != 0 {
		t.Fatalf("second Flush = %q, want empty", got)
	}
	if len(*resizes) != 0 {
		t.Fatalf("resizes = %v, want none", *resizes)
	}
}

func TestFilterForwardsDivergentPrefix(t *testing.T) {
	inputs := []string{
		"\x1bA",
		"\x1b]X",
		"\x1b]RESIZX;80;24\x07",
		"\x1b]resize;80;24\x07",
	}
	for _, input := range inputs {
		d, resizes := testDecoder()
		got := string(d.Filter([]byte(input))) + string(d.Flush())
		if got != input {
			t.Fatalf("Filter(%q) = %q, want forwarded verbatim", input, got)
		}
		if len(*resizes) != 0 {
			t.Fatalf("Filter(%q) resizes = %v, want none", input, *resizes)
		}
	}
}

func TestFilterRescansAfterDivergence(t *testing.T) {
	d, resizes := testDecoder()
	input := "\x1b\x1b]RESIZE;80;24\x07"
	got := string(d.Filter([]byte(input)))
	if got != "\x1b" {
		t.Fatalf("Filter = %q, want lone escape", got)
	}
	if len(*resizes) != 1 || (*resizes)[0] != [2]int{80, 24} {
		t.Fatalf("resizes = %v, want [[80 24]]", *resizes)
	}
}

func TestFilterAbandonsUnterminatedDirective(t *testing.T) {
	input := directivePrefix + "123456789012345678901234567890123456789012345678901234567890"
	d, resizes := testDecoder()
	got := string(d.Filter([]byte(input))) + string(d.Flush())
	if got != input {
		t.Fatalf("clean+flush = %q, want input forwarded verbatim", got)
	}
	if len(*resizes) != 0 {
		t.Fatalf("resizes = %v, want none", *resizes)
	}
}

func TestFilterRejectsTerminatorBeyondBound(t *testing.T) {
	body := bytes.Repeat([]byte("9"), maxPending)
	input := directivePrefix + string(body) + "\x07"
	d, resizes := testDecoder()
	got := string(d.Filter([]byte(input))) + string(d.Flush())
	if got != input {
		t.Fatalf("clean+flush = %q, want input forwarded verbatim", got)
	}
	if len(*resizes) != 0 {
		t.Fatalf("resizes = %v, want none", *resizes)
	}
}

func TestFilterBoundsPendingBuffer(t *testing.T) {
	d, _ := testDecoder()
	input := directivePrefix + "12345678901234567890123456789012345678901234567890123456789012345"
	for _, b := range []byte(input) {
		d.Filter([]byte{b})
		if len(d.pending) > maxPending {
			t.Fatalf("pending grew to %d bytes, bound is %d", len(d.pending), maxPending)
		}
	}
}

func TestFilterFindsDirectiveInsideAbandonedSpan(t *testing.T) {
	d, resizes := testDecoder()
	// A directive begins while an earlier candidate is still waiting for
	// its terminator. Once the bound trips, the inner one must win.
	input := directivePrefix + "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx" + "\x1b]RESIZE;77;21\x07"
	var clean bytes.Buffer
	for _, b := range []byte(input) {
		clean.Write(d.Filter([]byte{b}))
	}
	clean.Write(d.Flush())
	if len(*resizes) != 1 || (*resizes)[0] != [2]int{77, 21} {
		t.Fatalf("resizes = %v, want [[77 21]]", *resizes)
	}
	want := directivePrefix + "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
	if got := clean.String(); got != want {
		t.Fatalf("clean = %q, want %q", got, want)
	}
}
