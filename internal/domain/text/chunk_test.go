package text

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kailas-cloud/docchat/internal/domain"
)

func TestChunkConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ChunkConfig
		wantErr bool
	}{
		{"valid", ChunkConfig{SizeChars: 100, OverlapChars: 20}, false},
		{"zero overlap", ChunkConfig{SizeChars: 100, OverlapChars: 0}, false},
		{"zero size", ChunkConfig{SizeChars: 0, OverlapChars: 0}, true},
		{"negative size", ChunkConfig{SizeChars: -5, OverlapChars: 0}, true},
		{"negative overlap", ChunkConfig{SizeChars: 100, OverlapChars: -1}, true},
		{"overlap equals size", ChunkConfig{SizeChars: 50, OverlapChars: 50}, true},
		{"overlap exceeds size", ChunkConfig{SizeChars: 50, OverlapChars: 60}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidChunkConfig) {
					t.Fatalf("expected ErrInvalidChunkConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSplit_InvalidConfig(t *testing.T) {
	_, err := Split("some text", ChunkConfig{SizeChars: 10, OverlapChars: 10})
	if !errors.Is(err, domain.ErrInvalidChunkConfig) {
		t.Fatalf("expected ErrInvalidChunkConfig, got %v", err)
	}
}

func TestSplit_Empty(t *testing.T) {
	chunks, err := Split("", ChunkConfig{SizeChars: 10, OverlapChars: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	text := "a short sentence"
	chunks, err := Split(text, ChunkConfig{SizeChars: 100, OverlapChars: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("chunk text = %q, want %q", chunks[0].Text, text)
	}
	if chunks[0].Start != 0 || chunks[0].End != len(text) {
		t.Errorf("offsets = [%d,%d), want [0,%d)", chunks[0].Start, chunks[0].End, len(text))
	}
}

func TestSplit_WordBoundariesAndOverlap(t *testing.T) {
	text := "The sky is blue. Grass is green."
	chunks, err := Split(text, ChunkConfig{SizeChars: 20, OverlapChars: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"The sky is blue.", "blue. Grass is", "is green."}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(chunks), chunks)
	}
	for i, c := range chunks {
		if c.Text != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, c.Text, want[i])
		}
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		// Splits must land on word boundaries only.
		for _, w := range strings.Fields(c.Text) {
			if !strings.Contains(" "+text+" ", " "+w+" ") {
				t.Errorf("chunk %d contains split word %q", i, w)
			}
		}
	}
}

func TestSplit_ChunkSizeBound(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "word%d ", i)
	}
	text := strings.TrimSpace(b.String())

	cfg := ChunkConfig{SizeChars: 48, OverlapChars: 12}
	chunks, err := Split(text, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c.Text) > cfg.SizeChars {
			t.Errorf("chunk %d exceeds size: %d chars: %q", c.Index, len(c.Text), c.Text)
		}
	}
}

func TestSplit_OversizedWordEmittedAlone(t *testing.T) {
	long := strings.Repeat("x", 40)
	text := "start " + long + " end"
	chunks, err := Split(text, ChunkConfig{SizeChars: 10, OverlapChars: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, c := range chunks {
		if c.Text == long {
			found = true
		}
		if strings.Contains(c.Text, "x") && c.Text != long {
			t.Errorf("oversized word was split or merged: %q", c.Text)
		}
	}
	if !found {
		t.Error("oversized word not emitted as its own chunk")
	}
}

func TestSplit_DenseIndices(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 50)
	chunks, err := Split(strings.TrimSpace(text), ChunkConfig{SizeChars: 30, OverlapChars: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Fatalf("index gap: chunk at position %d has index %d", i, c.Index)
		}
	}
}

// TestSplit_Reconstruction checks that the non-overlapping spans of the
// chunk sequence tile the normalized source exactly: each chunk's fresh
// content begins where the previous chunk ended, and every chunk's text
// matches its [Start,End) slice.
func TestSplit_Reconstruction(t *testing.T) {
	texts := []string{
		"The sky is blue. Grass is green.",
		strings.TrimSpace(strings.Repeat("one two three four five six seven ", 30)),
		"solitary",
		"a b c d e f g h i j k l m n o p",
	}
	cfgs := []ChunkConfig{
		{SizeChars: 20, OverlapChars: 5},
		{SizeChars: 15, OverlapChars: 7},
		{SizeChars: 9, OverlapChars: 0},
	}

	for _, text := range texts {
		for _, cfg := range cfgs {
			t.Run(fmt.Sprintf("%.12s/%d-%d", text, cfg.SizeChars, cfg.OverlapChars), func(t *testing.T) {
				chunks, err := Split(text, cfg)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(chunks) == 0 {
					t.Fatal("expected at least one chunk")
				}
				if chunks[0].Start != 0 {
					t.Errorf("first chunk starts at %d, want 0", chunks[0].Start)
				}
				if chunks[len(chunks)-1].End != len(text) {
					t.Errorf("last chunk ends at %d, want %d", chunks[len(chunks)-1].End, len(text))
				}
				prevEnd := 0
				for _, c := range chunks {
					if got := text[c.Start:c.End]; got != c.Text {
						t.Errorf("chunk %d text %q does not match source slice %q", c.Index, c.Text, got)
					}
					// A chunk may start at most one byte past the previous
					// end: the separating space belongs to no word.
					if c.Start > prevEnd+1 {
						t.Errorf("chunk %d leaves a gap: starts at %d after previous end %d", c.Index, c.Start, prevEnd)
					}
					if c.End <= prevEnd && c.Index > 0 {
						t.Errorf("chunk %d adds no new content: end %d <= previous end %d", c.Index, c.End, prevEnd)
					}
					prevEnd = c.End
				}
			})
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 40))
	cfg := ChunkConfig{SizeChars: 64, OverlapChars: 16}

	first, err := Split(text, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, err := Split(text, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: chunk count %d != %d", run, len(again), len(first))
		}
		for i := range again {
			if again[i] != first[i] {
				t.Fatalf("run %d: chunk %d differs: %+v != %+v", run, i, again[i], first[i])
			}
		}
	}
}
