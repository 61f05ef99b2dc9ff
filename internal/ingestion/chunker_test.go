package ingestion

import (
	"strings"
	"testing"
)

func TestChunkTextSectionDetection(t *testing.T) {
	text := strings.Join([]string{
		"John Doe",
		"Experience",
		"Built backend services in Go.",
		"Skills",
		"Go, PostgreSQL, Docker",
		"Education",
		"BSc Computer Science",
	}, "\n")

	chunks := ChunkText(text, DefaultMaxTokens, DefaultOverlap)
	if len(chunks) != 4 {
		t.Fatalf("chunk count: want=4 got=%d", len(chunks))
	}

	wantSections := []string{SectionOther, SectionExperience, SectionSkills, SectionEducation}
	for i, want := range wantSections {
		if chunks[i].Section != want {
			t.Fatalf("chunk %d section: want=%q got=%q", i, want, chunks[i].Section)
		}
	}
	if chunks[0].Heading != "" {
		t.Fatalf("untagged block should have no heading, got %q", chunks[0].Heading)
	}
	if chunks[1].Heading != "Experience" {
		t.Fatalf("experience heading: want=%q got=%q", "Experience", chunks[1].Heading)
	}
	if chunks[1].Content != "Built backend services in Go." {
		t.Fatalf("experience content: got=%q", chunks[1].Content)
	}
}

func TestChunkTextPositionsContiguous(t *testing.T) {
	text := "Experience\n" + strings.Repeat("worked on distributed systems. ", 400) +
		"\nSkills\n" + strings.Repeat("go postgres docker kubernetes ", 300)

	chunks := ChunkText(text, 100, 20)
	if len(chunks) < 4 {
		t.Fatalf("expected several chunks across sections, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Position != i {
			t.Fatalf("position gap at %d: got=%d", i, ch.Position)
		}
	}
}

func TestChunkTextOverlapAndCoverage(t *testing.T) {
	body := strings.Repeat("abcdefghij", 500) // 5000 chars, single section
	text := "Experience\n" + body

	maxTokens, overlap := 100, 10
	chunks := ChunkText(text, maxTokens, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(chunks))
	}

	window := maxTokens * 4
	overlapChars := overlap * 4
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1].Content, chunks[i].Content
		if len(prev) != window {
			t.Fatalf("window %d size: want=%d got=%d", i-1, window, len(prev))
		}
		if prev[len(prev)-overlapChars:] != cur[:overlapChars] {
			t.Fatalf("windows %d/%d do not share %d chars of overlap", i-1, i, overlapChars)
		}
	}

	// Dropping each window's leading overlap reconstructs the section text.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0].Content)
	for i := 1; i < len(chunks); i++ {
		rebuilt.WriteString(chunks[i].Content[overlapChars:])
	}
	if rebuilt.String() != body {
		t.Fatalf("reassembled text does not match source (lens %d vs %d)", rebuilt.Len(), len(body))
	}
}

func TestChunkTextAdvancesWhenOverlapCoversWindow(t *testing.T) {
	body := strings.Repeat("0123456789", 200) // 2000 chars, single section
	text := "Experience\n" + body

	// overlap == maxTokens would leave no forward step; the window falls back
	// to full-size steps and must still terminate.
	chunks := ChunkText(text, 100, 100)
	want := len(body) / (100 * 4)
	if len(chunks) != want {
		t.Fatalf("chunk count: want=%d got=%d", want, len(chunks))
	}
	var rebuilt strings.Builder
	for _, ch := range chunks {
		rebuilt.WriteString(ch.Content)
	}
	if rebuilt.String() != body {
		t.Fatalf("windows should tile the text exactly (lens %d vs %d)", rebuilt.Len(), len(body))
	}

	// overlap > maxTokens behaves the same way.
	chunks = ChunkText(text, 100, 250)
	if len(chunks) != want {
		t.Fatalf("chunk count with oversized overlap: want=%d got=%d", want, len(chunks))
	}
}

func TestChunkTextNoSectionsFallsBackToOther(t *testing.T) {
	chunks := ChunkText("just some resume text with no headers", DefaultMaxTokens, DefaultOverlap)
	if len(chunks) != 1 {
		t.Fatalf("chunk count: want=1 got=%d", len(chunks))
	}
	if chunks[0].Section != SectionOther {
		t.Fatalf("section: want=%q got=%q", SectionOther, chunks[0].Section)
	}
}

func TestChunkTextSkipsWhitespaceOnlyBlocks(t *testing.T) {
	text := "Experience\n\n   \nSkills\nGo and SQL"
	chunks := ChunkText(text, DefaultMaxTokens, DefaultOverlap)
	if len(chunks) != 1 {
		t.Fatalf("chunk count: want=1 got=%d", len(chunks))
	}
	if chunks[0].Section != SectionSkills {
		t.Fatalf("section: want=%q got=%q", SectionSkills, chunks[0].Section)
	}
	if chunks[0].Position != 0 {
		t.Fatalf("position should restart at 0, got %d", chunks[0].Position)
	}
}

func TestChunkTextTokenCountFloor(t *testing.T) {
	chunks := ChunkText("ab", DefaultMaxTokens, DefaultOverlap)
	if len(chunks) != 1 {
		t.Fatalf("chunk count: want=1 got=%d", len(chunks))
	}
	if chunks[0].TokenCount != 1 {
		t.Fatalf("token count floor: want=1 got=%d", chunks[0].TokenCount)
	}
}
