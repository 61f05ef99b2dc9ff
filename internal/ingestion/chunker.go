package ingestion

import (
	"strings"
)

const (
	DefaultMaxTokens = 800
	DefaultOverlap   = 100

	// Sliding windows are sized in characters, approximating 4 chars/token.
	charsPerToken = 4
)

const (
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
	SectionEducation  = "education"
	SectionCerts      = "certs"
	SectionOther      = "other"
)

// Chunk is one section-tagged window over a document, before persistence.
type Chunk struct {
	Content    string
	Section    string
	Heading    string
	Position   int
	TokenCount int
}

type section struct {
	name    string
	heading string
	lines   []string
}

// sectionMarkers is checked in order against each trimmed, lowercased line.
// A matching line starts a new section and is consumed as its heading.
var sectionMarkers = []struct {
	prefixes []string
	name     string
	heading  string
}{
	{[]string{"experience", "work experience"}, SectionExperience, "Experience"},
	{[]string{"skills"}, SectionSkills, "Skills"},
	{[]string{"projects"}, SectionProjects, "Projects"},
	{[]string{"education"}, SectionEducation, "Education"},
	{[]string{"certifications", "certs"}, SectionCerts, "Certifications"},
}

// ChunkText splits raw document text into section-tagged, overlapping
// windows. It is a pure function of its inputs: positions restart at zero on
// every call and increase across section boundaries with no gaps.
func ChunkText(text string, maxTokens, overlap int) []Chunk {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}

	lines := strings.Split(text, "\n")
	sections := detectSections(lines)

	windowSize := maxTokens * charsPerToken
	step := windowSize - overlap*charsPerToken
	if step <= 0 {
		step = windowSize
	}

	chunks := make([]Chunk, 0, len(sections))
	position := 0
	for _, sec := range sections {
		content := strings.TrimSpace(strings.Join(sec.lines, "\n"))
		if content == "" {
			continue
		}

		r := []rune(content)
		start := 0
		for start < len(r) {
			end := start + windowSize
			if end > len(r) {
				end = len(r)
			}
			piece := string(r[start:end])
			chunks = append(chunks, Chunk{
				Content:    piece,
				Section:    sec.name,
				Heading:    sec.heading,
				Position:   position,
				TokenCount: approxTokenCount(piece),
			})
			position++
			if end == len(r) {
				break
			}
			start += step
		}
	}
	return chunks
}

// detectSections scans lines in order, starting a new block whenever a line
// prefix-matches a known section marker. Blocks keep source order; nothing is
// re-grouped into canonical sections. When no marker matches at all the whole
// text becomes a single untagged block.
func detectSections(lines []string) []section {
	var sections []section

	current := section{name: SectionOther}
	push := func() {
		if len(current.lines) > 0 {
			sections = append(sections, current)
		}
	}

lineLoop:
	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		for _, marker := range sectionMarkers {
			for _, prefix := range marker.prefixes {
				if strings.HasPrefix(lower, prefix) {
					push()
					current = section{name: marker.name, heading: marker.heading}
					continue lineLoop
				}
			}
		}
		current.lines = append(current.lines, line)
	}
	push()

	if len(sections) == 0 {
		sections = append(sections, section{name: SectionOther, lines: lines})
	}
	return sections
}

func approxTokenCount(text string) int {
	n := len(text) / charsPerToken
	if n < 1 {
		n = 1
	}
	return n
}
