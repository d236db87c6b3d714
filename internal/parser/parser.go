// Package parser extracts flashcards from markdown files.
//
// A card starts with a line beginning "Q:" and its answer with a line
// beginning "A:". Following lines are appended to the current block until the
// next prefix, a "---" separator or the end of the file.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	frontPrefix = "Q:"
	backPrefix  = "A:"
	separator   = "---"
)

// Note is the content of one parsed card.
type Note struct {
	Front string
	Back  string
}

type state int

const (
	seeking state = iota
	readingFront
	readingBack
)

// ParseFile reads a file from the given path and extracts all notes.
func ParseFile(path string) ([]Note, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all notes. Notes without a
// front are dropped.
func Parse(r io.Reader) ([]Note, error) {
	p := &notesParser{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	p.finishNote()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.notes, nil
}

type notesParser struct {
	notes   []Note
	current Note
	block   []string
	state   state
}

func (p *notesParser) line(line string) {
	switch {
	case strings.TrimSpace(line) == separator:
		p.finishNote()
	case strings.HasPrefix(line, frontPrefix):
		if p.state != seeking {
			p.finishNote()
		}
		p.state = readingFront
		p.block = append(p.block, trimPrefix(line, frontPrefix))
	case strings.HasPrefix(line, backPrefix):
		p.flushBlock()
		p.state = readingBack
		p.block = append(p.block, trimPrefix(line, backPrefix))
	case p.state != seeking:
		p.block = append(p.block, line)
	}
}

// flushBlock stores the accumulated lines in the field being read.
func (p *notesParser) flushBlock() {
	if len(p.block) == 0 {
		return
	}
	content := strings.TrimSpace(strings.Join(p.block, "\n"))
	switch p.state {
	case readingFront:
		p.current.Front = content
	case readingBack:
		p.current.Back = content
	}
	p.block = nil
}

func (p *notesParser) finishNote() {
	p.flushBlock()
	if p.current.Front != "" {
		p.notes = append(p.notes, p.current)
	}
	p.current = Note{}
	p.state = seeking
}

func trimPrefix(line, prefix string) string {
	return strings.TrimPrefix(line[len(prefix):], " ")
}
