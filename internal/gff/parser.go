package gff

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parser reads alignment records from a GFF3 file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// NewParser creates a new parser for the given file.
// Supports both plain and gzipped (.gff.gz) files; "-" reads stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gff file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read gff file: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek gff file: %w", err)
	}

	// Gzip magic number (0x1f, 0x8b)
	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next reads the next alignment record.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read record line: %w", err)
		}
		atEOF := err == io.EOF

		if line != "" {
			p.lineNumber++
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			if atEOF {
				return nil, nil
			}
			continue
		}

		return p.parseLine(line)
	}
}

// ReadAll reads every remaining record from the parser.
func (p *Parser) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return records, nil
		}
		records = append(records, r)
	}
}

// parseLine parses a single GFF3 data line into a Record.
func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected 9 columns, found %d", len(fields)),
		}
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid start position: %s", fields[3]),
		}
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid end position: %s", fields[4]),
		}
	}

	score := 0.0
	if fields[5] != "." {
		score, err = strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("invalid score: %s", fields[5]),
			}
		}
	}

	attrs, err := p.parseAttributes(fields[8])
	if err != nil {
		return nil, err
	}

	return &Record{
		SeqID:      fields[0],
		Source:     fields[1],
		Type:       fields[2],
		Start:      start,
		End:        end,
		Score:      score,
		Strand:     fields[6],
		Frame:      fields[7],
		Attributes: attrs,
	}, nil
}

// parseAttributes parses the semicolon-separated key=value attribute
// column. All keys required by the boundary predictor must be present;
// defaulting a missing key would silently corrupt vote counts.
func (p *Parser) parseAttributes(attrStr string) (Attributes, error) {
	raw := make(map[string]string)
	for _, kv := range strings.Split(attrStr, ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		raw[key] = value
	}

	for _, key := range []string{"ID", "Rank", "Identity", "Positive", "Target"} {
		if _, ok := raw[key]; !ok {
			return Attributes{}, &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("missing required attribute %q", key),
			}
		}
	}

	rank, err := strconv.Atoi(raw["Rank"])
	if err != nil {
		return Attributes{}, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid Rank: %s", raw["Rank"]),
		}
	}

	identity, err := strconv.ParseFloat(raw["Identity"], 64)
	if err != nil {
		return Attributes{}, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid Identity: %s", raw["Identity"]),
		}
	}

	positive, err := strconv.ParseFloat(raw["Positive"], 64)
	if err != nil {
		return Attributes{}, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid Positive: %s", raw["Positive"]),
		}
	}

	return Attributes{
		ID:       raw["ID"],
		Rank:     rank,
		Identity: identity,
		Positive: positive,
		Target:   strings.Split(raw["Target"], "|"),
	}, nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during GFF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gff parse error at line %d: %s", e.Line, e.Message)
}
