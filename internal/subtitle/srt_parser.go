package subtitle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const utf8BOM = "\ufeff"

// State is the position of a Session inside the current block.
type State int

const (
	StateAwaitingIndex State = iota
	StateAwaitingTimestamps
	StateAccumulatingText
)

func (s State) String() string {
	switch s {
	case StateAwaitingIndex:
		return "awaiting-index"
	case StateAwaitingTimestamps:
		return "awaiting-timestamps"
	case StateAccumulatingText:
		return "accumulating-text"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type ParserOption func(*Parser)

// WithCaptionSeparator sets the string inserted between the caption lines of
// one block. The default joins them with nothing in between.
func WithCaptionSeparator(sep string) ParserOption {
	return func(p *Parser) {
		p.separator = sep
	}
}

func WithLogger(logger *zap.SugaredLogger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser decodes SRT text. It only carries options; every Parse call runs in
// its own Session, so one Parser can be shared between goroutines.
type Parser struct {
	separator string
	logger    *zap.SugaredLogger
}

func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes every block in text. A malformed timestamp line aborts the
// whole parse and no records are returned.
func (p *Parser) Parse(text string) ([]Record, error) {
	s := p.NewSession()
	rest := strings.TrimPrefix(text, utf8BOM)
	for len(rest) > 0 {
		line := rest
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			rest = ""
		}
		if err := s.Feed(strings.TrimSuffix(line, "\r")); err != nil {
			return nil, err
		}
	}
	return s.Finish(), nil
}

func (p *Parser) ParseBytes(data []byte) ([]Record, error) {
	return p.Parse(string(data))
}

// Session holds the state machine and scratch block for one parse. It is
// owned by a single caller.
type Session struct {
	separator string
	logger    *zap.SugaredLogger

	state   State
	line    int
	block   pendingBlock
	records []Record
}

type pendingBlock struct {
	index int
	start Timestamp
	end   Timestamp
	lines int
	text  strings.Builder
}

func (p *Parser) NewSession() *Session {
	return &Session{separator: p.separator, logger: p.logger}
}

func (s *Session) State() State {
	return s.state
}

// Feed advances the state machine by one physical line. The line must not
// contain its terminator.
func (s *Session) Feed(line string) error {
	s.line++

	switch s.state {
	case StateAwaitingIndex:
		index, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return nil
		}
		s.block.index = index
		s.state = StateAwaitingTimestamps

	case StateAwaitingTimestamps:
		start, end, err := DecodeTimestamps(line)
		if err != nil {
			var tsErr *TimestampError
			if errors.As(err, &tsErr) {
				tsErr.Line = s.line
			}
			return err
		}
		s.block.start = start
		s.block.end = end
		s.state = StateAccumulatingText

	case StateAccumulatingText:
		switch {
		case line == "":
			s.finalize()
		case strings.TrimSpace(line) == "":
			// stray whitespace inside a block
		default:
			if s.block.lines > 0 {
				s.block.text.WriteString(s.separator)
			}
			s.block.text.WriteString(line)
			s.block.lines++
		}
	}

	return nil
}

// Finish flushes a final block that was not followed by a blank line and
// returns every record collected so far, in file order.
func (s *Session) Finish() []Record {
	if s.state == StateAccumulatingText && s.block.text.Len() > 0 {
		s.finalize()
	}
	return s.records
}

// Reset discards the pending block and all collected records.
func (s *Session) Reset() {
	s.state = StateAwaitingIndex
	s.line = 0
	s.records = nil
	s.block.reset()
}

func (s *Session) finalize() {
	rec := Record{
		Index: s.block.index,
		Text:  s.block.text.String(),
		Start: s.block.start,
		End:   s.block.end,
	}
	s.records = append(s.records, rec)
	s.logger.Debugw("Subtitle block parsed",
		"index", rec.Index,
		"start_seconds", rec.Start.TotalSeconds(),
		"end_seconds", rec.End.TotalSeconds(),
		"lines", s.block.lines,
	)

	s.block.reset()
	s.state = StateAwaitingIndex
}

func (b *pendingBlock) reset() {
	b.index = 0
	b.start = Timestamp{}
	b.end = Timestamp{}
	b.lines = 0
	b.text.Reset()
}

// DecodeTimestamps reads the two HH:MM:SS,mmm ranges of a timing line. Any
// non-digit text around and between the ranges is skipped; milliseconds are
// dropped.
func DecodeTimestamps(line string) (start, end Timestamp, err error) {
	start, cursor, err := decodeTimestamp(line, 0)
	if err != nil {
		return Timestamp{}, Timestamp{}, err
	}
	end, _, err = decodeTimestamp(line, cursor)
	if err != nil {
		return Timestamp{}, Timestamp{}, err
	}
	return start, end, nil
}

// decodeTimestamp reads one timestamp starting at cursor and returns the
// cursor positioned just past its milliseconds.
func decodeTimestamp(line string, cursor int) (Timestamp, int, error) {
	for cursor < len(line) && !isDigit(line[cursor]) {
		cursor++
	}
	if cursor >= len(line) {
		return Timestamp{}, cursor, &TimestampError{
			Input:  line,
			Field:  -1,
			Reason: "no timestamp found",
		}
	}

	var fields [3]uint8
	found := 0
	fieldStart := cursor
	for i := cursor; i < len(line) && found < len(fields); i++ {
		if line[i] != ':' && line[i] != ',' {
			continue
		}

		raw := line[fieldStart:i]
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 8)
		if err != nil {
			return Timestamp{}, i, &TimestampError{
				Input:  line,
				Field:  found,
				Reason: fmt.Sprintf("field %q is not a number in 0-255", raw),
				Err:    err,
			}
		}
		fields[found] = uint8(v)
		found++

		fieldStart = i + 1
		cursor = i + 1
	}

	if found < len(fields) {
		return Timestamp{}, cursor, &TimestampError{
			Input:  line,
			Field:  found,
			Reason: fmt.Sprintf("expected 3 fields, found %d", found),
		}
	}

	// milliseconds
	for cursor < len(line) && isDigit(line[cursor]) {
		cursor++
	}

	return NewTimestamp(fields[0], fields[1], fields[2]), cursor, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
