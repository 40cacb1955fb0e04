package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrMalformed is returned when a token expected to be an integer is not one.
var ErrMalformed = errors.New("malformed token")

// compactThreshold is how many consumed tokens may sit at the front of the
// buffer before it is shifted down.
const compactThreshold = 4096

// Stream is a FIFO of whitespace-delimited tokens. Lines are appended by one
// goroutine and consumed by another; line boundaries carry no meaning.
type Stream struct {
	mu       sync.Mutex
	toks     []string
	head     int
	consumed int
}

// New returns an empty stream.
func New() *Stream {
	return &Stream{}
}

// Receive splits line on runs of whitespace and appends the non-empty
// pieces to the tail of the stream.
func (s *Stream) Receive(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	s.mu.Lock()
	s.toks = append(s.toks, fields...)
	s.mu.Unlock()
}

// Count reports how many tokens are buffered and not yet consumed.
func (s *Stream) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.toks) - s.head
}

// Consumed reports how many tokens have been removed from the head since the
// stream was created.
func (s *Stream) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

// Next removes and returns the head token. Callers check Count first; an
// empty stream yields "".
func (s *Stream) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLocked()
}

// NextInt removes the head token and parses it as a base-10 signed integer.
// The token is consumed even when it fails to parse.
func (s *Stream) NextInt() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.consumed
	tok := s.nextLocked()
	return parse(tok, pos)
}

// PeekInt parses the token offset places past the head without consuming
// anything.
func (s *Stream) PeekInt(offset int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.head + offset
	if offset < 0 || i >= len(s.toks) {
		return 0, fmt.Errorf("peek %d past %d buffered tokens", offset, len(s.toks)-s.head)
	}
	return parse(s.toks[i], s.consumed+offset)
}

func (s *Stream) nextLocked() string {
	if s.head >= len(s.toks) {
		return ""
	}
	tok := s.toks[s.head]
	s.toks[s.head] = ""
	s.head++
	s.consumed++
	if s.head == len(s.toks) {
		s.toks = s.toks[:0]
		s.head = 0
	} else if s.head >= compactThreshold && s.head*2 >= len(s.toks) {
		n := copy(s.toks, s.toks[s.head:])
		s.toks = s.toks[:n]
		s.head = 0
	}
	return tok
}

func parse(tok string, pos int) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w %q at position %d", ErrMalformed, tok, pos)
	}
	return v, nil
}
