// Package report writes leveled diagnostic lines for the command line tool
// and the corpus harness.
//
// Every line has the form
//
//	\t[ LEVEL ] message
//
// where LEVEL is one of EXCEPTION, ERROR, WARNING or NOTICE.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Level is the severity of a message.
type Level int

const (
	// Exception reports an internal failure, such as a broken automaton
	// invariant.
	Exception Level = iota
	// Error reports a failed check.
	Error
	// Warning reports a suspicious but accepted input.
	Warning
	// Notice is informational.
	Notice

	numLevels
)

var levelNames = [numLevels]string{"EXCEPTION", "ERROR", "WARNING", "NOTICE"}

func (l Level) String() string {
	if l < 0 || l >= numLevels {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel returns the level with the given name.
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("report: unknown level %q", name)
}

// Subject names the kind of problem a message is about. It is printed
// before the message text.
type Subject int

const (
	// None prints the message alone.
	None Subject = iota
	// InputFile is a file that could not be read.
	InputFile
	// OutputFile is a file that could not be written.
	OutputFile
	// Runtime is an error raised by the matcher.
	Runtime
)

var subjectText = [...]string{"", "Can't open input file", "Can't open output file", "Runtime error"}

// Sink writes messages at or above a threshold level and counts every
// message it receives, printed or not. It is safe for concurrent use.
type Sink struct {
	mu        sync.Mutex
	w         io.Writer
	threshold Level
	run       uuid.UUID
	counts    [numLevels]int
}

// NewSink returns a sink writing to w. Messages less severe than threshold
// are counted but not written.
func NewSink(w io.Writer, threshold Level) *Sink {
	return &Sink{w: w, threshold: threshold, run: uuid.New()}
}

// RunID identifies the run the sink reports on.
func (s *Sink) RunID() uuid.UUID {
	return s.run
}

// Print writes message at level l.
func (s *Sink) Print(l Level, message string) {
	s.Report(l, None, message)
}

// Printf formats and writes a message at level l.
func (s *Sink) Printf(l Level, format string, args ...any) {
	s.Report(l, None, fmt.Sprintf(format, args...))
}

// Report writes message about subject at level l. With a subject, the
// message may be empty.
func (s *Sink) Report(l Level, subject Subject, message string) {
	if l < 0 || l >= numLevels {
		l = Exception
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[l]++
	if l > s.threshold {
		return
	}
	text := message
	if subject != None {
		text = subjectText[subject]
		if message != "" {
			text += ". " + message
		}
	}
	fmt.Fprintf(s.w, "\t[ %s ] %s\n", levelNames[l], text)
}

// Count returns the number of messages reported at level l.
func (s *Sink) Count(l Level) int {
	if l < 0 || l >= numLevels {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[l]
}

// Failed reports whether any EXCEPTION or ERROR was reported.
func (s *Sink) Failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[Exception]+s.counts[Error] > 0
}

// Summary formats the per-level counts and the run identifier.
func (s *Sink) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("run %s: %d exceptions, %d errors, %d warnings, %d notices",
		s.run, s.counts[Exception], s.counts[Error], s.counts[Warning], s.counts[Notice])
}
