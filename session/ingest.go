package session

import (
	"io"

	"vtcon/eloop"
	"vtcon/util"
)

// helpText is pushed through the ingestion path at startup so it lands
// in the scrollback like any other input.
const helpText = "vtcon - virtual terminal console\n" +
	"\n" +
	"input is echoed to every active display\n" +
	"  SIGUSR1  move the session to the background\n" +
	"  SIGUSR2  bring the session to the foreground\n" +
	"  SIGTERM  terminate\n" +
	"\n"

func (s *Session) printHelp() {
	s.feed([]byte(helpText))
}

// onInput runs when the input stream is readable.  One callback reads
// at most one chunk; the watch is level-triggered, so leftover data
// fires it again.
func (s *Session) onInput(w *eloop.Fd, mask eloop.Mask) {
	if mask&eloop.Err != 0 {
		s.log.Warn("input stream error, closing")
		s.removeInput()
		return
	}

	buf := util.GetChunk()
	defer util.PutChunk(buf)

	n, err := s.inputFile.Read(*buf)
	if n > 0 {
		s.log.Debug("input read (len: %d)", n)
		s.met.BytesIngested(int64(n))
		s.feed((*buf)[:n])
	}

	switch {
	case err == io.EOF:
		s.log.Info("input stream closed")
		s.removeInput()
	case err != nil:
		// Transient read failure: stay registered and try again on
		// the next readiness report.
		s.log.Info("cannot read input: %v", err)
		s.met.RecordError(err.Error())
	}
}

// removeInput permanently deregisters the input watch.  The session
// keeps running on its other sources.
func (s *Session) removeInput() {
	s.loop.RemoveFd(s.input)
	s.input = nil
}

// feed pushes raw bytes into the console sink: newline control, every
// other byte verbatim as one symbol.
func (s *Session) feed(data []byte) {
	for _, b := range data {
		if b == '\n' {
			s.sink.Newline()
			s.met.Newline()
		} else {
			s.sink.Write(rune(b))
			s.met.Symbol()
		}
	}
}
