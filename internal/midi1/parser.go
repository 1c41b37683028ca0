package midi1

import "github.com/leandrodaf/midi-router/sdk/contracts"

// parserMode is the parser's internal state-machine mode (spec.md §4.1).
type parserMode uint8

const (
	modeIdle parserMode = iota
	modeCollectingChannel
	modeCollectingSystem
	modeInSysEx
)

// State holds one stream's parser state. It is mutated only by ParseByte
// and is not safe for concurrent use from more than one goroutine, per
// spec.md §5: "The parsers are strictly single-threaded per stream and
// contain no synchronization of their own."
type State struct {
	mode parserMode

	runningStatus byte // 0 when invalidated

	dataBytes    [2]byte
	dataIndex    uint8
	expectedData uint8

	pendingSystemStatus byte // the System Common status being collected (modeCollectingSystem)

	sysexBuf   []byte
	sysexIndex int

	MessagesParsed uint64
	ParseErrors    uint64

	logger contracts.Logger
}

// NewState constructs a parser state. sysexBuf may be nil, which disables
// SysEx capture (bytes are consumed and discarded); logger may be nil.
func NewState(sysexBuf []byte, logger contracts.Logger) *State {
	return &State{sysexBuf: sysexBuf, logger: logger}
}

// Reset clears running status, the accumulator, and SysEx mode.
// Statistics are preserved (spec.md §4.1).
func (s *State) Reset() {
	s.mode = modeIdle
	s.runningStatus = 0
	s.dataIndex = 0
	s.expectedData = 0
	s.pendingSystemStatus = 0
	s.sysexIndex = 0
}

func (s *State) logWarn(msg string) {
	if s.logger != nil {
		s.logger.Warn(msg)
	}
}

func (s *State) logDebug(msg string) {
	if s.logger != nil {
		s.logger.Debug(msg)
	}
}

func realTimeMessage(b byte) Message {
	return Message{Kind: KindSystemRealTime, Status: b}
}

// ParseByte feeds one byte to the parser. It returns (msg, true) when a
// complete message was produced; the returned Message is undefined when
// complete is false. The parser never fails the stream: malformed input
// increments ParseErrors and is dropped (spec.md §7).
func (s *State) ParseByte(b byte) (Message, bool) {
	// Real-Time messages (0xF8-0xFF) can appear at any point without
	// disturbing the enclosing message or running status.
	if IsRealTimeMessage(b) {
		s.MessagesParsed++
		return realTimeMessage(b), true
	}

	if IsStatusByte(b) {
		return s.handleStatusByte(b)
	}

	return s.handleDataByte(b)
}

func (s *State) handleStatusByte(b byte) (Message, bool) {
	// Any status byte other than SysEx End silently terminates an
	// in-progress SysEx capture; the byte itself is then handled by the
	// normal rules below as the start of a new message (spec.md §4.1:
	// "InSysEx + any non-real-time status other than 0xF7 → terminate
	// SysEx silently ... treat byte as a new status per the rules above").
	if s.mode == modeInSysEx && b != StatusSysExEnd {
		s.mode = modeIdle
	}

	switch {
	case b == StatusSysExStart:
		s.mode = modeInSysEx
		s.sysexIndex = 0
		s.runningStatus = 0
		s.logDebug("sysex start")
		return Message{}, false

	case b == StatusSysExEnd:
		if s.mode == modeInSysEx {
			s.mode = modeIdle
			msg := Message{
				Kind:   KindSystemExclusive,
				Status: StatusSysExStart,
				SysEx:  SysExView{Data: s.sysexBuf, Len: s.sysexIndex},
			}
			s.MessagesParsed++
			return msg, true
		}
		return Message{}, false

	case IsSystemCommonMessage(b) && b != 0xF4 && b != 0xF5:
		s.mode = modeIdle
		s.runningStatus = 0
		s.dataIndex = 0
		s.expectedData = DataByteCount(b)
		s.pendingSystemStatus = b

		if s.expectedData == 0 {
			s.MessagesParsed++
			return Message{Kind: KindSystemCommon, Status: b}, true
		}
		s.mode = modeCollectingSystem
		return Message{}, false

	case IsChannelMessage(b):
		// A new status byte always restarts message assembly, discarding
		// any half-collected data bytes (spec.md §4.1).
		s.runningStatus = b
		s.dataIndex = 0
		s.expectedData = DataByteCount(b)
		s.mode = modeCollectingChannel
		return Message{}, false

	default:
		s.ParseErrors++
		s.logWarn("undefined status byte dropped")
		return Message{}, false
	}
}

func (s *State) handleDataByte(b byte) (Message, bool) {
	switch s.mode {
	case modeInSysEx:
		if s.sysexBuf != nil {
			if s.sysexIndex < len(s.sysexBuf) {
				s.sysexBuf[s.sysexIndex] = b
				s.sysexIndex++
			} else {
				s.ParseErrors++
				s.logWarn("sysex buffer overflow")
			}
		}
		return Message{}, false

	case modeCollectingChannel:
		if s.runningStatus == 0 {
			// Data byte with no running status: ignore (spec.md §4.1).
			return Message{}, false
		}
		if s.dataIndex < 2 {
			s.dataBytes[s.dataIndex] = b
			s.dataIndex++
		}
		if s.dataIndex >= s.expectedData {
			msg := Message{
				Kind:    KindChannelVoice,
				Status:  s.runningStatus,
				Channel: s.runningStatus & channelMask,
				Data:    s.dataBytes,
				Len:     s.expectedData,
			}
			s.MessagesParsed++
			s.dataIndex = 0 // ready for the next message under running status
			return msg, true
		}
		return Message{}, false

	case modeCollectingSystem:
		if s.dataIndex < 2 {
			s.dataBytes[s.dataIndex] = b
			s.dataIndex++
		}
		if s.dataIndex >= s.expectedData {
			msg := Message{
				Kind:   KindSystemCommon,
				Status: s.pendingSystemStatus,
				Data:   s.dataBytes,
				Len:    s.expectedData,
			}
			s.MessagesParsed++
			s.mode = modeIdle
			return msg, true
		}
		return Message{}, false

	default: // modeIdle: stray data byte with no context, ignore
		return Message{}, false
	}
}
