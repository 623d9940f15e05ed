package expectgo

import (
	"fmt"
	"strings"
)

// ControlCode names one of the ASCII control bytes 0x00-0x1F or DEL (0x7F),
// parseable from a rune, a string ("^C", "C", or a name like "EndOfText"),
// or directly.
type ControlCode byte

// The fixed enumeration spec.md §3 names explicitly, plus the full ^A..^_
// range.
const (
	NUL          ControlCode = 0x00
	StartOfHeading ControlCode = 0x01
	StartOfText  ControlCode = 0x02
	EndOfText    ControlCode = 0x03
	EndOfTransmission ControlCode = 0x04
	EOT          ControlCode = 0x04
	Enquiry      ControlCode = 0x05
	Acknowledge  ControlCode = 0x06
	Bell         ControlCode = 0x07
	Backspace    ControlCode = 0x08
	Tab          ControlCode = 0x09
	LineFeed     ControlCode = 0x0A
	VerticalTab  ControlCode = 0x0B
	FormFeed     ControlCode = 0x0C
	CarriageReturn ControlCode = 0x0D
	Enter        ControlCode = 0x0D
	ShiftOut     ControlCode = 0x0E
	ShiftIn      ControlCode = 0x0F
	DataLinkEscape ControlCode = 0x10
	DeviceControl1 ControlCode = 0x11
	DeviceControl2 ControlCode = 0x12
	DeviceControl3 ControlCode = 0x13
	DeviceControl4 ControlCode = 0x14
	NegativeAcknowledge ControlCode = 0x15
	SynchronousIdle ControlCode = 0x16
	EndOfTransmissionBlock ControlCode = 0x17
	Cancel       ControlCode = 0x18
	EndOfMedium  ControlCode = 0x19
	Substitute   ControlCode = 0x1A
	Escape       ControlCode = 0x1B
	FileSeparator ControlCode = 0x1C
	GroupSeparator ControlCode = 0x1D
	RecordSeparator ControlCode = 0x1E
	UnitSeparator ControlCode = 0x1F
)

var controlNames = map[string]ControlCode{
	"nul": NUL, "startofheading": StartOfHeading, "startoftext": StartOfText,
	"endoftext": EndOfText, "endoftransmission": EndOfTransmission, "eot": EOT,
	"enquiry": Enquiry, "acknowledge": Acknowledge, "bell": Bell,
	"backspace": Backspace, "tab": Tab, "linefeed": LineFeed,
	"verticaltab": VerticalTab, "formfeed": FormFeed,
	"carriagereturn": CarriageReturn, "enter": Enter, "shiftout": ShiftOut,
	"shiftin": ShiftIn, "datalinkescape": DataLinkEscape,
	"devicecontrol1": DeviceControl1, "devicecontrol2": DeviceControl2,
	"devicecontrol3": DeviceControl3, "devicecontrol4": DeviceControl4,
	"negativeacknowledge": NegativeAcknowledge, "synchronousidle": SynchronousIdle,
	"endoftransmissionblock": EndOfTransmissionBlock, "cancel": Cancel,
	"endofmedium": EndOfMedium, "substitute": Substitute, "escape": Escape,
	"fileseparator": FileSeparator, "groupseparator": GroupSeparator,
	"recordseparator": RecordSeparator, "unitseparator": UnitSeparator,
}

// ParseControlCode parses s, accepting a bare letter ("C" -> ^C), a caret
// form ("^C"), or a named control ("EndOfText"). Conservative per spec.md
// §9's Open Question: only A-Z (mapped to ^A..^Z), "?" or "^?" (DEL, 0x7F),
// and the fixed named set are accepted, not arbitrary control bytes.
func ParseControlCode(s string) (ControlCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, newErr(KindParseControl, fmt.Errorf("empty control code"))
	}

	trimmed := strings.TrimPrefix(s, "^")
	if len(trimmed) == 1 {
		c := trimmed[0]
		upper := c
		if c >= 'a' && c <= 'z' {
			upper = c - 'a' + 'A'
		}
		if upper >= 'A' && upper <= 'Z' {
			return ControlCode(upper - 'A' + 1), nil
		}
		if c == '?' {
			return 0x7F, nil
		}
	}

	if cc, ok := controlNames[strings.ToLower(s)]; ok {
		return cc, nil
	}

	return 0, newErr(KindParseControl, fmt.Errorf("unrecognized control code %q", s))
}

// ParseControlRune parses a single letter rune into its ^-form control code.
func ParseControlRune(r rune) (ControlCode, error) {
	return ParseControlCode(string(r))
}

// Byte returns the control code's raw ASCII byte.
func (c ControlCode) Byte() byte { return byte(c) }
