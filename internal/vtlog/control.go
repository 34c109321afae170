package vtlog

// Control characters
const (
	NUL byte = 0x00
	BEL byte = 0x07
	BS  byte = 0x08
	HT  byte = 0x09
	LF  byte = 0x0a
	VT  byte = 0x0b
	FF  byte = 0x0c
	CR  byte = 0x0d
	SO  byte = 0x0e
	SI  byte = 0x0f
	CAN byte = 0x18
	SUB byte = 0x1a
	ESC byte = 0x1b
	SP  byte = 0x20
	DEL byte = 0x7f

	// IAC opens a telnet negotiation token. It never appears in valid UTF-8.
	IAC byte = 0xff
)

// Telnet command bytes that follow IAC.
const (
	telnetSE   byte = 240
	telnetSB   byte = 250
	telnetWILL byte = 251
	telnetWONT byte = 252
	telnetDO   byte = 253
	telnetDONT byte = 254
)

// Sequence introducers, as they appear after ESC.
const (
	introCSI   byte = '['
	introOSC   byte = ']'
	introG0    byte = '('
	introG1    byte = ')'
	introSharp byte = '#'
	finalST    byte = '\\'
	privateCSI byte = '?'
	paramSep   byte = ';'
)

// maxSeqLength caps an accumulated sequence; longer input is dropped.
const maxSeqLength = 31
