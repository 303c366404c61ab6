// Package wire encodes and decodes the agent's frame header and every
// command's typed payload per the protocol: little-endian, explicit width,
// fixed 8-byte frame headers, fixed 1024-byte NUL-padded strings for
// DLOPEN/DLSYM, length-prefixed strings for EXEC argv/envp.
package wire

// Magic is the constant every frame header must carry. A mismatch is fatal
// to the connection.
const Magic uint32 = 0x12345678

// ServerMagicVersion is emitted once, right after accept, before the OS name.
const ServerMagicVersion uint32 = 0x88888800

// InvalidPID is the sentinel EXEC response PID signaling a spawn failure.
// It is never a real child PID.
const InvalidPID uint32 = 0xFFFFFFFF

// CmdType is the closed set of command tags carried in a frame header.
type CmdType uint32

const (
	CmdExec          CmdType = 0
	CmdDlopen        CmdType = 1
	CmdDlclose       CmdType = 2
	CmdDlsym         CmdType = 3
	CmdCall          CmdType = 4
	CmdPeek          CmdType = 5
	CmdPoke          CmdType = 6
	CmdReplyError    CmdType = 7
	CmdReplyPeek     CmdType = 8
	CmdGetDummyBlock CmdType = 9
	CmdClose         CmdType = 10
	CmdReplyPoke     CmdType = 11
)

func (c CmdType) String() string {
	switch c {
	case CmdExec:
		return "EXEC"
	case CmdDlopen:
		return "DLOPEN"
	case CmdDlclose:
		return "DLCLOSE"
	case CmdDlsym:
		return "DLSYM"
	case CmdCall:
		return "CALL"
	case CmdPeek:
		return "PEEK"
	case CmdPoke:
		return "POKE"
	case CmdReplyError:
		return "REPLY_ERROR"
	case CmdReplyPeek:
		return "REPLY_PEEK"
	case CmdGetDummyBlock:
		return "GET_DUMMY_BLOCK"
	case CmdClose:
		return "CLOSE"
	case CmdReplyPoke:
		return "REPLY_POKE"
	default:
		return "UNKNOWN"
	}
}

// ExecChunkType tags one chunk of an interactive EXEC's output stream.
type ExecChunkType uint32

const (
	ExecChunkStdout   ExecChunkType = 0
	ExecChunkExitCode ExecChunkType = 1
)

// MaxPathLen is the fixed width of DLOPEN's filename and DLSYM's symbol
// fields on the wire.
const MaxPathLen = 1024

// FixedStringsMax caps the length of a length-prefixed EXEC argv/envp
// string so a corrupt or hostile length field can't force an unbounded
// allocation.
const FixedStringsMax = 1 << 20

// MaxStringVectorCount caps the number of entries a length-prefixed argv
// or envp vector can declare, before any of its strings are read — an
// announced count alone must never be enough to force a large allocation.
const MaxStringVectorCount = 1 << 16
