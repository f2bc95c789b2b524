package protocol

// Command type tags, one per spirit command the host accepts.
const (
	CmdEnergize = "ENERGIZE"
	CmdMove     = "MOVE"
	CmdJump     = "JUMP"
	CmdMerge    = "MERGE"
	CmdDivide   = "DIVIDE"
	CmdLock     = "LOCK"
	CmdUnlock   = "UNLOCK"
	CmdExplode  = "EXPLODE"
	CmdShout    = "SHOUT"
	CmdSetMark  = "SET_MARK"
)

// Command is one fire-and-forget spirit command. The host applies all
// commands of a tick atomically at the tick boundary and sends no
// per-command response.
type Command struct {
	Type   string `json:"type"`
	Spirit string `json:"spirit"`

	// ENERGIZE / MERGE target id.
	Target string `json:"target,omitempty"`

	// MOVE / JUMP destination.
	To *[2]float64 `json:"to,omitempty"`

	// SHOUT text.
	Text string `json:"text,omitempty"`

	// SET_MARK label.
	Mark string `json:"mark,omitempty"`
}

// ACT (client -> server)
type ActMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	Tick            uint64    `json:"tick"`
	PlayerID        string    `json:"player_id"`
	Commands        []Command `json:"commands,omitempty"`
}
