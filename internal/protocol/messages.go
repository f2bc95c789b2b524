package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerName      string `json:"player_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	PlayerID        string     `json:"player_id"`
	Params          GameParams `json:"game_params"`
}

type GameParams struct {
	TickMs    int     `json:"tick_ms"`
	MapWidth  float64 `json:"map_width"`
	MapHeight float64 `json:"map_height"`
}

// TICK (server -> client): the full per-tick world payload. The client
// treats every field as read-only; positions and energies are only valid
// for the tick they arrived with.
type TickMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Tick            uint64      `json:"tick"`
	PlayerID        string      `json:"player_id"`
	Payload         TickPayload `json:"payload"`
}

type TickPayload struct {
	Spirits  []SpiritRecord    `json:"spirits"`
	Bases    []StructureRecord `json:"bases"`
	Stars    []StructureRecord `json:"stars"`
	Outposts []StructureRecord `json:"outposts,omitempty"`
	Pylons   []StructureRecord `json:"pylons,omitempty"`
}

type SpiritRecord struct {
	ID            string     `json:"id"`
	Player        string     `json:"player"`
	Pos           [2]float64 `json:"pos"`
	Size          int        `json:"size"`
	Energy        int        `json:"energy"`
	Capacity      int        `json:"energy_capacity"`
	HP            int        `json:"hp"`
	Shape         string     `json:"shape"` // "circle", "square", "triangle"
	Mark          string     `json:"mark,omitempty"`
	LastEnergized string     `json:"last_energized,omitempty"`
	Sight         Sight      `json:"sight"`
}

type StructureRecord struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"` // "base", "star", "outpost", "pylon"
	Pos      [2]float64 `json:"pos"`
	Energy   int        `json:"energy"`
	Capacity int        `json:"energy_capacity"`
	Control  string     `json:"control,omitempty"`

	// Base only.
	SpiritCost int `json:"current_spirit_cost,omitempty"`

	// Star only.
	HighYield bool `json:"high_yield,omitempty"`

	// Absent for stars.
	Sight *Sight `json:"sight,omitempty"`
}

type Sight struct {
	Friends    []string `json:"friends"`
	Enemies    []string `json:"enemies"`
	Structures []string `json:"structures"`
}
