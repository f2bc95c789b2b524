package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Rule/action layer.
	ErrCapability       = "E_CAPABILITY"
	ErrUnknownTarget    = "E_UNKNOWN_TARGET"
	ErrDoubleAction     = "E_DOUBLE_ACTION"
	ErrStaleSnapshot    = "E_STALE_SNAPSHOT"
	ErrEconomyInvariant = "E_ECONOMY_INVARIANT"
	ErrBadRequest       = "E_BAD_REQUEST"
	ErrInternal         = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:  {},
	ErrCapability:       {},
	ErrUnknownTarget:    {},
	ErrDoubleAction:     {},
	ErrStaleSnapshot:    {},
	ErrEconomyInvariant: {},
	ErrBadRequest:       {},
	ErrInternal:         {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
