// Package registry resolves the numeric packet id a given protocol
// version, state, and direction assign to one of internal/packets' named
// types (spec.md 4.5/C5). Minecraft renumbers packet ids release to
// release as packets are added/removed earlier in a state's list, so the
// same Go type can carry a different wire id depending only on which
// client is connected.
package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	protocol "github.com/go-mclib/limbo/internal/protocol"
)

// rawPacketInfo mirrors one packet entry's JSON shape: {"protocol_id": N}.
type rawPacketInfo struct {
	ProtocolID uint8 `json:"protocol_id"`
}

// rawPacketReport mirrors a whole per-version report's top level:
// state -> direction ("serverbound"/"clientbound") -> packet name -> info.
type rawPacketReport map[string]map[string]map[string]rawPacketInfo

type key struct {
	state protocol.State
	bound protocol.Bound
	name  string
}

type numericKey struct {
	state protocol.State
	bound protocol.Bound
	id    uint8
}

// Table answers "what numeric id does packet X have under protocol
// version V" for every packet a single client connection might send or
// receive.
type Table struct {
	byID   map[key]uint8
	byName map[numericKey]string
}

// ParsePacketReport builds a Table from one version's packets-report JSON
// payload (the format vanilla's data generator and PicoLimbo's asset
// pipeline both emit: state -> direction -> packet_name -> protocol_id).
func ParsePacketReport(data []byte) (*Table, error) {
	var raw rawPacketReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, protocol.NewCodecError("parse packet report", err)
	}

	t := &Table{byID: make(map[key]uint8), byName: make(map[numericKey]string)}
	for stateName, directions := range raw {
		state, ok := stateFromReportName(stateName)
		if !ok {
			continue
		}
		for dirName, packets := range directions {
			bound, ok := boundFromReportName(dirName)
			if !ok {
				continue
			}
			for name, info := range packets {
				t.byID[key{state, bound, name}] = info.ProtocolID
				t.byName[numericKey{state, bound, info.ProtocolID}] = name
			}
		}
	}
	return t, nil
}

// NameForID resolves a numeric packet id back to its bare resource name
// for the given state and direction, the reverse of ID. The dispatcher
// uses this to identify an inbound packet before looking up its handler.
func (t *Table) NameForID(state protocol.State, bound protocol.Bound, id uint8) (string, bool) {
	name, ok := t.byName[numericKey{state, bound, id}]
	return name, ok
}

// ID returns the numeric id a packet has in this table, looked up by its
// bare resource name: a packets.Packet's Name() with the
// "<state>/<direction>/" prefix already removed (see ResourceName), since
// the report keys packets by bare resource name.
func (t *Table) ID(state protocol.State, bound protocol.Bound, resourceName string) (uint8, error) {
	id, ok := t.byID[key{state, bound, resourceName}]
	if !ok {
		return 0, protocol.NewProtocolError(state, fmt.Sprintf("unknown packet %q", resourceName))
	}
	return id, nil
}

// ResourceName strips a packet's canonical "<state>/<direction>/" prefix,
// leaving the bare "minecraft:..." name the packets-report JSON keys its
// entries by.
func ResourceName(canonicalName string) string {
	if idx := strings.LastIndex(canonicalName, "/"); idx >= 0 {
		return canonicalName[idx+1:]
	}
	return canonicalName
}

// IDFor returns p's numeric id under this table, deriving the bare
// resource name from p.Name() automatically.
func (t *Table) IDFor(p protocol.Packet) (uint8, error) {
	return t.ID(p.State(), p.Bound(), ResourceName(p.Name()))
}

func stateFromReportName(s string) (protocol.State, bool) {
	switch s {
	case "handshake", "handshaking":
		return protocol.StateHandshake, true
	case "status":
		return protocol.StateStatus, true
	case "login":
		return protocol.StateLogin, true
	case "configuration":
		return protocol.StateConfiguration, true
	case "play":
		return protocol.StatePlay, true
	default:
		return 0, false
	}
}

func boundFromReportName(s string) (protocol.Bound, bool) {
	switch s {
	case "serverbound":
		return protocol.C2S, true
	case "clientbound":
		return protocol.S2C, true
	default:
		return 0, false
	}
}
