// Package blocks maintains the server's internal block-state id space and
// the paletted-container wire encoding chunk sections use (spec.md 4.6).
//
// A Minecraft client never sees block names on the wire: every state is a
// small integer, and that integer's meaning is renegotiated release to
// release as new blocks are added earlier in the registry. This package
// keeps one internal, version-independent numbering (Registry) and a
// per-protocol remap table (ReportMapping) translating internal ids to
// whatever numbering a given client's "blocks report" asset expects.
package blocks

import (
	"encoding/json"
	"fmt"

	protocol "github.com/go-mclib/limbo/internal/protocol"
	wire "github.com/go-mclib/limbo/internal/protocol/wire"
)

// AirID is the internal id reserved for minecraft:air. Every chunk section
// this server fills starts out entirely air.
const AirID int32 = 0

// Registry is the shared internal block-state id space. It is built once
// from the bundled block report assets (internal/assets) and is
// version-independent: "minecraft:stone" always has the same Registry id
// no matter which protocol a connected client speaks.
type Registry struct {
	nameToID map[string]int32
	idToName []string
}

// NewRegistry returns a registry pre-seeded with minecraft:air at id 0.
func NewRegistry() *Registry {
	r := &Registry{nameToID: make(map[string]int32)}
	r.register("minecraft:air")
	return r
}

func (r *Registry) register(name string) int32 {
	if id, ok := r.nameToID[name]; ok {
		return id
	}
	id := int32(len(r.idToName))
	r.nameToID[name] = id
	r.idToName = append(r.idToName, name)
	return id
}

// Register adds name to the registry if it is not already present and
// returns its internal id. Used while loading the blocks report asset.
func (r *Registry) Register(name string) int32 { return r.register(name) }

// ID looks up the internal id for a block-state name.
func (r *Registry) ID(name string) (int32, bool) {
	id, ok := r.nameToID[name]
	return id, ok
}

// Name returns the block-state name for an internal id, or "minecraft:air"
// if id is out of range.
func (r *Registry) Name(id int32) string {
	if id >= 0 && int(id) < len(r.idToName) {
		return r.idToName[id]
	}
	return "minecraft:air"
}

// Len returns the number of distinct block states known to the registry.
func (r *Registry) Len() int { return len(r.idToName) }

// ReportMapping translates this registry's internal ids to the numeric ids
// a specific protocol version's client expects, per its blocks report
// asset (internal/assets). Two clients on different versions can assign
// "minecraft:stone" different wire ids; the registry id in between never
// changes.
type ReportMapping struct {
	internalToReport map[int32]int32
	reportToInternal map[int32]int32
}

// NewReportMapping builds a mapping from a report's ordered name list: the
// slice index is the report id, and reg resolves each name to its
// internal id.
func NewReportMapping(reg *Registry, reportNames []string) *ReportMapping {
	m := &ReportMapping{
		internalToReport: make(map[int32]int32, len(reportNames)),
		reportToInternal: make(map[int32]int32, len(reportNames)),
	}
	for reportID, name := range reportNames {
		internalID := reg.register(name)
		m.internalToReport[internalID] = int32(reportID)
		m.reportToInternal[int32(reportID)] = internalID
	}
	return m
}

// ToReport converts an internal id to this version's wire id, falling back
// to AirID's report id if the state is unknown to this report (should not
// happen for a correctly generated asset set).
func (m *ReportMapping) ToReport(internalID int32) int32 {
	if id, ok := m.internalToReport[internalID]; ok {
		return id
	}
	return m.internalToReport[AirID]
}

// ToInternal converts a version-specific wire id back to the internal id.
func (m *ReportMapping) ToInternal(reportID int32) int32 {
	if id, ok := m.reportToInternal[reportID]; ok {
		return id
	}
	return AirID
}

// MaxReportID returns the highest report id this mapping holds, used to
// size direct palettes (bitsNeeded(MaxReportID()+1)).
func (m *ReportMapping) MaxReportID() int32 {
	var max int32
	for id := range m.reportToInternal {
		if id > max {
			max = id
		}
	}
	return max
}

// ParseBlocksReport decodes a blocks/<protocol>.json asset (internal/assets)
// into its ordered list of block-state names: index 0 is report id 0, and
// so on, matching the shape NewReportMapping expects.
func ParseBlocksReport(data []byte) ([]string, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, protocol.NewCodecError("parse blocks report", err)
	}
	return names, nil
}

// ParseInternalMapping decodes the internal_mapping.bin asset: a VarInt
// count followed by that many length-prefixed UTF-8 names, reusing the
// wire string codec rather than inventing a second serialization for a
// file that, like every other asset, is produced by the same asset
// pipeline that emits the per-version reports.
func ParseInternalMapping(data []byte) ([]string, error) {
	buf := wire.NewReader(data)
	count, err := buf.ReadVarInt()
	if err != nil {
		return nil, protocol.NewCodecError("parse internal mapping count", err)
	}
	names := make([]string, count)
	for i := range names {
		s, err := buf.ReadString(256)
		if err != nil {
			return nil, protocol.NewCodecError(fmt.Sprintf("parse internal mapping entry %d", i), err)
		}
		names[i] = string(s)
	}
	return names, nil
}

// Seed pre-registers names in order, used to make internal ids stable
// across server restarts regardless of which per-version report happens
// to load first. minecraft:air is already id 0 from NewRegistry and is
// skipped if present again in names.
func (r *Registry) Seed(names []string) {
	for _, name := range names {
		r.register(name)
	}
}
