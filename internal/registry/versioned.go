package registry

import protocol "github.com/go-mclib/limbo/internal/protocol"

// VersionedTables holds one packet Table per supported protocol number, so
// a session looks up ids against exactly the report its own client
// version was built from.
type VersionedTables struct {
	tables map[int32]*Table
}

// NewVersionedTables returns an empty set; call Add for each loaded
// per-version report.
func NewVersionedTables() *VersionedTables {
	return &VersionedTables{tables: make(map[int32]*Table)}
}

// Add registers the table parsed for a specific protocol number.
func (v *VersionedTables) Add(protocolNumber int32, t *Table) {
	v.tables[protocolNumber] = t
}

// For returns the table for an exact protocol number, or an AssetError if
// no report was loaded for it. Callers are expected to resolve an
// unsupported client version to the nearest supported one beforehand
// (protocol.FromNumber), so lookups here should always hit.
func (v *VersionedTables) For(protocolNumber int32) (*Table, error) {
	t, ok := v.tables[protocolNumber]
	if !ok {
		return nil, protocol.NewAssetError("packets report", errUnknownProtocolVersion(protocolNumber))
	}
	return t, nil
}

type errUnknownProtocolVersion int32

func (e errUnknownProtocolVersion) Error() string {
	return "no packet report loaded for protocol version"
}
