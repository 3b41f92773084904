package server

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"sync/atomic"

	protocol "github.com/go-mclib/limbo/internal/protocol"
)

// statusVersion mirrors the JSON status response's "version" object
// (spec.md 4.10/C12): protocol is echoed back from the client's own
// handshake to suppress the vanilla client's version-mismatch banner.
type statusVersion struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type statusPlayerSample struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type statusPlayers struct {
	Max    int                  `json:"max"`
	Online int                  `json:"online"`
	Sample []statusPlayerSample `json:"sample"`
}

type statusDescription struct {
	Text string `json:"text"`
}

type statusResponse struct {
	Version     statusVersion     `json:"version"`
	Players     statusPlayers     `json:"players"`
	Description statusDescription `json:"description"`
	Favicon     string            `json:"favicon,omitempty"`
}

// buildStatusJSON renders the server-list-ping body (spec.md 4.10): version
// name/protocol, player counts, MOTD, and an optional base64 favicon. The
// online count stays zero unless status.show_online_count is set, since
// this server tracks no player roster to report from.
func (s *Session) buildStatusJSON() (string, error) {
	cfg := s.shared.Config.Status
	online := 0
	if cfg.ShowOnlineCount {
		online = int(atomic.LoadInt64(&s.shared.OnlinePlayers))
	}

	resp := statusResponse{
		Version:     statusVersion{Name: s.shared.GameVersionName, Protocol: s.rawProtocolVersion},
		Players:     statusPlayers{Max: cfg.MaxPlayers, Online: online},
		Description: statusDescription{Text: cfg.MOTD},
	}

	if cfg.ServerIcon != "" {
		if icon, err := loadFavicon(cfg.ServerIcon); err == nil {
			resp.Favicon = icon
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return "", protocol.NewCodecError("marshal status response", err)
	}
	return string(data), nil
}

// loadFavicon reads a PNG file and encodes it as the data-URI form vanilla
// clients expect in the status response's favicon field.
func loadFavicon(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
