package client

import (
	"errors"

	"github.com/rebornclient/reborn-go/internal/action"
	"github.com/rebornclient/reborn-go/internal/protocol"
)

// ErrNotRcMode is returned by NewRcClient when the wrapped Client's session
// has not completed an RC login.
var ErrNotRcMode = errors.New("client: session is not in RC mode")

// RcClient is a thin wrapper over Client exposing only the remote-control
// action surface. It is constructible only once the session has reached
// RcMode, i.e. Login was called with Config.ClientType =
// protocol.ClientTypeRC and the server accepted it.
type RcClient struct {
	c *Client
}

// NewRcClient wraps c for RC use.
func NewRcClient(c *Client) (*RcClient, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil || sess.State() != int(protocol.RcMode) {
		return nil, ErrNotRcMode
	}
	return &RcClient{c: c}, nil
}

func (r *RcClient) Chat(msg string) error {
	return r.c.send(action.RCChat(msg))
}

func (r *RcClient) AdminMessage(msg string) error {
	return r.c.send(action.RCAdminMessage(msg))
}

func (r *RcClient) PrivAdminMessage(playerID int, msg string) error {
	return r.c.send(action.RCPrivAdminMessage(playerID, msg))
}

func (r *RcClient) DisconnectPlayer(playerID int) error {
	return r.c.send(action.RCDisconnectPlayer(playerID))
}

func (r *RcClient) WarpPlayer(playerID int, level string, x, y float64) error {
	return r.c.send(action.RCWarpPlayer(playerID, level, x, y))
}

func (r *RcClient) PlayerPropsGetByID(playerID int) error {
	return r.c.send(action.RCPlayerPropsGetByID(playerID))
}

func (r *RcClient) PlayerPropsGetByName(account string) error {
	return r.c.send(action.RCPlayerPropsGetByName(account))
}

func (r *RcClient) PlayerRightsGet(playerID int) error {
	return r.c.send(action.RCPlayerRightsGet(playerID))
}

func (r *RcClient) PlayerRightsSet(playerID int, rights uint32) error {
	return r.c.send(action.RCPlayerRightsSet(playerID, rights))
}

func (r *RcClient) PlayerCommentsGet(account string) error {
	return r.c.send(action.RCPlayerCommentsGet(account))
}

func (r *RcClient) PlayerCommentsSet(account, comments string) error {
	return r.c.send(action.RCPlayerCommentsSet(account, comments))
}

func (r *RcClient) PlayerBanGet(account string) error {
	return r.c.send(action.RCPlayerBanGet(account))
}

func (r *RcClient) PlayerBanSet(account string, banned bool, reason string) error {
	return r.c.send(action.RCPlayerBanSet(account, banned, reason))
}

func (r *RcClient) AccountListGet() error {
	return r.c.send(action.RCAccountListGet())
}

func (r *RcClient) AccountGet(account string) error {
	return r.c.send(action.RCAccountGet(account))
}

func (r *RcClient) AccountAdd(account, password, email string) error {
	return r.c.send(action.RCAccountAdd(account, password, email))
}

func (r *RcClient) AccountDel(account string) error {
	return r.c.send(action.RCAccountDel(account))
}

func (r *RcClient) ServerFlagsGet() error {
	return r.c.send(action.RCServerFlagsGet())
}

func (r *RcClient) ServerOptionsGet() error {
	return r.c.send(action.RCServerOptionsGet())
}

func (r *RcClient) FolderConfigGet() error {
	return r.c.send(action.RCFolderConfigGet())
}

func (r *RcClient) UpdateLevels() error {
	return r.c.send(action.RCUpdateLevels())
}

func (r *RcClient) FilebrowserStart(path string) error {
	return r.c.send(action.RCFilebrowserStart(path))
}

func (r *RcClient) FilebrowserCd(path string) error {
	return r.c.send(action.RCFilebrowserCd(path))
}

func (r *RcClient) FilebrowserEnd() error {
	return r.c.send(action.RCFilebrowserEnd())
}

func (r *RcClient) FilebrowserDownload(name string) error {
	return r.c.send(action.RCFilebrowserDownload(name))
}

func (r *RcClient) FilebrowserDelete(name string) error {
	return r.c.send(action.RCFilebrowserDelete(name))
}

func (r *RcClient) FilebrowserRename(oldName, newName string) error {
	return r.c.send(action.RCFilebrowserRename(oldName, newName))
}
