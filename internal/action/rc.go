package action

import "github.com/rebornclient/reborn-go/internal/net/packet"

// RC builders mirror the remote-control method surface an admin client
// exposes: server chat/messages, player administration, account
// administration, server configuration queries, and the filebrowser. The
// wire layout of each one follows the GChar/GShort/GString idiom used
// throughout this package; the RC opcode always occupies the first byte.

// RCChat builds an RC chat message sub-packet.
func RCChat(msg string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCChat)
	w.GString(msg)
	return w.Bytes()
}

// RCAdminMessage builds a server-wide admin message sub-packet.
func RCAdminMessage(msg string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCAdminMessage)
	w.GString(msg)
	return w.Bytes()
}

// RCPrivAdminMessage builds an admin message addressed to a single player.
func RCPrivAdminMessage(playerID int, msg string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCPrivAdminMessage)
	w.GShort(playerID)
	w.GString(msg)
	return w.Bytes()
}

// RCDisconnectPlayer builds a sub-packet kicking playerID from the server.
func RCDisconnectPlayer(playerID int) []byte {
	w := packet.NewWriterWithID(packet.OUTRCDisconnectPlayer)
	w.GShort(playerID)
	return w.Bytes()
}

// RCWarpPlayer builds a sub-packet warping playerID to the named level at
// local tile coordinates (x, y).
func RCWarpPlayer(playerID int, level string, x, y float64) []byte {
	w := packet.NewWriterWithID(packet.OUTRCWarpPlayer)
	w.GShort(playerID)
	w.GChar(int(x * 2))
	w.GChar(int(y * 2))
	w.GString(level)
	return w.Bytes()
}

// RCPlayerPropsGetByID requests another player's PLAYER_PROPS by numeric id.
func RCPlayerPropsGetByID(playerID int) []byte {
	w := packet.NewWriterWithID(packet.OUTRCPlayerPropsGet2)
	w.GShort(playerID)
	return w.Bytes()
}

// RCPlayerPropsGetByName requests another player's PLAYER_PROPS by account
// name.
func RCPlayerPropsGetByName(account string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCPlayerPropsGet3)
	w.GString(account)
	return w.Bytes()
}

// RCPlayerRightsGet requests playerID's admin rights bitmask.
func RCPlayerRightsGet(playerID int) []byte {
	w := packet.NewWriterWithID(packet.OUTRCPlayerRightsGet)
	w.GShort(playerID)
	return w.Bytes()
}

// RCPlayerRightsSet sets playerID's admin rights bitmask.
func RCPlayerRightsSet(playerID int, rights uint32) []byte {
	w := packet.NewWriterWithID(packet.OUTRCPlayerRightsSet)
	w.GShort(playerID)
	w.GUInt(rights)
	return w.Bytes()
}

// RCPlayerCommentsGet requests the admin comments stored against account.
func RCPlayerCommentsGet(account string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCPlayerCommentsGet)
	w.GString(account)
	return w.Bytes()
}

// RCPlayerCommentsSet replaces the admin comments stored against account.
func RCPlayerCommentsSet(account, comments string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCPlayerCommentsSet)
	w.GString(account)
	w.GString(comments)
	return w.Bytes()
}

// RCPlayerBanGet requests account's current ban status.
func RCPlayerBanGet(account string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCPlayerBanGet)
	w.GString(account)
	return w.Bytes()
}

// RCPlayerBanSet sets account's ban status and reason.
func RCPlayerBanSet(account string, banned bool, reason string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCPlayerBanSet)
	w.GString(account)
	if banned {
		w.GChar(1)
	} else {
		w.GChar(0)
	}
	w.GString(reason)
	return w.Bytes()
}

// RCAccountListGet requests the full account list.
func RCAccountListGet() []byte {
	return packet.NewWriterWithID(packet.OUTRCAccountListGet).Bytes()
}

// RCAccountGet requests a single account's detail record.
func RCAccountGet(account string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCAccountGet)
	w.GString(account)
	return w.Bytes()
}

// RCAccountAdd creates a new account.
func RCAccountAdd(account, password, email string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCAccountAdd)
	w.GString(account)
	w.GString(password)
	w.GString(email)
	return w.Bytes()
}

// RCAccountDel deletes an existing account.
func RCAccountDel(account string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCAccountDel)
	w.GString(account)
	return w.Bytes()
}

// RCServerFlagsGet requests the server's global flag list.
func RCServerFlagsGet() []byte {
	return packet.NewWriterWithID(packet.OUTRCServerFlagsGet).Bytes()
}

// RCServerOptionsGet requests the server's serveroptions.txt contents.
func RCServerOptionsGet() []byte {
	return packet.NewWriterWithID(packet.OUTRCServerOptionsGet).Bytes()
}

// RCFolderConfigGet requests the server's folder access configuration.
func RCFolderConfigGet() []byte {
	return packet.NewWriterWithID(packet.OUTRCFolderConfigGet).Bytes()
}

// RCUpdateLevels asks the server to reload its level files from disk.
func RCUpdateLevels() []byte {
	return packet.NewWriterWithID(packet.OUTRCUpdateLevels).Bytes()
}

// RCFilebrowserStart opens a remote filebrowser session rooted at path.
func RCFilebrowserStart(path string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCFilebrowserStart)
	w.GString(path)
	return w.Bytes()
}

// RCFilebrowserCd changes the remote filebrowser's current directory.
func RCFilebrowserCd(path string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCFilebrowserCd)
	w.GString(path)
	return w.Bytes()
}

// RCFilebrowserEnd closes the remote filebrowser session.
func RCFilebrowserEnd() []byte {
	return packet.NewWriterWithID(packet.OUTRCFilebrowserEnd).Bytes()
}

// RCFilebrowserDownload requests a file from the current filebrowser
// directory.
func RCFilebrowserDownload(name string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCFilebrowserDownload)
	w.GString(name)
	return w.Bytes()
}

// RCFilebrowserDelete deletes a file in the current filebrowser directory.
func RCFilebrowserDelete(name string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCFilebrowserDelete)
	w.GString(name)
	return w.Bytes()
}

// RCFilebrowserRename renames a file in the current filebrowser directory.
func RCFilebrowserRename(oldName, newName string) []byte {
	w := packet.NewWriterWithID(packet.OUTRCFilebrowserRename)
	w.GString(oldName)
	w.GString(newName)
	return w.Bytes()
}
