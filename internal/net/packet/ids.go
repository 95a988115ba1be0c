package packet

// InboundID identifies a server-to-client sub-packet. The wire value is the
// decoded id (raw byte minus 32); see DecodeGChar.
type InboundID int

// Inbound (server → client) sub-packet ids, catalogued from the protocol's
// packet table. Not exhaustive — unknown ids are tolerated by the
// dispatcher.
const (
	INLevelBoard         InboundID = 0
	INLevelLink          InboundID = 1
	INBaddyProps         InboundID = 2
	INNpcProps           InboundID = 3
	INLevelChest         InboundID = 4
	INLevelSign          InboundID = 5
	INLevelName          InboundID = 6
	INBoardModify        InboundID = 7
	INOtherPlayerProps   InboundID = 8
	INPlayerProps        InboundID = 9
	INIsLeader           InboundID = 10
	INBombAdd            InboundID = 11
	INBombDel            InboundID = 12
	INToAll              InboundID = 13
	INPlayerWarp         InboundID = 14
	INWarpFailed         InboundID = 15
	INDisconnectMessage  InboundID = 16
	INArrowAdd           InboundID = 19
	INFirespy            InboundID = 20
	INThrowCarried       InboundID = 21
	INItemAdd            InboundID = 22
	INItemDel            InboundID = 23
	INNpcMoved           InboundID = 24
	INSignature          InboundID = 25
	INNpcAction          InboundID = 26
	INBaddyHurt          InboundID = 27
	INFlagSet            InboundID = 28
	INNpcDel             InboundID = 29
	INFileSendFailed     InboundID = 30
	INFlagDel            InboundID = 31
	INShowImg            InboundID = 32
	INNpcWeaponAdd       InboundID = 33
	INNpcWeaponDel       InboundID = 34
	INAdminMessage       InboundID = 35
	INExplosion          InboundID = 36
	INPrivateMessage     InboundID = 37
	INPushAway           InboundID = 38
	INLevelModTime       InboundID = 39
	INHurtPlayer         InboundID = 40
	INStartMessage       InboundID = 41
	INNewWorldTime       InboundID = 42
	INDefaultWeapon      InboundID = 43
	INFileUptodate       InboundID = 45
	INGmapWarp2          InboundID = 49
	INRCServerFlagsGet   InboundID = 61
	INRCPlayerRightsGet  InboundID = 62
	INRCFilebrowserDir   InboundID = 66
	INRCFilebrowserMsg   InboundID = 67
	INLargeFileStart     InboundID = 68
	INLargeFileEnd       InboundID = 69
	INLargeFileSize      InboundID = 82
	INRCServerText       InboundID = 86
	INServerText         InboundID = 87
	INBoardPacket        InboundID = 101
	INRawData            InboundID = 161
)

// OutboundID identifies a client-to-server sub-packet.
type OutboundID int

// Outbound (client → server) sub-packet ids.
const (
	OUTLogin          OutboundID = 0
	OUTPlayerProps    OutboundID = 1
	OUTAdjacentLevel  OutboundID = 2
	OUTPlayerMove     OutboundID = 10
	OUTLevelWarp      OutboundID = 11
	OUTToAll          OutboundID = 20
	OUTPrivateMessage OutboundID = 21
	OUTShoot          OutboundID = 30
	OUTShoot2         OutboundID = 31
	OUTBombAdd        OutboundID = 32
	OUTArrowAdd       OutboundID = 33
	OUTWeaponAdd      OutboundID = 34
	OUTItemTake       OutboundID = 40
	OUTItemDel        OutboundID = 41
	OUTOpenChest      OutboundID = 42
	OUTWantFile       OutboundID = 50
	OUTSendText       OutboundID = 51
	OUTRequestText    OutboundID = 52
	OUTFlagSet        OutboundID = 53
	OUTFlagDel        OutboundID = 54
	OUTTriggerAction  OutboundID = 55
	OUTNpcDel         OutboundID = 60
	OUTNpcProps       OutboundID = 61

	// RC (remote control) family. These share the outbound opcode
	// space but are only ever sent once the session is in RcMode.
	OUTRCChat                  OutboundID = 200
	OUTRCAdminMessage          OutboundID = 201
	OUTRCPrivAdminMessage      OutboundID = 202
	OUTRCDisconnectPlayer      OutboundID = 203
	OUTRCWarpPlayer            OutboundID = 204
	OUTRCPlayerPropsGet2       OutboundID = 205
	OUTRCPlayerPropsGet3       OutboundID = 206
	OUTRCPlayerRightsGet       OutboundID = 207
	OUTRCPlayerRightsSet       OutboundID = 208
	OUTRCPlayerCommentsGet     OutboundID = 209
	OUTRCPlayerCommentsSet     OutboundID = 210
	OUTRCPlayerBanGet          OutboundID = 211
	OUTRCPlayerBanSet          OutboundID = 212
	OUTRCAccountListGet        OutboundID = 213
	OUTRCAccountGet            OutboundID = 214
	OUTRCAccountAdd            OutboundID = 215
	OUTRCAccountDel            OutboundID = 216
	OUTRCServerFlagsGet        OutboundID = 217
	OUTRCServerOptionsGet      OutboundID = 218
	OUTRCFolderConfigGet       OutboundID = 219
	OUTRCUpdateLevels          OutboundID = 220
	OUTRCFilebrowserStart      OutboundID = 221
	OUTRCFilebrowserCd         OutboundID = 222
	OUTRCFilebrowserEnd        OutboundID = 223
	OUTRCFilebrowserDownload   OutboundID = 224
	OUTRCFilebrowserDelete     OutboundID = 225
	OUTRCFilebrowserRename     OutboundID = 226
)

// PropID identifies a PLAYER_PROPS / OTHER_PLAYER_PROPS property.
type PropID byte

const (
	PropNickname    PropID = 0
	PropMaxHearts   PropID = 1
	PropCurHearts   PropID = 2
	PropRupees      PropID = 3
	PropArrows      PropID = 4
	PropBombs       PropID = 5
	PropGani        PropID = 8
	PropHeadImage   PropID = 9
	PropCurChat     PropID = 10
	PropColors      PropID = 11
	PropId          PropID = 12
	PropSprite      PropID = 13
	PropStatus      PropID = 14
	PropCarrySprite PropID = 15
	PropX           PropID = 16
	PropY           PropID = 17
	PropBodyImage   PropID = 21
	PropShieldImage PropID = 22
	PropSwordImage  PropID = 23
	PropKeys        PropID = 24
	PropGmapLevelX  PropID = 35
	PropGmapLevelY  PropID = 36
	PropX2          PropID = 37
	PropY2          PropID = 38
	PropAdminFlag   PropID = 43
)
