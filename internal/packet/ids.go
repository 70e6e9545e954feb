package packet

// ClientID identifies a client→server (OSU_*) packet.
type ClientID = uint16

// ServerID identifies a server→client (SRV_*) packet.
type ServerID = uint16

// Client packet ids. The id space is shared with server packets; the
// values are fixed by the osu! client and must never change.
const (
	OsuChangeAction                ClientID = 0
	OsuSendPublicMessage           ClientID = 1
	OsuLogout                      ClientID = 2
	OsuRequestStatusUpdate         ClientID = 3
	OsuHeartbeat                   ClientID = 4
	OsuStartSpectating             ClientID = 16
	OsuStopSpectating              ClientID = 17
	OsuSpectateFrames              ClientID = 18
	OsuErrorReport                 ClientID = 20
	OsuCantSpectate                ClientID = 21
	OsuSendPrivateMessage          ClientID = 25
	OsuPartLobby                   ClientID = 29
	OsuJoinLobby                   ClientID = 30
	OsuCreateMatch                 ClientID = 31
	OsuJoinMatch                   ClientID = 32
	OsuPartMatch                   ClientID = 33
	OsuMatchChangeSlot             ClientID = 38
	OsuMatchReady                  ClientID = 39
	OsuMatchLock                   ClientID = 40
	OsuMatchChangeSettings         ClientID = 41
	OsuMatchStart                  ClientID = 44
	OsuMatchScoreUpdate            ClientID = 47
	OsuMatchComplete               ClientID = 49
	OsuMatchChangeMods             ClientID = 51
	OsuMatchLoadComplete           ClientID = 52
	OsuMatchNoBeatmap              ClientID = 54
	OsuMatchNotReady               ClientID = 55
	OsuMatchFailed                 ClientID = 56
	OsuMatchHasBeatmap             ClientID = 59
	OsuMatchSkipRequest            ClientID = 60
	OsuChannelJoin                 ClientID = 63
	OsuBeatmapInfoRequest          ClientID = 68
	OsuMatchTransferHost           ClientID = 70
	OsuFriendAdd                   ClientID = 73
	OsuFriendRemove                ClientID = 74
	OsuMatchChangeTeam             ClientID = 77
	OsuChannelPart                 ClientID = 78
	OsuReceiveUpdates              ClientID = 79
	OsuSetAwayMessage              ClientID = 82
	OsuIrcOnly                     ClientID = 84
	OsuUserStatsRequest            ClientID = 85
	OsuMatchInvite                 ClientID = 87
	OsuMatchChangePassword         ClientID = 90
	OsuTournamentMatchInfoRequest  ClientID = 93
	OsuUserPresenceRequest         ClientID = 97
	OsuUserPresenceRequestAll      ClientID = 98
	OsuToggleBlockNonFriendDms     ClientID = 99
	OsuTournamentJoinMatchChannel  ClientID = 108
	OsuTournamentLeaveMatchChannel ClientID = 109
)

// Server packet ids.
const (
	SrvLoginReply            ServerID = 5
	SrvSendMessage           ServerID = 7
	SrvPong                  ServerID = 8
	SrvUserStats             ServerID = 11
	SrvUserLogout            ServerID = 12
	SrvSpectatorJoined       ServerID = 13
	SrvSpectatorLeft         ServerID = 14
	SrvSpectateFrames        ServerID = 15
	SrvVersionUpdate         ServerID = 19
	SrvSpectatorCantSpectate ServerID = 22
	SrvGetAttention          ServerID = 23
	SrvNotification          ServerID = 24
	SrvUpdateMatch           ServerID = 26
	SrvNewMatch              ServerID = 27
	SrvDisposeMatch          ServerID = 28
	SrvMatchJoinSuccess      ServerID = 36
	SrvMatchJoinFail         ServerID = 37
	SrvFellowSpectatorJoined ServerID = 42
	SrvFellowSpectatorLeft   ServerID = 43
	SrvMatchStart            ServerID = 46
	SrvMatchScoreUpdate      ServerID = 48
	SrvMatchTransferHost     ServerID = 50
	SrvMatchAllPlayersLoaded ServerID = 53
	SrvMatchPlayerFailed     ServerID = 57
	SrvMatchComplete         ServerID = 58
	SrvMatchSkip             ServerID = 61
	SrvChannelJoinSuccess    ServerID = 64
	SrvChannelInfo           ServerID = 65
	SrvChannelKick           ServerID = 66
	SrvChannelAutoJoin       ServerID = 67
	SrvBeatmapInfoReply      ServerID = 69
	SrvPrivileges            ServerID = 71
	SrvFriendsList           ServerID = 72
	SrvProtocolVersion       ServerID = 75
	SrvMainMenuIcon          ServerID = 76
	SrvMatchPlayerSkipped    ServerID = 81
	SrvUserPresence          ServerID = 83
	SrvRestart               ServerID = 86
	SrvMatchInvite           ServerID = 88
	SrvChannelInfoEnd        ServerID = 89
	SrvMatchChangePassword   ServerID = 91
	SrvSilenceEnd            ServerID = 92
	SrvUserSilenced          ServerID = 94
	SrvUserPresenceSingle    ServerID = 95
	SrvUserPresenceBundle    ServerID = 96
	SrvUserDmBlocked         ServerID = 100
	SrvTargetIsSilenced      ServerID = 101
	SrvVersionUpdateForced   ServerID = 102
	SrvSwitchServer          ServerID = 103
	SrvAccountRestricted     ServerID = 104
	SrvRtx                   ServerID = 105
	SrvMatchAbort            ServerID = 106
	SrvSwitchTournamentSrv   ServerID = 107
)

// MaxPacketID is the highest id the protocol defines; anything above
// it is malformed rather than merely unhandled.
const MaxPacketID = 109

// matchIDs is the multiplayer subset: recognised so the dispatcher can
// tell "known but unsupported" apart from garbage.
var matchIDs = map[ClientID]struct{}{
	OsuCreateMatch: {}, OsuJoinMatch: {}, OsuPartMatch: {},
	OsuMatchChangeSlot: {}, OsuMatchReady: {}, OsuMatchLock: {},
	OsuMatchChangeSettings: {}, OsuMatchStart: {}, OsuMatchScoreUpdate: {},
	OsuMatchComplete: {}, OsuMatchChangeMods: {}, OsuMatchLoadComplete: {},
	OsuMatchNoBeatmap: {}, OsuMatchNotReady: {}, OsuMatchFailed: {},
	OsuMatchHasBeatmap: {}, OsuMatchSkipRequest: {}, OsuMatchTransferHost: {},
	OsuMatchChangeTeam: {}, OsuMatchInvite: {}, OsuMatchChangePassword: {},
	OsuTournamentMatchInfoRequest: {}, OsuTournamentJoinMatchChannel: {},
	OsuTournamentLeaveMatchChannel: {},
}

// IsMatchPacket reports whether id belongs to the multiplayer lobby
// subset of the protocol.
func IsMatchPacket(id ClientID) bool {
	_, ok := matchIDs[id]
	return ok
}
