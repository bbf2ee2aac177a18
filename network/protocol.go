package network

const (
	MsgTypeHeartbeat   = 1
	MsgTypeJoinRoom    = 101
	MsgTypeLeaveRoom   = 102
	MsgTypeSubmitWord  = 201
	MsgTypePassTurn    = 202
	MsgTypeRoomMessage = 301
	MsgTypeUserError   = 302
	MsgTypeRoomState   = 303
)
