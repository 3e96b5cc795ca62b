package ws

const (
	// client - server
	MsgReply = "reply"
	MsgPing  = "ping"

	// server - client
	MsgReady    = "ready"
	MsgAnnounce = "announce"
	MsgSpeak    = "speak"
	MsgChoose   = "choose"
	MsgPong     = "pong"
	MsgError    = "error"
)
