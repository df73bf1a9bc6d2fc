package game

// Broadcaster is what the engine needs from the transport layer: deliver to
// a room, deliver to one connection, and room membership bookkeeping. The ws
// hub implements it; tests use a recorder.
type Broadcaster interface {
	ToRoom(roomCode, event string, payload any)
	ToConn(connID, event string, payload any)
	ToAll(event string, payload any)
	JoinRoom(connID, roomCode string)
	LeaveRoom(connID, roomCode string)
	CloseRoom(roomCode string)
}
