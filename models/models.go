// models/models.go
package models

// Word 사전 단어 (끝말잇기 후보)
type Word struct {
	Name string `json:"name"`
	Tag  string `json:"tag"` // 품사 (예: "명")
}

// RoomSummary 방 목록 조회용 요약 정보
type RoomSummary struct {
	RoomID             string `json:"roomId"`
	RoomName           string `json:"roomName"`
	CurrentPlayerCount int    `json:"currentPlayerCount"`
	MaxPlayers         int    `json:"maxPlayers"`
	BotCount           int    `json:"botCount"`
}

// CreateRoomRequest 방 생성 요청
type CreateRoomRequest struct {
	RoomName   string `json:"roomName"`
	MaxPlayers int    `json:"maxPlayers"`
	BotCount   int    `json:"botCount"`
}

// JoinMessage 방 입장 메시지
type JoinMessage struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}

// WordMessage 단어 제출 메시지
type WordMessage struct {
	Word string `json:"word"`
}

// RoomStateMessage 입장 시 전달되는 방 상태 스냅샷
type RoomStateMessage struct {
	LastWord      string   `json:"lastWord"`
	CurrentPlayer string   `json:"currentPlayer"`
	Players       []string `json:"players"`
}
