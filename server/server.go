package server

import (
	"encoding/json"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wordchain/gameserver/ai"
	"github.com/wordchain/gameserver/broadcast"
	"github.com/wordchain/gameserver/config"
	"github.com/wordchain/gameserver/dictionary"
	"github.com/wordchain/gameserver/event"
	"github.com/wordchain/gameserver/game"
	"github.com/wordchain/gameserver/hangul"
	"github.com/wordchain/gameserver/logger"
	"github.com/wordchain/gameserver/models"
	"github.com/wordchain/gameserver/monitor"
	"github.com/wordchain/gameserver/network"
	"github.com/wordchain/gameserver/persistence"
	gameserver_rpc "github.com/wordchain/gameserver/rpc"
	"github.com/wordchain/gameserver/session"
	"github.com/wordchain/gameserver/timer"
)

// GameServer ties the word-chain core to its transport: a WebSocket endpoint
// for play and a small REST surface for room creation and listing.
type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	registry       *game.Registry
	sessionManager *session.Manager
	pipeline       *game.Pipeline
	bus            *event.Bus
	agent          *ai.Agent
	store          persistence.WordStore
	monitor        *monitor.Monitor
	rpcServer      *gameserver_rpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, store persistence.WordStore) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		registry:       game.NewRegistry(),
		sessionManager: session.NewManager(),
		bus:            event.NewBus(),
		store:          store,
		monitor:        monitor.NewMonitor("wordchain"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 모든 교차 출처 요청 허용
			},
		},
	}

	notifier := broadcast.NewSessionNotifier(s.sessionManager)
	s.pipeline = game.NewPipeline(s.registry, notifier, s.bus, s.monitor)

	validator := dictionary.NewAPIValidator(
		cfg.Dictionary.APIBaseURL,
		cfg.Dictionary.APIKey,
		cfg.Dictionary.Timeout(),
	)
	dictionary.NewBot(validator, s.pipeline, s.monitor).Register(s.bus)

	s.agent = ai.NewAgent(s.registry, s.pipeline, store, validator, timer.NewManager(), s.monitor, ai.Config{
		ThinkDelay:         cfg.Game.BotDelay(),
		DefaultStartLetter: hangul.FirstSyllable(cfg.Game.DefaultStartLetter),
		CandidateTag:       cfg.Game.CandidateTag,
		CandidateLimit:     cfg.Game.CandidateLimit,
	})
	s.agent.Register(s.bus)

	rpcServer, err := gameserver_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	rpc.Register(gameserver_rpc.NewAdminService(s.registry, store))

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.cfg.Server.MetricsAddress)

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/api/rooms", s.handleRooms)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.bus.Close()
}

// --- REST: 방 생성 / 목록 ---

func (s *GameServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRoom(w, r)
	case http.MethodGet:
		s.handleListRooms(w)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *GameServer) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MaxPlayers <= 0 || req.BotCount < 0 || req.BotCount > req.MaxPlayers {
		http.Error(w, "invalid room parameters", http.StatusBadRequest)
		return
	}

	room := s.registry.Create(req.RoomName, req.MaxPlayers, req.BotCount)
	s.monitor.SetActiveRooms(s.registry.Count())
	logger.Log.Infof("Created room %s (%s, max %d, bots %d)", room.ID, room.Name, room.MaxPlayers, room.BotCount)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"roomId": room.ID})
}

func (s *GameServer) handleListRooms(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.registry.Summaries())
}

// --- WebSocket ---

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(60 * time.Second)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		s.teardownIfEmpty(sess.GetRoomID())
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Touch()
	case network.MsgTypeJoinRoom:
		s.handleJoin(sess, packet)
	case network.MsgTypeLeaveRoom:
		s.handleLeave(sess)
	case network.MsgTypeSubmitWord:
		s.handleSubmit(sess, packet)
	case network.MsgTypePassTurn:
		s.pipeline.PassTurn(sess.GetRoomID(), sess.GetUserID())
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) handleJoin(sess *session.Session, packet *network.Packet) {
	var req models.JoinMessage
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}

	// Bind the user first so a failure can reach their private channel.
	sess.Bind(req.UserID, "")
	if s.pipeline.Join(req.RoomID, req.UserID) {
		sess.Bind(req.UserID, req.RoomID)
		logger.Log.Infof("User %s joined room %s (session %s)", req.UserID, req.RoomID, sess.GetID())
		s.sendRoomState(sess, req.RoomID)
	}
}

// sendRoomState gives a joining session the current chain so a late joiner
// knows whose turn it is and which word to continue.
func (s *GameServer) sendRoomState(sess *session.Session, roomID string) {
	room, exists := s.registry.Get(roomID)
	if !exists {
		return
	}
	state := models.RoomStateMessage{
		LastWord:      room.LastWord(),
		CurrentPlayer: room.CurrentPlayer(),
		Players:       room.Players(),
	}
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	sess.Send(network.MsgTypeRoomState, data)
}

// handleLeave detaches the session from its room. The seat stays in the turn
// order, same as a dropped socket; the room itself is reclaimed once no human
// session remains.
func (s *GameServer) handleLeave(sess *session.Session) {
	roomID := sess.GetRoomID()
	if roomID == "" {
		return
	}
	sess.Bind(sess.GetUserID(), "")
	logger.Log.Infof("User %s left room %s (session %s)", sess.GetUserID(), roomID, sess.GetID())
	s.teardownIfEmpty(roomID)
}

func (s *GameServer) handleSubmit(sess *session.Session, packet *network.Packet) {
	var req models.WordMessage
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	if sess.GetRoomID() == "" {
		logger.Log.Warnf("Session %s submitted a word but is not in a room", sess.GetID())
		return
	}
	s.pipeline.Submit(sess.GetRoomID(), req.Word, sess.GetUserID())
}

// teardownIfEmpty reclaims a room once its last human socket is gone. The
// finished chain is archived before the room is dropped.
func (s *GameServer) teardownIfEmpty(roomID string) {
	if roomID == "" || len(s.sessionManager.GetByRoomID(roomID)) > 0 {
		return
	}

	room, exists := s.registry.Get(roomID)
	if !exists {
		return
	}

	if words := room.UsedWords(); len(words) > 0 {
		if err := s.store.SaveGameRecord(roomID, room.Players(), words); err != nil {
			logger.Log.Errorf("Failed to save game record for room %s: %v", roomID, err)
		}
	}

	s.registry.Remove(roomID)
	s.monitor.SetActiveRooms(s.registry.Count())
	logger.Log.Infof("Room %s torn down after last player left", roomID)
}
