package rpc

import (
	"errors"
	"net"
	"net/rpc"

	"github.com/wordchain/gameserver/game"
	"github.com/wordchain/gameserver/logger"
	"github.com/wordchain/gameserver/models"
	"github.com/wordchain/gameserver/persistence"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational queries over net/rpc.
type AdminService struct {
	registry *game.Registry
	store    persistence.WordStore
}

func NewAdminService(registry *game.Registry, store persistence.WordStore) *AdminService {
	return &AdminService{registry: registry, store: store}
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	Rooms []models.RoomSummary
}

// ListRooms returns a snapshot of every active room. It follows the net/rpc
// signature: exported method, exported arguments, pointer reply.
func (as *AdminService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	reply.Rooms = as.registry.Summaries()
	return nil
}

type RoomWordsArgs struct {
	RoomID string
}

type RoomWordsReply struct {
	LastWord  string
	UsedWords []string
}

// RoomWords returns the word chain of one room.
func (as *AdminService) RoomWords(args *RoomWordsArgs, reply *RoomWordsReply) error {
	room, exists := as.registry.Get(args.RoomID)
	if !exists {
		return nil
	}
	reply.LastWord = room.LastWord()
	reply.UsedWords = room.UsedWords()
	return nil
}

type CheckWordArgs struct {
	Word string
}

type CheckWordReply struct {
	Found bool
	Tag   string
}

// CheckWord looks a word up in the local dictionary table.
func (as *AdminService) CheckWord(args *CheckWordArgs, reply *CheckWordReply) error {
	word, err := as.store.FindByName(args.Word)
	if errors.Is(err, persistence.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	reply.Found = true
	reply.Tag = word.Tag
	return nil
}
