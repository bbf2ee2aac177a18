package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

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

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read:", err)
				return
			}
			if len(message) < 4 {
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			body := string(message[4:])
			switch msgID {
			case MsgTypeRoomMessage:
				log.Printf("[방송] %s", body)
			case MsgTypeUserError:
				log.Printf("[오류] %s", body)
			case MsgTypeRoomState:
				log.Printf("[상태] %s", body)
			default:
				log.Printf("[%d] %s", msgID, body)
			}
		}
	}()

	// Heartbeat loop
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := send(c, MsgTypeHeartbeat, nil); err != nil {
					return
				}
			}
		}
	}()

	// Input loop: "/join <roomId> <userId>", "/pass", "/leave", or a bare
	// word to submit.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			switch {
			case strings.HasPrefix(line, "/join "):
				parts := strings.Fields(line)
				if len(parts) != 3 {
					log.Println("usage: /join <roomId> <userId>")
					continue
				}
				data, _ := json.Marshal(map[string]string{"room_id": parts[1], "user_id": parts[2]})
				if err := send(c, MsgTypeJoinRoom, data); err != nil {
					log.Println("send:", err)
				}
			case line == "/pass":
				if err := send(c, MsgTypePassTurn, nil); err != nil {
					log.Println("send:", err)
				}
			case line == "/leave":
				if err := send(c, MsgTypeLeaveRoom, nil); err != nil {
					log.Println("send:", err)
				}
			default:
				data, _ := json.Marshal(map[string]string{"word": line})
				if err := send(c, MsgTypeSubmitWord, data); err != nil {
					log.Println("send:", err)
				}
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("interrupt")
		c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}
