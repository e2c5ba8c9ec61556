package gateway

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "ask" or "history"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type      string        `json:"type"` // "response", "history", or "error"
	SessionID string        `json:"session_id"`
	Content   string        `json:"content,omitempty"`
	Messages  []ChatMessage `json:"messages,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("gateway: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("gateway: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendChatError(conn, "", "invalid message format")
			continue
		}

		switch req.Type {
		case "ask":
			s.handleAskMessage(conn, r, req)
		case "history":
			s.handleHistoryMessage(conn, r, req)
		default:
			s.sendChatError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleAskMessage(conn *websocket.Conn, r *http.Request, req chatRequest) {
	if req.Content == "" {
		s.sendChatError(conn, req.SessionID, "content is required")
		return
	}

	ctx := r.Context()
	sessionID := req.SessionID
	if sessionID == "" {
		id, err := s.chats.CreateSession(ctx)
		if err != nil {
			s.sendChatError(conn, "", "failed to create session: "+err.Error())
			return
		}
		sessionID = id
	}

	if err := s.chats.AppendMessage(ctx, sessionID, "user", req.Content); err != nil {
		s.sendChatError(conn, sessionID, "failed to store message: "+err.Error())
		return
	}

	answer, err := s.backend.Query(ctx, req.Content)
	countBackendCall("query", err)
	if err != nil {
		s.sendChatError(conn, sessionID, "question failed: "+err.Error())
		return
	}

	if err := s.chats.AppendMessage(ctx, sessionID, "assistant", answer.Answer); err != nil {
		s.sendChatError(conn, sessionID, "failed to store message: "+err.Error())
		return
	}

	s.sendChatResponse(conn, chatResponse{
		Type:      "response",
		SessionID: sessionID,
		Content:   answer.Answer,
	})
}

func (s *Server) handleHistoryMessage(conn *websocket.Conn, r *http.Request, req chatRequest) {
	if req.SessionID == "" {
		s.sendChatError(conn, "", "session_id is required")
		return
	}

	messages, err := s.chats.Messages(r.Context(), req.SessionID)
	if err != nil {
		s.sendChatError(conn, req.SessionID, "failed to load history: "+err.Error())
		return
	}
	if messages == nil {
		messages = []ChatMessage{}
	}

	s.sendChatResponse(conn, chatResponse{
		Type:      "history",
		SessionID: req.SessionID,
		Messages:  messages,
	})
}

func (s *Server) sendChatResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("gateway: websocket write: %v", err)
	}
}

func (s *Server) sendChatError(conn *websocket.Conn, sessionID, message string) {
	resp := chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("gateway: websocket write error: %v", err)
	}
}
