package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
	"github.com/vmoranv/aolastar/internal/services/aolastar/commands"
)

const (
	maxFramePayloadBytes   = 64 * 1024
	maxFramesPerSecond     = 40
	maxDecodeErrorsPerConn = 3

	maxConversationIDRunes = 128
)

// Dispatcher runs one command line for a conversation.
type Dispatcher interface {
	Dispatch(ctx context.Context, conversationID string, line string) commands.Result
}

type wsFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type wsErrorEnvelope struct {
	Error wsError `json:"error"`
}

type wsError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type joinPayload struct {
	ConversationID string `json:"conversation_id"`
}

type joinedPayload struct {
	ConversationID string `json:"conversation_id"`
	ServerTime     string `json:"server_time"`
}

type commandPayload struct {
	Line string `json:"line"`
}

type resultPayload struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	ImagePNG       []byte `json:"image_png,omitempty"`
	Code           string `json:"code,omitempty"`
	Retryable      bool   `json:"retryable,omitempty"`
}

// NewHandler creates the chat routes: /up for liveness and /ws for commands.
func NewHandler(dispatcher Dispatcher) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handleWSConn(conn, dispatcher)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if dispatcher == nil {
			http.Error(w, "commands are not configured", http.StatusServiceUnavailable)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})
	return mux
}

func handleWSConn(conn *websocket.Conn, dispatcher Dispatcher) {
	defer func() {
		_ = conn.Close()
	}()

	ctx := context.Background()
	if request := conn.Request(); request != nil {
		ctx = request.Context()
	}
	decoder := json.NewDecoder(conn)
	session := newWSSession(uuid.NewString(), newWSPeer(json.NewEncoder(conn)))

	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0

	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			_ = writeWSError(session.peer, "", apperrors.CodeInvalidArgument, "invalid frame payload")
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if len(frame.Payload) > maxFramePayloadBytes {
			_ = writeWSError(session.peer, frame.RequestID, apperrors.CodeInvalidArgument, "payload too large")
			continue
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			_ = writeWSError(session.peer, frame.RequestID, codeResourceExhausted, "rate limit exceeded")
			return
		}

		switch frame.Type {
		case "chat.join":
			handleJoinFrame(session, frame)
		case "chat.command":
			handleCommandFrame(ctx, session, dispatcher, frame)
		default:
			_ = writeWSError(session.peer, frame.RequestID, apperrors.CodeInvalidArgument, "unsupported frame type")
		}
	}
}

// codeResourceExhausted is a transport-only code; commands never return it.
const codeResourceExhausted apperrors.Code = "RESOURCE_EXHAUSTED"

func handleJoinFrame(session *wsSession, frame wsFrame) {
	var payload joinPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(session.peer, frame.RequestID, apperrors.CodeInvalidArgument, "invalid join payload")
		return
	}
	conversationID := strings.TrimSpace(payload.ConversationID)
	if conversationID == "" {
		_ = writeWSError(session.peer, frame.RequestID, apperrors.CodeInvalidArgument, "conversation_id is required")
		return
	}
	if utf8.RuneCountInString(conversationID) > maxConversationIDRunes {
		_ = writeWSError(session.peer, frame.RequestID, apperrors.CodeInvalidArgument, "conversation_id must be at most 128 characters")
		return
	}

	session.setConversation(conversationID)
	_ = session.peer.writeFrame(wsFrame{
		Type:      "chat.joined",
		RequestID: frame.RequestID,
		Payload: mustJSON(joinedPayload{
			ConversationID: conversationID,
			ServerTime:     time.Now().UTC().Format(time.RFC3339),
		}),
	})
}

func handleCommandFrame(ctx context.Context, session *wsSession, dispatcher Dispatcher, frame wsFrame) {
	var payload commandPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(session.peer, frame.RequestID, apperrors.CodeInvalidArgument, "invalid command payload")
		return
	}
	line := strings.TrimSpace(payload.Line)
	if line == "" {
		_ = writeWSError(session.peer, frame.RequestID, apperrors.CodeInvalidArgument, "line is required")
		return
	}

	conversationID := session.conversation()
	result := dispatcher.Dispatch(ctx, conversationID, line)
	if result.Code != "" && result.Code.Transient() {
		log.Printf("chat: command %q for conversation=%q failed with %s", firstWord(line), conversationID, result.Code)
	}
	_ = session.peer.writeFrame(wsFrame{
		Type:      "chat.result",
		RequestID: frame.RequestID,
		Payload: mustJSON(resultPayload{
			ConversationID: conversationID,
			Text:           result.Text,
			ImagePNG:       result.Image,
			Code:           string(result.Code),
			Retryable:      result.Code.Transient(),
		}),
	})
}

func firstWord(line string) string {
	if fields := strings.Fields(line); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func writeWSError(peer *wsPeer, requestID string, code apperrors.Code, message string) error {
	return peer.writeFrame(wsFrame{
		Type:      "chat.error",
		RequestID: requestID,
		Payload: mustJSON(wsErrorEnvelope{
			Error: wsError{
				Code:      string(code),
				Message:   message,
				Retryable: code == codeResourceExhausted,
			},
		}),
	})
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal websocket frame payload: %v", err)
		return nil
	}
	return b
}
