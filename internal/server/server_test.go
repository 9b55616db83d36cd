package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/maliksaad1/ai-surrogate/internal/agents"
	"github.com/maliksaad1/ai-surrogate/internal/db"
	"github.com/maliksaad1/ai-surrogate/internal/metrics"
	"github.com/maliksaad1/ai-surrogate/internal/models"
	"github.com/maliksaad1/ai-surrogate/internal/server"
	"github.com/maliksaad1/ai-surrogate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// memStore is a minimal in-memory Store backing the handler tests.
type memStore struct {
	threads  map[string]*models.Thread
	messages map[string][]models.Message
	memories []models.MemoryEntry
	seq      int
}

func newMemStore() *memStore {
	return &memStore{
		threads:  map[string]*models.Thread{},
		messages: map[string][]models.Message{},
	}
}

func (m *memStore) nextID(table string) surrealmodels.RecordID {
	m.seq++
	return surrealmodels.RecordID{Table: table, ID: fmt.Sprintf("%s%d", table, m.seq)}
}

func (m *memStore) CreateThread(_ context.Context, userID, title string) (*models.Thread, error) {
	id := m.nextID("thread")
	t := &models.Thread{ID: id, UserID: userID, Title: title}
	m.threads[id.ID.(string)] = t
	return t, nil
}

func (m *memStore) GetThread(_ context.Context, id, userID string) (*models.Thread, error) {
	t, ok := m.threads[id]
	if !ok || t.UserID != userID {
		return nil, db.ErrNotFound
	}
	return t, nil
}

func (m *memStore) ListThreads(_ context.Context, userID string) ([]models.Thread, error) {
	out := []models.Thread{}
	for _, t := range m.threads {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) UpdateThreadTitle(_ context.Context, id, userID, title string) (*models.Thread, error) {
	t, ok := m.threads[id]
	if !ok || t.UserID != userID {
		return nil, db.ErrNotFound
	}
	t.Title = title
	return t, nil
}

func (m *memStore) TouchThread(context.Context, string) error { return nil }

func (m *memStore) DeleteThreadCascade(_ context.Context, id string) (int, error) {
	if _, ok := m.threads[id]; !ok {
		return 0, nil
	}
	delete(m.threads, id)
	delete(m.messages, id)
	return 1, nil
}

func (m *memStore) AppendMessage(_ context.Context, threadID, role, content string, emotion *string, audioURL *string, metadata map[string]any) (*models.Message, error) {
	msg := models.Message{
		ID:       m.nextID("message"),
		Thread:   surrealmodels.RecordID{Table: "thread", ID: threadID},
		Role:     role,
		Content:  content,
		Emotion:  emotion,
		Metadata: metadata,
	}
	m.messages[threadID] = append(m.messages[threadID], msg)
	return &msg, nil
}

func (m *memStore) ListMessages(_ context.Context, threadID string, limit int) ([]models.Message, error) {
	msgs := m.messages[threadID]
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (m *memStore) ListRecentMessages(_ context.Context, threadID string, limit int) ([]models.Message, error) {
	msgs := m.messages[threadID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (m *memStore) UpsertMemory(_ context.Context, userID, summary string, memContext *string, importance int) (*models.MemoryEntry, error) {
	entry := models.MemoryEntry{
		ID:              m.nextID("memory"),
		UserID:          userID,
		Summary:         summary,
		Context:         memContext,
		ImportanceScore: importance,
	}
	m.memories = append(m.memories, entry)
	return &entry, nil
}

func (m *memStore) ListMemories(_ context.Context, userID string, limit int) ([]models.MemoryEntry, error) {
	out := []models.MemoryEntry{}
	for _, e := range m.memories {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) DeleteMemory(_ context.Context, id, userID string) (int, error) {
	for i, e := range m.memories {
		if e.ID.ID == id && e.UserID == userID {
			m.memories = append(m.memories[:i], m.memories[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// echoCompleter replies with a fixed acknowledgement.
type echoCompleter struct{}

func (echoCompleter) CompanionReply(_ context.Context, message, _, _ string) (string, error) {
	return "You said: " + message, nil
}

func (echoCompleter) AnalyzeEmotion(context.Context, string) (string, error) {
	return "neutral", nil
}

func (echoCompleter) SchedulerReply(_ context.Context, message, _, _ string) (string, error) {
	return "Scheduling note: " + message, nil
}

func (echoCompleter) DocsReply(_ context.Context, message, _ string) (string, error) {
	return "Here is what I found about: " + message, nil
}

func newTestServer(t *testing.T) (*server.Server, *memStore) {
	t.Helper()

	store := newMemStore()
	registry := agents.NewRegistry(echoCompleter{}, nil)
	orch := agents.NewOrchestrator(registry, service.MemorySink{Store: store})

	collector := metrics.NewCollector()
	srv, err := server.NewServer(
		service.NewChatService(store, orch, service.WithChatCollector(collector)),
		service.NewThreadService(store, nil),
		service.NewMemoryService(store, nil),
		collector,
		nil,
		server.Config{Host: "localhost", Port: "0"},
	)
	require.NoError(t, err)
	return srv, store
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echoHeaderContentType, "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestThreadEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/threads", `{"user_id":"u1","title":"Day one"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var thread server.ThreadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thread))
	assert.Equal(t, "Day one", thread.Title)
	id := thread.ID

	rec = doJSON(t, h, http.MethodGet, "/api/v1/threads?user_id=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var threads []server.ThreadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &threads))
	assert.Len(t, threads, 1)

	rec = doJSON(t, h, http.MethodPut, "/api/v1/threads/"+id, `{"user_id":"u1","title":"Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/threads/"+id+"?user_id=u2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/threads/"+id+"?user_id=u1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/threads/"+id+"?user_id=u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThreadValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/threads", `{"title":"no user"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/threads", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/threads", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()

	thread, err := store.CreateThread(context.Background(), "u1", "chat")
	require.NoError(t, err)
	id := models.MustRecordIDString(thread.ID)

	body := fmt.Sprintf(`{"user_id":"u1","thread_id":"%s","message":"hello there"}`, id)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/chat", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var turn server.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	assert.Equal(t, "You said: hello there", turn.Reply.ResponseText)
	assert.Equal(t, "chat", turn.Reply.Agent)
	assert.NotEmpty(t, turn.Reply.Metadata.Trace)
	assert.Equal(t, id, turn.ThreadID)
	require.NotNil(t, turn.AssistantMessage)
	assert.Equal(t, models.RoleAssistant, turn.AssistantMessage.Role)

	// Both sides of the exchange are persisted.
	msgs := store.messages[id]
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
}

func TestChatEndpointUnknownThread(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/chat",
		`{"user_id":"u1","thread_id":"missing","message":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/chat", `{"thread_id":"t","message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/chat", `{"user_id":"u1","message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemoryEndpoints(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()

	memCtx := "agent_orchestrator"
	entry, err := store.UpsertMemory(context.Background(), "u1", "Likes tea", &memCtx, 5)
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/memories?user_id=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var memories []server.MemoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &memories))
	require.Len(t, memories, 1)
	assert.Equal(t, "Likes tea", memories[0].Summary)

	id := models.MustRecordIDString(entry.ID)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/memories/"+id+"?user_id=u2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/memories/"+id+"?user_id=u1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()

	thread, err := store.CreateThread(context.Background(), "u1", "chat")
	require.NoError(t, err)
	body := fmt.Sprintf(`{"user_id":"u1","thread_id":"%s","message":"hi"}`,
		models.MustRecordIDString(thread.ID))
	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/api/v1/chat", body).Code)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Contains(t, snap.Operations, metrics.OpChatTurn)
}

func TestChatSocketRoundTrip(t *testing.T) {
	srv, store := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	thread, err := store.CreateThread(context.Background(), "u1", "socket chat")
	require.NoError(t, err)
	id := models.MustRecordIDString(thread.ID)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// A bad frame answers with an error and keeps the connection open.
	require.NoError(t, conn.WriteJSON(server.SocketFrame{ThreadID: id, Message: "hi"}))
	var reply server.SocketReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "user_id is required", reply.Error)

	require.NoError(t, conn.WriteJSON(server.SocketFrame{UserID: "u1", ThreadID: id, Message: "hello socket"}))
	reply = server.SocketReply{}
	require.NoError(t, conn.ReadJSON(&reply))
	require.Empty(t, reply.Error)
	require.NotNil(t, reply.Turn)
	assert.Equal(t, "You said: hello socket", reply.Turn.Reply.ResponseText)
}
