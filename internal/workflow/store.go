package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionTTL 是会话的最长闲置寿命，超过后在下次创建时被清理
const sessionTTL = time.Hour

// SessionStore 以内存方式保存进行中的工作流会话。
// 注意: 这是进程内存储，服务重启会丢失进行中的会话。
// 生产环境多实例部署时应使用 Redis 等共享存储。
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore 创建一个新的 SessionStore
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Put 保存一个新会话并分配会话ID，同时清理已过期的会话
func (st *SessionStore) Put(session *Session) string {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	for id, s := range st.sessions {
		if now.Sub(s.CreatedAt) > sessionTTL {
			delete(st.sessions, id)
		}
	}

	session.ID = uuid.NewString()
	session.CreatedAt = now
	st.sessions[session.ID] = session
	return session.ID
}

// Get 按ID取出会话，不存在时返回 ErrSessionNotFound
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Since(session.CreatedAt) > sessionTTL {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete 移除会话
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
