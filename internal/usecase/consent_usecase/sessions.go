package consent

import (
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// セッションの既定の有効期間（最終アクセスから）
const DefaultSessionTTL = 30 * time.Minute

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// SessionRegistry はセッションIDごとに Controller を持つ。
type SessionRegistry struct {
	mu       sync.Mutex
	factory  *Factory
	ttl      time.Duration
	idGen    IDGenerator
	clock    Clock
	sessions map[string]*session
}

// DI
func NewSessionRegistry(factory *Factory, ttl time.Duration, idGen IDGenerator, clock Clock) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRegistry{
		factory:  factory,
		ttl:      ttl,
		idGen:    idGen,
		clock:    clock,
		sessions: make(map[string]*session),
	}
}

// Create は新しいセッションを作る。期限切れのものはここで掃除する。
func (r *SessionRegistry) Create() (string, *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.sweepLocked(now)

	id := r.idGen.NewID()
	c := r.factory.New()
	r.sessions[id] = &session{controller: c, lastSeen: now}
	return id, c
}

// Get はセッションを返し、最終アクセスを更新する。
func (r *SessionRegistry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := r.clock.Now()
	if r.expired(s, now) {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	s.lastSeen = now
	return s.controller, nil
}

func (r *SessionRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep は期限切れセッションを消して件数を返す。
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.clock.Now())
}

func (r *SessionRegistry) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// 送信中のセッションは期限切れにしない
func (r *SessionRegistry) expired(s *session, now time.Time) bool {
	if now.Sub(s.lastSeen) < r.ttl {
		return false
	}
	return !s.controller.Snapshot().Submitting
}
