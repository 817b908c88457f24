package wizard

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/internal/session"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

// Store keeps live wizard sessions in memory with a TTL. Abandoned
// sessions are swept, completed ones removed explicitly. Nothing is ever
// written to durable storage; an abandoned wizard simply ages out.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*storeEntry
	ttl         time.Duration
	gateway     gateway.Client
	settleDelay time.Duration
	log         *slog.Logger
	stop        chan struct{}
	stopOnce    sync.Once
}

type storeEntry struct {
	wizard  *Wizard
	expires time.Time
}

func NewStore(ttl, settleDelay time.Duration, gw gateway.Client, log *slog.Logger) *Store {
	s := &Store{
		sessions:    make(map[string]*storeEntry),
		ttl:         ttl,
		gateway:     gw,
		settleDelay: settleDelay,
		log:         log,
		stop:        make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Create opens a new wizard session. A non-nil user marks the
// existing-user variant: step 1 is skipped by validation and the form is
// pre-seeded with the account's name and email.
func (s *Store) Create(user *domain.User, sess *session.Manager) *Wizard {
	id := uuid.New().String()
	w := New(id, user == nil, sess, s.gateway, s.settleDelay, s.log)
	if user != nil {
		w.Form.Prefill(user)
	}

	s.mu.Lock()
	s.sessions[id] = &storeEntry{wizard: w, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	s.log.Info("wizard session opened", "wizardId", id, "newUser", user == nil)
	return w
}

// Get resolves a wizard session and slides its expiry forward.
func (s *Store) Get(id string) (*Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok || time.Now().After(entry.expires) {
		delete(s.sessions, id)
		return nil, apperror.NotFound("Sesión del formulario no encontrada o expirada")
	}
	entry.expires = time.Now().Add(s.ttl)
	return entry.wizard, nil
}

// Delete drops a session, typically after a successful submission.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, entry := range s.sessions {
				if now.After(entry.expires) {
					delete(s.sessions, id)
					s.log.Info("wizard session expired", "wizardId", id)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
