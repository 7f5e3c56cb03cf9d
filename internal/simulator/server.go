package simulator

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/logging"
)

// DefaultDelay is how long a request flagged with remoteTimeout executes.
const DefaultDelay = 5 * time.Second

type Options struct {
	Version    string
	VersionKey string
	// Secret signs login tokens. A random secret is used when empty.
	Secret []byte
	// Delay is the execution time of requests flagged with remoteTimeout.
	Delay time.Duration
	// ClockSkew is added to every timestamp the server reports. Incoming
	// request timestamps are still checked against the unskewed clock.
	ClockSkew time.Duration
	Now       func() time.Time
	Log       *logrus.Entry
}

// Server is an in-memory implementation of the card service.
type Server struct {
	engine *crypto.Engine
	opts   Options
	tokens *tokenIssuer
	log    *logrus.Entry

	mu       sync.Mutex
	byDevice map[string]*account
	byID     map[int64]*account
	nextUser int64
}

// New returns a Server that decrypts with e's key and verifies signatures
// with e's public key.
func New(e *crypto.Engine, opts Options) (*Server, error) {
	if opts.Version == "" {
		opts.Version = "1.0"
	}
	if opts.VersionKey == "" {
		opts.VersionKey = "version-key"
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logging.For("simulator")
	}
	tokens, err := newTokenIssuer(opts.Secret)
	if err != nil {
		return nil, err
	}
	return &Server{
		engine:   e,
		opts:     opts,
		tokens:   tokens,
		log:      opts.Log,
		byDevice: make(map[string]*account),
		byID:     make(map[int64]*account),
	}, nil
}

// Handler returns the gin router serving every route.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.POST(domain.RouteLogin.String(), s.serve(domain.RouteLogin, s.login))
	r.POST(domain.RouteListCards.String(), s.serve(domain.RouteListCards, listCards))
	r.POST(domain.RouteCreateCard.String(), s.serve(domain.RouteCreateCard, createCard))
	r.POST(domain.RouteUpdateCard.String(), s.serve(domain.RouteUpdateCard, updateCard))
	r.POST(domain.RouteDeleteCard.String(), s.serve(domain.RouteDeleteCard, deleteCard))
	return r
}

// Account returns a copy of the user and cards registered for deviceID.
func (s *Server) Account(deviceID string) (domain.User, []domain.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byDevice[deviceID]
	if !ok {
		return domain.User{}, nil, false
	}
	return a.user, append([]domain.Card(nil), a.cards...), true
}

func (s *Server) now() time.Time { return s.opts.Now().Add(s.opts.ClockSkew) }

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"remote":   c.ClientIP(),
			"status":   c.Writer.Status(),
			"bytes":    c.Writer.Size(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}
