package simulator

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/domain/types"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/apierr"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/envelope"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/nonce"
	"github.com/samchan0221/mh-coding-task-2/internal/transport"
)

// request is a verified and decrypted request.
type request struct {
	route  domain.Route
	nonce  uint32
	params domain.Params
	query  domain.RequestQuery
}

func (s *Server) serve(route domain.Route, op operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, code := s.verify(c, route)
		if code != 0 {
			s.reject(c, code)
			return
		}
		s.execute(c, req, op)
	}
}

// verify checks the request shape, the signature over nonce||md5(payload),
// the payload itself, the protocol version and the request timestamp.
func (s *Server) verify(c *gin.Context, route domain.Route) (*request, apierr.Code) {
	var body domain.RequestBody
	if err := c.ShouldBindJSON(&body); err != nil || body.PayloadBase64 == "" {
		return nil, apierr.InvalidRequest
	}
	q := transport.ParseQuery(c.Request.URL.Query())
	if q.SignedBase64 == "" {
		return nil, apierr.InvalidRequest
	}
	payload, err := crypto.Unb64(body.PayloadBase64)
	if err != nil {
		return nil, apierr.InvalidRequest
	}

	signed, err := crypto.Unb64(q.SignedBase64)
	if err != nil {
		return nil, apierr.InvalidSign
	}
	msg, err := s.engine.Open(signed)
	if err != nil {
		return nil, apierr.InvalidSign
	}
	digest := crypto.Hash(payload)
	if !bytes.Equal(msg, append(nonce.Encode(body.Nonce), digest[:]...)) {
		return nil, apierr.InvalidSign
	}

	plain, err := s.engine.Decrypt(payload, body.Nonce)
	if err != nil {
		return nil, apierr.FailedToDecryptClientPayload
	}
	var params domain.Params
	if err := json.Unmarshal(plain, &params); err != nil || params == nil {
		return nil, apierr.FailedToDecryptClientPayload
	}

	if params[types.ParamVersion] != s.opts.Version || params[types.ParamVersionKey] != s.opts.VersionKey {
		return nil, apierr.InvalidVersion
	}
	ts, ok := params[types.ParamTimestamp].(float64)
	if !ok {
		return nil, apierr.InvalidRequest
	}
	if math.IsNaN(ts) || math.IsInf(ts, 0) || ts < math.MinInt64 || ts >= math.MaxInt64 {
		return nil, apierr.InvalidTimestamp
	}
	if !envelope.Fresh(int64(ts), s.opts.Now()) {
		return nil, apierr.InvalidTimestamp
	}

	return &request{route: route, nonce: body.Nonce, params: params, query: q}, 0
}

// authorize resolves the account of a request. Callers hold s.mu.
func (s *Server) authorize(req *request) (*account, apierr.Code) {
	if req.route == domain.RouteLogin {
		deviceID, _ := req.params["deviceId"].(string)
		if len(deviceID) != DeviceIDLength {
			return nil, apierr.InvalidDeviceID
		}
		return s.accountFor(deviceID), 0
	}

	userID, err := s.tokens.validate(req.query.Token)
	if err != nil {
		return nil, apierr.InvalidToken
	}
	a, ok := s.byID[userID]
	if !ok {
		return nil, apierr.InvalidToken
	}
	session, _ := req.params[types.ParamSession].(string)
	if session == "" || session != a.user.Session {
		return nil, apierr.InvalidSession
	}
	return a, 0
}

// execute runs op under the account lock. A request repeating the last
// completed one (same cacheKey and nonce) is answered from the cache.
func (s *Server) execute(c *gin.Context, req *request, op operation) {
	cacheKey, _ := req.params[types.ParamCacheKey].(string)

	s.mu.Lock()
	a, code := s.authorize(req)
	if code != 0 {
		s.mu.Unlock()
		s.reject(c, code)
		return
	}
	if a.locked {
		s.mu.Unlock()
		s.reject(c, apierr.Locked)
		return
	}
	if a.cache != nil && a.cache.key == cacheKey && a.cache.nonce == req.nonce {
		reply := a.cache.reply
		reply.IsCache = true
		reply.Timestamp = s.now().Unix()
		s.mu.Unlock()
		s.respond(c, req, reply)
		return
	}
	if req.route != domain.RouteLogin && req.nonce <= a.user.Nonce {
		s.mu.Unlock()
		s.reject(c, apierr.InvalidNonce)
		return
	}
	a.user.Nonce = req.nonce
	a.locked = true
	a.user.LockTimestamp = s.now().Unix()
	a.user.LockSignature = cacheKey
	s.mu.Unlock()

	if req.query.RemoteTimeout {
		time.Sleep(s.opts.Delay)
	}

	s.mu.Lock()
	body, code := op(a, req.params)
	a.locked = false
	a.user.LockTimestamp = 0
	a.user.LockSignature = ""

	reply := domain.Reply{ErrorCode: code, Timestamp: s.now().Unix()}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			reply = domain.Reply{ErrorCode: apierr.UnknownError, Timestamp: reply.Timestamp}
		}
		reply.Body = raw
	}
	if req.route == domain.RouteLogin && code == 0 {
		token, err := s.tokens.issue(a.user.UserID, s.opts.Now())
		if err != nil {
			reply.ErrorCode = apierr.UnknownError
		}
		u := a.user
		reply.Token = token
		reply.User = &u
	}
	a.cache = &cached{key: cacheKey, nonce: req.nonce, reply: reply}
	s.mu.Unlock()

	s.respond(c, req, reply)
}

func (s *Server) respond(c *gin.Context, req *request, reply domain.Reply) {
	var (
		raw []byte
		err error
	)
	if req.query.RemoteSendInvalidPayload {
		raw, err = s.engine.Encrypt([]byte("invalid payload"), req.nonce)
	} else {
		raw, err = envelope.SealReply(s.engine, reply, req.nonce)
	}
	if err != nil {
		s.log.WithError(err).Error("seal reply")
		s.reject(c, apierr.UnknownError)
		return
	}
	s.log.WithFields(logrus.Fields{
		"route": req.route,
		"nonce": req.nonce,
		"code":  reply.ErrorCode,
		"cache": reply.IsCache,
	}).Debug("reply")
	c.Data(http.StatusOK, "application/octet-stream", raw)
}

// reject answers with the plaintext {"errorCode": n} envelope.
func (s *Server) reject(c *gin.Context, code apierr.Code) {
	s.log.WithField("code", code).Debug("rejected")
	c.JSON(http.StatusOK, apierr.New(code))
}
