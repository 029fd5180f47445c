package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/infrastructure/config"
)

// Room privileges understood by the streaming provider
const (
	PrivilegePublish = "publish"
	PrivilegePlay    = "play"
)

// RoomClaims are the claims of a live-stream room token
type RoomClaims struct {
	jwt.RegisteredClaims
	AppID     string `json:"app_id"`
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id"`
	Privilege string `json:"privilege"`
}

// RoomTokenService signs HS256 room tokens for the streaming provider
type RoomTokenService struct {
	appID  string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewRoomTokenService creates a room token signer from live settings
func NewRoomTokenService(cfg config.LiveConfig) *RoomTokenService {
	return &RoomTokenService{
		appID:  cfg.AppID,
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

// IssueRoomToken signs a token for userID in roomID. Hosts get publish
// privilege, viewers get play.
func (s *RoomTokenService) IssueRoomToken(roomID, userID string, publish bool) (string, time.Time, error) {
	if roomID == "" || userID == "" {
		return "", time.Time{}, ErrInvalidClaims
	}
	privilege := PrivilegePlay
	if publish {
		privilege = PrivilegePublish
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := &RoomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.appID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		AppID:     s.appID,
		RoomID:    roomID,
		UserID:    userID,
		Privilege: privilege,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseRoomToken validates a room token and returns its claims
func (s *RoomTokenService) ParseRoomToken(tokenString string) (*RoomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RoomClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*RoomClaims)
	if !ok || !token.Valid || claims.AppID != s.appID {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
