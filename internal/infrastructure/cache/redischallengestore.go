package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisChallengePrefix = "passkey:challenge:"

// RedisChallengeStore keeps ceremony challenges in Redis so they survive
// restarts and are shared across instances. GETDEL gives the same
// consume-exactly-once semantics as the in-memory store.
type RedisChallengeStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{
		client: client,
		prefix: redisChallengePrefix,
		ttl:    ChallengeTTL,
	}
}

// credentialParameterWrapper wraps protocol.CredentialParameter for JSON
// round-tripping.
type credentialParameterWrapper struct {
	Type      string `json:"type"`
	Algorithm int64  `json:"alg"`
}

type challengeWrapper struct {
	UserURN              string                       `json:"user_urn,omitempty"`
	Challenge            string                       `json:"challenge"`
	RelyingPartyID       string                       `json:"rp_id"`
	UserID               []byte                       `json:"user_id,omitempty"`
	AllowedCredentialIDs [][]byte                     `json:"allowed_credential_ids,omitempty"`
	UserVerification     string                       `json:"user_verification"`
	Expires              int64                        `json:"expires"`
	CredParams           []credentialParameterWrapper `json:"cred_params,omitempty"`
	Mediation            string                       `json:"mediation,omitempty"`
}

func (s *RedisChallengeStore) Store(ctx context.Context, session *webauthn.SessionData, userURN string) (string, error) {
	if session == nil {
		return "", errors.New("session data cannot be nil")
	}

	var credParams []credentialParameterWrapper
	for _, cp := range session.CredParams {
		credParams = append(credParams, credentialParameterWrapper{
			Type:      string(cp.Type),
			Algorithm: int64(cp.Algorithm),
		})
	}

	wrapper := challengeWrapper{
		UserURN:              userURN,
		Challenge:            session.Challenge,
		RelyingPartyID:       session.RelyingPartyID,
		UserID:               session.UserID,
		AllowedCredentialIDs: session.AllowedCredentialIDs,
		UserVerification:     string(session.UserVerification),
		Expires:              session.Expires.UnixMilli(),
		CredParams:           credParams,
		Mediation:            string(session.Mediation),
	}

	data, err := json.Marshal(wrapper)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session data: %w", err)
	}

	id := uuid.NewString()
	if err := s.client.Set(ctx, s.prefix+id, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store challenge in Redis: %w", err)
	}
	return id, nil
}

func (s *RedisChallengeStore) Consume(ctx context.Context, id string) (*Challenge, error) {
	if id == "" {
		return nil, ErrChallengeNotFound
	}

	data, err := s.client.GetDel(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to retrieve challenge from Redis: %w", err)
	}

	var wrapper challengeWrapper
	if err := json.Unmarshal([]byte(data), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	var credParams []protocol.CredentialParameter
	for _, cp := range wrapper.CredParams {
		credParams = append(credParams, protocol.CredentialParameter{
			Type:      protocol.CredentialType(cp.Type),
			Algorithm: webauthncose.COSEAlgorithmIdentifier(cp.Algorithm),
		})
	}

	return &Challenge{
		UserURN: wrapper.UserURN,
		Session: &webauthn.SessionData{
			Challenge:            wrapper.Challenge,
			RelyingPartyID:       wrapper.RelyingPartyID,
			UserID:               wrapper.UserID,
			AllowedCredentialIDs: wrapper.AllowedCredentialIDs,
			UserVerification:     protocol.UserVerificationRequirement(wrapper.UserVerification),
			Expires:              time.UnixMilli(wrapper.Expires),
			CredParams:           credParams,
			Mediation:            protocol.CredentialMediationRequirement(wrapper.Mediation),
		},
	}, nil
}
